package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/casafix/home-services-backend/pkg/auth"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 5 * time.Second

	// Inbound envelopes are small control messages; larger frames close the
	// connection.
	maxMessageSize = 1024
)

// TokenVerifier validates a handshake token and returns the caller's claims.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*auth.Claims, error)
}

// Handler upgrades authenticated HTTP requests to WebSocket connections and
// services the inbound control protocol (subscribe, unsubscribe, heartbeat).
type Handler struct {
	registry *Registry
	router   *Router
	verifier TokenVerifier
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(registry *Registry, router *Router, verifier TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		router:   router,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all connections by default for local development.
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles the realtime handshake. The access token travels as a
// query parameter because browsers cannot set headers on WebSocket upgrades;
// rejected connections are refused before the upgrade with no payload.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, "Token not provided", http.StatusUnauthorized)
		return
	}
	claims, err := h.verifier.VerifyToken(tokenString)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := h.registry.Register(conn, claims.UserID, claims.Role)
	defer h.registry.Unregister(c.ID)

	h.logger.Info("client connected", "connectionId", c.ID, "userId", claims.UserID, "role", claims.Role)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	conn.SetPongHandler(func(string) error {
		c.Touch()
		return nil
	})
	go h.sendPings(ctx, conn)

	h.readLoop(c, conn)

	h.logger.Info("client disconnected", "connectionId", c.ID, "userId", claims.UserID)
}

// readLoop services inbound envelopes until the client disconnects.
// A malformed message is logged and ignored; it never closes the connection.
func (h *Handler) readLoop(c *Connection, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c.Touch()

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			h.logger.Warn("ignoring malformed message", "connectionId", c.ID, "error", err)
			continue
		}

		switch env.Type {
		case TypeSubscribe:
			if env.TopicID == "" {
				h.logger.Warn("subscribe without topic", "connectionId", c.ID)
				continue
			}
			h.router.Subscribe(env.TopicID, c.ID)
		case TypeUnsubscribe:
			if env.TopicID == "" {
				continue
			}
			h.router.Unsubscribe(env.TopicID, c.ID)
		case TypeHeartbeat:
			// Touch above already refreshed liveness.
		default:
			h.logger.Warn("ignoring message with unknown type", "connectionId", c.ID, "type", env.Type)
		}
	}
}

func (h *Handler) sendPings(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		case <-ctx.Done():
			return
		}
	}
}
