package realtime

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/casafix/home-services-backend/pkg/models"
)

// Conn is the minimal write surface the registry needs from a transport
// connection. *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Connection is one open realtime channel tied to a single authenticated user.
type Connection struct {
	ID     string
	UserID string
	Role   models.Role

	conn     Conn
	mu       sync.Mutex // serializes writes to conn
	lastSeen atomic.Int64
}

func (c *Connection) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Touch refreshes the liveness timestamp.
func (c *Connection) Touch() {
	c.lastSeen.Store(time.Now().UnixNano())
}

// LastSeen returns the time of the last heartbeat or inbound message.
func (c *Connection) LastSeen() time.Time {
	return time.Unix(0, c.lastSeen.Load())
}

// Registry tracks the currently-open connections and their identities.
// It owns Connection lifecycles: created on handshake, destroyed on
// disconnect, write failure, or idle timeout.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	router *Router
	logger *slog.Logger
}

// NewRegistry creates a new Registry. The router is consulted on unregister
// to tear down the connection's topic memberships.
func NewRegistry(router *Router, logger *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]*Connection),
		router: router,
		logger: logger,
	}
}

// Register stores a connection under a generated id. Callers must have
// authenticated the user before registering; the registry itself never sees
// credentials.
func (r *Registry) Register(conn Conn, userID string, role models.Role) *Connection {
	c := &Connection{
		ID:     uuid.New().String(),
		UserID: userID,
		Role:   role,
		conn:   conn,
	}
	c.Touch()

	r.mu.Lock()
	r.conns[c.ID] = c
	r.mu.Unlock()

	return c
}

// Unregister removes a connection, tears down its topic memberships, and
// closes the underlying channel. Unknown ids are no-ops.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	c, ok := r.conns[connID]
	if ok {
		delete(r.conns, connID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	r.router.DropConnection(connID)
	_ = c.conn.Close()
}

// Get returns the connection for an id, if still registered.
func (r *Registry) Get(connID string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[connID]
	return c, ok
}

// Touch refreshes a connection's liveness timestamp.
func (r *Registry) Touch(connID string) {
	if c, ok := r.Get(connID); ok {
		c.Touch()
	}
}

// Len returns the number of open connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// ReapIdle unregisters every connection not seen within the threshold and
// returns the reaped ids. This bounds memory growth; it is housekeeping, not
// a correctness mechanism.
func (r *Registry) ReapIdle(threshold time.Duration) []string {
	cutoff := time.Now().Add(-threshold)

	r.mu.RLock()
	var stale []string
	for id, c := range r.conns {
		if c.LastSeen().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		r.logger.Info("reaping idle connection", "connectionId", id)
		r.Unregister(id)
	}
	return stale
}

// StartReaper runs ReapIdle on the given interval until ctx is cancelled.
func (r *Registry) StartReaper(ctx context.Context, interval, threshold time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.ReapIdle(threshold)
			}
		}
	}()
}

// CloseAll unregisters every connection. Used during shutdown.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.Unregister(id)
	}
}
