package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/casafix/home-services-backend/pkg/api"
	"github.com/casafix/home-services-backend/pkg/auth"
	"github.com/casafix/home-services-backend/pkg/mapping"
	"github.com/casafix/home-services-backend/pkg/models"
	"github.com/casafix/home-services-backend/pkg/realtime"
	"github.com/casafix/home-services-backend/pkg/storage"
)

// ChatHandler holds the dependencies for an order's chat thread.
type ChatHandler struct {
	Store     storage.ApiStore
	Publisher realtime.Publisher
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(store storage.ApiStore, publisher realtime.Publisher) *ChatHandler {
	return &ChatHandler{Store: store, Publisher: publisher}
}

// CreateMessage handles posting a chat message to an order's thread.
// The message is durable before anything is published.
func (h *ChatHandler) CreateMessage(w http.ResponseWriter, r *http.Request, orderId string) {
	claims, _, ok := h.requireParticipant(w, r, orderId)
	if !ok {
		return
	}

	var newMsg api.NewMessage
	if err := json.NewDecoder(r.Body).Decode(&newMsg); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if newMsg.Body == "" {
		http.Error(w, "body is required", http.StatusBadRequest)
		return
	}

	domainMsg := mapping.ToDomainNewMessage(orderId, claims.UserID, &newMsg)

	createdMsg, err := h.Store.CreateMessage(r.Context(), domainMsg)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create message: %v", err), http.StatusInternalServerError)
		return
	}

	if h.Publisher != nil {
		h.Publisher.Publish(r.Context(), realtime.ChatTopic(orderId), realtime.Event{
			Kind: realtime.EventMessage,
			Payload: realtime.MessagePayload{
				MessageID: createdMsg.Id,
				OrderID:   createdMsg.OrderId,
				SenderID:  createdMsg.SenderId,
				Body:      createdMsg.Body,
				CreatedAt: createdMsg.CreatedAt,
			},
		})
	}

	apiMsg := mapping.ToApiMessage(createdMsg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(apiMsg); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// ListMessages handles retrieving an order's full chat thread. This is also
// the reconciliation fetch clients run after a reconnect.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request, orderId string) {
	if _, _, ok := h.requireParticipant(w, r, orderId); !ok {
		return
	}

	domainMsgs, err := h.Store.ListMessagesByOrderID(r.Context(), orderId)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve messages: %v", err), http.StatusInternalServerError)
		return
	}

	apiMsgs := make([]*api.Message, len(domainMsgs))
	for i, msg := range domainMsgs {
		apiMsgs[i] = mapping.ToApiMessage(&msg)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiMsgs); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Typing handles a typing notification. Nothing is persisted; the event goes
// straight to the chat topic's current subscribers and is lost otherwise.
func (h *ChatHandler) Typing(w http.ResponseWriter, r *http.Request, orderId string) {
	claims, _, ok := h.requireParticipant(w, r, orderId)
	if !ok {
		return
	}

	if h.Publisher != nil {
		h.Publisher.Publish(r.Context(), realtime.ChatTopic(orderId), realtime.Event{
			Kind: realtime.EventTyping,
			Payload: realtime.TypingPayload{
				OrderID: orderId,
				UserID:  claims.UserID,
			},
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireParticipant loads the order and verifies the caller is its customer
// or assigned provider. On failure it writes the error response and returns
// ok=false.
func (h *ChatHandler) requireParticipant(w http.ResponseWriter, r *http.Request, orderId string) (*auth.Claims, *models.Order, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, nil, false
	}

	order, err := h.Store.GetOrder(r.Context(), orderId)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve order: %v", err), http.StatusInternalServerError)
		}
		return nil, nil, false
	}

	if claims.UserID != order.CustomerId && claims.UserID != order.ProviderId {
		http.Error(w, "Not a participant in this order", http.StatusForbidden)
		return nil, nil, false
	}

	return claims, order, true
}
