// Package realtime relays domain events to connected clients over WebSockets.
// It is a best-effort convenience channel: the authoritative state change is
// always durable in storage before anything is published here, and clients
// reconcile over REST after a reconnect.
package realtime

import (
	"encoding/json"
	"time"
)

// EventKind defines the type of a server-to-client event.
type EventKind string

const (
	// EventStatusChanged is sent when an order moves through its lifecycle.
	EventStatusChanged EventKind = "status_changed"
	// EventLocationUpdate is sent when a provider reports a new position.
	EventLocationUpdate EventKind = "location_update"
	// EventMessage is sent when a chat message is posted.
	EventMessage EventKind = "message"
	// EventTyping is sent when a participant is typing; nothing is persisted.
	EventTyping EventKind = "typing"
)

// Client-to-server envelope types.
const (
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypeHeartbeat   = "heartbeat"
)

// Envelope is the wire format in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	TopicID string          `json:"topicId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is one domain event to be fanned out to a topic's subscribers.
// Events are never persisted by this layer.
type Event struct {
	Kind    EventKind
	Payload interface{}
}

// OrderTopic returns the topic id for an order's tracking channel.
func OrderTopic(orderID string) string { return "order:" + orderID }

// ChatTopic returns the topic id for an order's chat thread.
func ChatTopic(orderID string) string { return "chat:" + orderID }

// StatusChangedPayload is the payload for a status_changed event.
type StatusChangedPayload struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	ProviderID string `json:"provider_id,omitempty"`
}

// MessagePayload is the payload for a message event.
type MessagePayload struct {
	MessageID string    `json:"message_id"`
	OrderID   string    `json:"order_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TypingPayload is the payload for a typing event.
type TypingPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// LocationUpdatePayload is the payload for a location_update event.
type LocationUpdatePayload struct {
	OrderID    string    `json:"order_id"`
	ProviderID string    `json:"provider_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}
