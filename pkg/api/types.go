// Package api defines the wire types for the REST surface.
package api

import (
	"time"
)

// NewOrder is the request body for creating an order.
type NewOrder struct {
	ServiceCode string  `json:"service_code"`
	Address     string  `json:"address"`
	Notes       *string `json:"notes,omitempty"`
}

// Order is the API representation of a service order.
type Order struct {
	Id          string    `json:"id"`
	CustomerId  string    `json:"customer_id"`
	ProviderId  *string   `json:"provider_id,omitempty"`
	ServiceCode string    `json:"service_code"`
	Address     string    `json:"address"`
	Notes       *string   `json:"notes,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatusUpdate is the request body for moving an order through its lifecycle.
type StatusUpdate struct {
	Status string `json:"status"`
}

// NewMessage is the request body for posting a chat message.
type NewMessage struct {
	Body string `json:"body"`
}

// Message is the API representation of a chat message.
type Message struct {
	Id        string    `json:"id"`
	OrderId   string    `json:"order_id"`
	SenderId  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationUpdate is the request body for a provider location ping.
type LocationUpdate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is the API representation of the latest provider position.
type Location struct {
	OrderId    string    `json:"order_id"`
	ProviderId string    `json:"provider_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

// TokenRequest is the request body for minting an access token.
type TokenRequest struct {
	UserId string `json:"user_id"`
	Role   string `json:"role"`
}

// TokenResponse carries a signed access token.
type TokenResponse struct {
	Token string `json:"token"`
}
