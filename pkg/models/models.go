package models

import (
	"time"
)

// OrderStatus defines the possible states of a service order.
type OrderStatus string

const (
	PENDING     OrderStatus = "PENDING"
	ACCEPTED    OrderStatus = "ACCEPTED"
	EN_ROUTE    OrderStatus = "EN_ROUTE"
	ARRIVED     OrderStatus = "ARRIVED"
	IN_PROGRESS OrderStatus = "IN_PROGRESS"
	COMPLETED   OrderStatus = "COMPLETED"
	CANCELLED   OrderStatus = "CANCELLED"
)

// validTransitions captures the order lifecycle. COMPLETED and CANCELLED are
// terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	PENDING:     {ACCEPTED, CANCELLED},
	ACCEPTED:    {EN_ROUTE, CANCELLED},
	EN_ROUTE:    {ARRIVED, CANCELLED},
	ARRIVED:     {IN_PROGRESS, CANCELLED},
	IN_PROGRESS: {COMPLETED},
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case PENDING, ACCEPTED, EN_ROUTE, ARRIVED, IN_PROGRESS, COMPLETED, CANCELLED:
		return true
	}
	return false
}

// Role identifies which side of the marketplace a user is on.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

// Order represents the internal domain model for a service order.
// It includes dynamodbav tags for marshalling.
type Order struct {
	Id          string      `dynamodbav:"id"`
	CustomerId  string      `dynamodbav:"customer_id"`
	ProviderId  string      `dynamodbav:"provider_id,omitempty"`
	ServiceCode string      `dynamodbav:"service_code"`
	Address     string      `dynamodbav:"address"`
	Notes       string      `dynamodbav:"notes,omitempty"`
	Status      OrderStatus `dynamodbav:"status"`
	Version     int64       `dynamodbav:"version"`
	CreatedAt   time.Time   `dynamodbav:"created_at"`
	UpdatedAt   time.Time   `dynamodbav:"updated_at"`
}

// ChatMessage represents one message in an order's chat thread.
type ChatMessage struct {
	Id        string    `dynamodbav:"id"`
	OrderId   string    `dynamodbav:"order_id"`
	SenderId  string    `dynamodbav:"sender_id"`
	Body      string    `dynamodbav:"body"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}

// LocationPing is the provider's most recent reported position for an order.
// Only the latest ping per order is retained.
type LocationPing struct {
	OrderId    string    `dynamodbav:"order_id"`
	ProviderId string    `dynamodbav:"provider_id"`
	Latitude   float64   `dynamodbav:"latitude"`
	Longitude  float64   `dynamodbav:"longitude"`
	RecordedAt time.Time `dynamodbav:"recorded_at"`
}
