package realtime

import (
	"context"
)

// DeliveryResult reports the outcome of one connection write during a fan-out.
type DeliveryResult struct {
	ConnectionID string
	Err          error
}

// Publisher defines the interface request handlers use to push domain events
// to connected clients. Delivery is fire-and-forget: implementations never
// return an error for the fan-out as a whole, only per-connection outcomes.
type Publisher interface {
	Publish(ctx context.Context, topicID string, event Event) []DeliveryResult
}
