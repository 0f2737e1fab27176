package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Dispatcher fans published events out to a topic's current subscribers.
type Dispatcher struct {
	registry *Registry
	router   *Router
	logger   *slog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(registry *Registry, router *Router, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		router:   router,
		logger:   logger,
	}
}

// Make sure we conform to the interface
var _ Publisher = (*Dispatcher)(nil)

// Publish delivers the event to every connection subscribed to the topic at
// call time. A write failure on one connection unregisters that connection
// and the fan-out continues; the failure never escapes as an error. If no
// connections are subscribed the event is dropped silently.
func (d *Dispatcher) Publish(ctx context.Context, topicID string, event Event) []DeliveryResult {
	subscribers := d.router.SubscribersOf(topicID)
	if len(subscribers) == 0 {
		return nil
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		d.logger.Error("failed to marshal event payload", "topicId", topicID, "kind", event.Kind, "error", err)
		return nil
	}
	data, err := json.Marshal(Envelope{
		Type:    string(event.Kind),
		TopicID: topicID,
		Payload: payload,
	})
	if err != nil {
		d.logger.Error("failed to marshal envelope", "topicId", topicID, "kind", event.Kind, "error", err)
		return nil
	}

	results := make([]DeliveryResult, 0, len(subscribers))
	for _, connID := range subscribers {
		c, ok := d.registry.Get(connID)
		if !ok {
			// Unregistered between snapshot and delivery.
			continue
		}
		if err := c.write(data); err != nil {
			d.logger.Info("stale connection found, dropping", "connectionId", connID, "error", err)
			d.registry.Unregister(connID)
			results = append(results, DeliveryResult{ConnectionID: connID, Err: err})
			continue
		}
		results = append(results, DeliveryResult{ConnectionID: connID})
	}
	return results
}
