package realtime

import (
	"context"
	"sync"
)

// NoOpPublisher is a mock publisher that does nothing.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, topicID string, event Event) []DeliveryResult {
	return nil
}

// PublishedEvent is one recorded Publish call.
type PublishedEvent struct {
	TopicID string
	Event   Event
}

// CapturePublisher records every published event so tests can assert on the
// fan-out without a live hub. Results, if set, is returned from each call.
type CapturePublisher struct {
	mu      sync.Mutex
	Events  []PublishedEvent
	Results []DeliveryResult
}

// Publish records the call.
func (p *CapturePublisher) Publish(ctx context.Context, topicID string, event Event) []DeliveryResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{TopicID: topicID, Event: event})
	return p.Results
}

// Published returns a snapshot of the recorded calls.
func (p *CapturePublisher) Published() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedEvent(nil), p.Events...)
}
