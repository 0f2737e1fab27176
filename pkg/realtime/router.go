package realtime

import (
	"sync"
)

// Router maps topic ids to the set of connection ids subscribed to them.
// Topics are created lazily on first subscribe and dropped once their last
// subscriber leaves.
type Router struct {
	mu     sync.RWMutex
	topics map[string]map[string]struct{}
	byConn map[string]map[string]struct{}
}

// NewRouter creates a new Router.
func NewRouter() *Router {
	return &Router{
		topics: make(map[string]map[string]struct{}),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Subscribe adds a connection to a topic. Repeated subscribes are no-ops.
func (rt *Router) Subscribe(topicID, connID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	subs, ok := rt.topics[topicID]
	if !ok {
		subs = make(map[string]struct{})
		rt.topics[topicID] = subs
	}
	subs[connID] = struct{}{}

	joined, ok := rt.byConn[connID]
	if !ok {
		joined = make(map[string]struct{})
		rt.byConn[connID] = joined
	}
	joined[topicID] = struct{}{}
}

// Unsubscribe removes a connection from a topic. Repeated unsubscribes are
// no-ops.
func (rt *Router) Unsubscribe(topicID, connID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.removeLocked(topicID, connID)
}

// SubscribersOf returns a snapshot of the connection ids currently subscribed
// to a topic. Subscriptions added after the call do not appear.
func (rt *Router) SubscribersOf(topicID string) []string {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	subs := rt.topics[topicID]
	if len(subs) == 0 {
		return nil
	}
	out := make([]string, 0, len(subs))
	for connID := range subs {
		out = append(out, connID)
	}
	return out
}

// DropConnection removes a connection from every topic it had joined.
func (rt *Router) DropConnection(connID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	for topicID := range rt.byConn[connID] {
		rt.removeLocked(topicID, connID)
	}
}

// TopicCount returns the number of live topics.
func (rt *Router) TopicCount() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.topics)
}

func (rt *Router) removeLocked(topicID, connID string) {
	if subs, ok := rt.topics[topicID]; ok {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(rt.topics, topicID)
		}
	}
	if joined, ok := rt.byConn[connID]; ok {
		delete(joined, topicID)
		if len(joined) == 0 {
			delete(rt.byConn, connID)
		}
	}
}
