// Package client provides a reconnecting consumer for the realtime event
// channel. The connection is treated as disposable: on any failure the
// client redials with bounded exponential backoff, re-subscribes its
// tracked topics, and asks the caller to reconcile authoritative state
// over REST before resuming live delivery.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/casafix/home-services-backend/pkg/realtime"
)

// State names one phase of the connection lifecycle.
type State string

const (
	// StateDisconnected means no connection exists and no dial is in flight.
	StateDisconnected State = "disconnected"
	// StateConnecting means a dial attempt (possibly a retry) is in flight.
	StateConnecting State = "connecting"
	// StateConnected means the socket is open but topics are not yet
	// re-subscribed and reconciled.
	StateConnected State = "connected"
	// StateLive means subscriptions are restored and events are flowing.
	StateLive State = "live"
)

const (
	defaultInitialBackoff = 500 * time.Millisecond
	defaultMaxBackoff     = 30 * time.Second
	defaultMaxRetries     = 8
	defaultEventBuffer    = 64
	heartbeatInterval     = 25 * time.Second
)

// ReconcileFunc is invoked once per tracked topic after every successful
// (re)connect, before the client goes live. Callers refetch the topic's
// authoritative state over REST; events missed while offline are never
// replayed.
type ReconcileFunc func(ctx context.Context, topicID string)

// Config carries the client's dependencies and tuning knobs.
type Config struct {
	// URL is the realtime endpoint, e.g. "ws://localhost:3000/ws".
	URL string
	// Token is appended as the `token` query parameter on each dial.
	Token string
	// Transport dials connections. Defaults to NewWebSocketTransport().
	Transport Transport
	// Reconcile, if set, is called per topic after each reconnect.
	Reconcile ReconcileFunc
	// NewBackOff builds the retry strategy for one dial cycle. Defaults to
	// bounded exponential backoff.
	NewBackOff func() backoff.BackOff

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxRetries     uint64
	EventBuffer    int
	Logger         *slog.Logger
}

// Client maintains a realtime subscription set across reconnects.
type Client struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	topics map[string]struct{}
	conn   Conn
	closed bool

	offline bool

	events          chan realtime.Envelope
	closeEventsOnce sync.Once
	done            chan struct{}
}

// New creates a client. Run must be called to start connecting.
func New(cfg Config) *Client {
	if cfg.Transport == nil {
		cfg.Transport = NewWebSocketTransport()
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.EventBuffer == 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:    cfg,
		logger: logger,
		state:  StateDisconnected,
		topics: make(map[string]struct{}),
		events: make(chan realtime.Envelope, cfg.EventBuffer),
		done:   make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connected reports whether a socket is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateConnected || c.state == StateLive
}

// Offline reports whether the client gave up reconnecting after exhausting
// its retry budget.
func (c *Client) Offline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offline
}

// Events is the stream of server events. When the buffer is full the oldest
// pending event is not preserved; the newest is dropped and logged. Callers
// recover through reconcile, not replay. The channel is closed when Run
// returns, so consumers can range over it.
func (c *Client) Events() <-chan realtime.Envelope {
	return c.events
}

// Subscribe adds a topic to the tracked set and, when connected, sends the
// subscription immediately. The returned func removes the topic again.
// Both directions survive reconnects.
func (c *Client) Subscribe(topicID string) func() {
	c.mu.Lock()
	c.topics[topicID] = struct{}{}
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		c.send(conn, realtime.Envelope{Type: realtime.TypeSubscribe, TopicID: topicID})
	}

	return func() {
		c.mu.Lock()
		delete(c.topics, topicID)
		conn := c.conn
		c.mu.Unlock()

		if conn != nil {
			c.send(conn, realtime.Envelope{Type: realtime.TypeUnsubscribe, TopicID: topicID})
		}
	}
}

// Topics returns a snapshot of the tracked topic set.
func (c *Client) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.topics))
	for id := range c.topics {
		out = append(out, id)
	}
	return out
}

// Close stops the client permanently. It is the only terminal transition;
// a closed client never reconnects.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	close(c.done)
	if conn != nil {
		_ = conn.Close()
	}
}

// Run drives the connect/read/reconnect loop until ctx is cancelled, Close
// is called, or the retry budget for a dial cycle is exhausted. In the last
// case the client stays permanently offline and Run returns the dial error.
// The events channel is closed before Run returns.
func (c *Client) Run(ctx context.Context) error {
	defer c.closeEventsOnce.Do(func() { close(c.events) })
	for {
		if c.isDone(ctx) {
			return nil
		}

		c.setState(StateConnecting)
		conn, err := c.dial(ctx)
		if err != nil {
			if c.isDone(ctx) {
				return nil
			}
			c.mu.Lock()
			c.offline = true
			c.state = StateDisconnected
			c.mu.Unlock()
			c.logger.Error("giving up on reconnect", "error", err)
			return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return nil
		}
		c.conn = conn
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.resubscribe(conn); err != nil {
			c.logger.Warn("re-subscribe failed, redialing", "error", err)
			c.teardown(conn)
			continue
		}
		c.runReconcile(ctx)
		c.setState(StateLive)
		c.logger.Info("realtime client live", "topics", len(c.Topics()))

		connCtx, cancelConn := context.WithCancel(ctx)
		go c.sendHeartbeats(connCtx, conn)
		go func() {
			// Unblocks the read loop when the caller cancels ctx or calls
			// Close; closing an already-closed conn is a no-op.
			select {
			case <-connCtx.Done():
			case <-c.done:
			}
			_ = conn.Close()
		}()

		err = c.readLoop(conn)
		cancelConn()
		c.teardown(conn)

		if c.isDone(ctx) {
			return nil
		}
		c.logger.Info("connection lost, reconnecting", "error", err)
	}
}

func (c *Client) dial(ctx context.Context) (Conn, error) {
	target, err := c.dialURL()
	if err != nil {
		return nil, err
	}

	var conn Conn
	operation := func() error {
		var dialErr error
		conn, dialErr = c.cfg.Transport.Dial(ctx, target)
		return dialErr
	}

	strategy := backoff.WithContext(c.newBackOff(), ctx)
	err = backoff.RetryNotify(operation, strategy, func(err error, d time.Duration) {
		c.logger.Info("dial failed, retrying", "error", err, "nextAttemptIn", d)
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *Client) newBackOff() backoff.BackOff {
	if c.cfg.NewBackOff != nil {
		return c.cfg.NewBackOff()
	}
	return backoff.WithMaxRetries(
		backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(c.cfg.InitialBackoff),
			backoff.WithMaxInterval(c.cfg.MaxBackoff),
		),
		c.cfg.MaxRetries,
	)
}

func (c *Client) dialURL() (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if c.cfg.Token != "" {
		q := u.Query()
		q.Set("token", c.cfg.Token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// resubscribe replays the tracked topic set onto a fresh connection.
func (c *Client) resubscribe(conn Conn) error {
	for _, topicID := range c.Topics() {
		if err := c.send(conn, realtime.Envelope{Type: realtime.TypeSubscribe, TopicID: topicID}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) runReconcile(ctx context.Context) {
	if c.cfg.Reconcile == nil {
		return
	}
	for _, topicID := range c.Topics() {
		c.cfg.Reconcile(ctx, topicID)
	}
}

func (c *Client) readLoop(conn Conn) error {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env realtime.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("ignoring malformed event", "error", err)
			continue
		}

		select {
		case c.events <- env:
		default:
			c.logger.Warn("event buffer full, dropping event", "type", env.Type, "topicId", env.TopicID)
		}
	}
}

func (c *Client) sendHeartbeats(ctx context.Context, conn Conn) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.send(conn, realtime.Envelope{Type: realtime.TypeHeartbeat}); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) send(conn Conn, env realtime.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return conn.WriteMessage(data)
}

func (c *Client) teardown(conn Conn) {
	_ = conn.Close()
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	if !c.closed {
		c.state = StateDisconnected
	}
	c.mu.Unlock()
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	if !c.closed {
		c.state = s
	}
	c.mu.Unlock()
}

func (c *Client) isDone(ctx context.Context) bool {
	select {
	case <-c.done:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
