package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casafix/home-services-backend/pkg/realtime"
)

// fakeConn is an in-memory connection: the test plays the server by pushing
// frames into inbound and inspecting recorded writes.
type fakeConn struct {
	mu        sync.Mutex
	writes    [][]byte
	inbound   chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		done:    make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case data := <-c.inbound:
		return data, nil
	case <-c.done:
		return nil, errors.New("use of closed network connection")
	}
}

func (c *fakeConn) WriteMessage(data []byte) error {
	select {
	case <-c.done:
		return errors.New("use of closed network connection")
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *fakeConn) serverPush(t *testing.T, env realtime.Envelope) {
	t.Helper()
	data, err := json.Marshal(env)
	require.NoError(t, err)
	c.inbound <- data
}

func (c *fakeConn) sent(t *testing.T) []realtime.Envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]realtime.Envelope, 0, len(c.writes))
	for _, data := range c.writes {
		var env realtime.Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		out = append(out, env)
	}
	return out
}

// fakeTransport hands out fakeConns, optionally failing the first n dials.
type fakeTransport struct {
	mu       sync.Mutex
	failures int
	dials    int
	conns    []*fakeConn
}

func (tr *fakeTransport) Dial(ctx context.Context, url string) (Conn, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.dials++
	if tr.failures > 0 {
		tr.failures--
		return nil, errors.New("connection refused")
	}
	conn := newFakeConn()
	tr.conns = append(tr.conns, conn)
	return conn, nil
}

func (tr *fakeTransport) dialCount() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.dials
}

func (tr *fakeTransport) conn(t *testing.T, i int) *fakeConn {
	t.Helper()
	tr.mu.Lock()
	defer tr.mu.Unlock()
	require.Greater(t, len(tr.conns), i)
	return tr.conns[i]
}

func (tr *fakeTransport) connCount() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.conns)
}

func newTestClient(transport Transport, retries uint64, reconcile ReconcileFunc) *Client {
	return New(Config{
		URL:       "ws://localhost/ws",
		Token:     "test-token",
		Transport: transport,
		Reconcile: reconcile,
		NewBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, retries)
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func waitFor(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestClientConnectAndReceive(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport, 2, nil)
	t.Cleanup(c.Close)

	c.Subscribe(realtime.OrderTopic("42"))
	go func() { _ = c.Run(context.Background()) }()

	waitFor(t, func() bool { return c.State() == StateLive })
	assert.True(t, c.Connected())

	// The tracked topic was subscribed on connect.
	conn := transport.conn(t, 0)
	waitFor(t, func() bool { return len(conn.sent(t)) >= 1 })
	sent := conn.sent(t)
	assert.Equal(t, realtime.TypeSubscribe, sent[0].Type)
	assert.Equal(t, realtime.OrderTopic("42"), sent[0].TopicID)

	conn.serverPush(t, realtime.Envelope{
		Type:    string(realtime.EventStatusChanged),
		TopicID: realtime.OrderTopic("42"),
	})

	select {
	case env := <-c.Events():
		assert.Equal(t, string(realtime.EventStatusChanged), env.Type)
		assert.Equal(t, realtime.OrderTopic("42"), env.TopicID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestClientReconnects(t *testing.T) {
	var mu sync.Mutex
	var reconciled []string
	reconcile := func(ctx context.Context, topicID string) {
		mu.Lock()
		defer mu.Unlock()
		reconciled = append(reconciled, topicID)
	}

	transport := &fakeTransport{}
	c := newTestClient(transport, 2, reconcile)
	t.Cleanup(c.Close)

	c.Subscribe(realtime.OrderTopic("42"))
	go func() { _ = c.Run(context.Background()) }()

	waitFor(t, func() bool { return c.State() == StateLive })

	// Kill the first connection; the client must dial again, re-subscribe,
	// and reconcile the topic a second time.
	transport.conn(t, 0).Close()

	waitFor(t, func() bool { return transport.connCount() == 2 })
	waitFor(t, func() bool { return c.State() == StateLive })

	second := transport.conn(t, 1)
	waitFor(t, func() bool { return len(second.sent(t)) >= 1 })
	sent := second.sent(t)
	assert.Equal(t, realtime.TypeSubscribe, sent[0].Type)
	assert.Equal(t, realtime.OrderTopic("42"), sent[0].TopicID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{realtime.OrderTopic("42"), realtime.OrderTopic("42")}, reconciled)
	assert.False(t, c.Offline())
}

func TestClientGivesUpAfterExhaustedRetries(t *testing.T) {
	transport := &fakeTransport{failures: 100}
	c := newTestClient(transport, 2, nil)
	t.Cleanup(c.Close)

	err := c.Run(context.Background())

	require.Error(t, err)
	assert.True(t, c.Offline())
	assert.False(t, c.Connected())
	assert.Equal(t, StateDisconnected, c.State())
	// 1 initial attempt + 2 retries.
	assert.Equal(t, 3, transport.dialCount())
}

func TestClientSubscribeWhileLive(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport, 2, nil)
	t.Cleanup(c.Close)

	go func() { _ = c.Run(context.Background()) }()
	waitFor(t, func() bool { return c.State() == StateLive })

	unsubscribe := c.Subscribe(realtime.ChatTopic("7"))
	conn := transport.conn(t, 0)
	waitFor(t, func() bool { return len(conn.sent(t)) >= 1 })
	sent := conn.sent(t)
	assert.Equal(t, realtime.TypeSubscribe, sent[0].Type)
	assert.Equal(t, realtime.ChatTopic("7"), sent[0].TopicID)
	assert.Equal(t, []string{realtime.ChatTopic("7")}, c.Topics())

	unsubscribe()
	waitFor(t, func() bool { return len(conn.sent(t)) >= 2 })
	sent = conn.sent(t)
	assert.Equal(t, realtime.TypeUnsubscribe, sent[1].Type)
	assert.Empty(t, c.Topics())
}

func TestClientRunStopsOnContextCancellation(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport, 2, nil)
	t.Cleanup(c.Close)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- c.Run(ctx) }()
	waitFor(t, func() bool { return c.State() == StateLive })

	// Cancelling the context must unblock the connected read loop, not just
	// future dial attempts.
	cancel()

	select {
	case err := <-runDone:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	assert.False(t, c.Connected())
	assert.Equal(t, 1, transport.dialCount(), "no redial after cancellation")
}

func TestClientCloseIsTerminal(t *testing.T) {
	transport := &fakeTransport{}
	c := newTestClient(transport, 2, nil)

	runDone := make(chan error, 1)
	go func() { runDone <- c.Run(context.Background()) }()
	waitFor(t, func() bool { return c.State() == StateLive })

	dialsBefore := transport.dialCount()
	c.Close()

	select {
	case err := <-runDone:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}

	assert.Equal(t, StateDisconnected, c.State())
	assert.False(t, c.Connected())

	// The events channel is closed, so a consumer ranging over it drains
	// and stops instead of blocking forever.
	select {
	case _, open := <-c.Events():
		assert.False(t, open, "events channel should be closed after Run returns")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel still open after Run returned")
	}

	// No redial after the terminal transition.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, dialsBefore, transport.dialCount())

	// Close is idempotent.
	c.Close()
}
