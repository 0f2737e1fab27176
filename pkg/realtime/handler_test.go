package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casafix/home-services-backend/pkg/auth"
	"github.com/casafix/home-services-backend/pkg/models"
)

// fakeVerifier accepts a single token and maps it to fixed claims.
type fakeVerifier struct {
	token  string
	claims *auth.Claims
}

func (v *fakeVerifier) VerifyToken(tokenString string) (*auth.Claims, error) {
	if tokenString != v.token {
		return nil, auth.ErrInvalidToken
	}
	return v.claims, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *Registry, *Router, *Dispatcher) {
	t.Helper()
	router := NewRouter()
	registry := NewRegistry(router, testLogger())
	dispatcher := NewDispatcher(registry, router, testLogger())
	verifier := &fakeVerifier{
		token:  "good-token",
		claims: &auth.Claims{UserID: "user-1", Role: models.RoleCustomer},
	}
	handler := NewHandler(registry, router, verifier, testLogger())

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, registry, router, dispatcher
}

func wsURL(server *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	if token != "" {
		url += "?token=" + token
	}
	return url
}

// waitForCondition polls until the check passes or the deadline expires. The
// handler's read loop runs on its own goroutine, so tests wait rather than
// assert immediately after a write.
func waitForCondition(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestHandlerRejectsBadHandshake(t *testing.T) {
	t.Run("Missing Token", func(t *testing.T) {
		server, registry, _, _ := newTestServer(t)

		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(server, ""), nil)

		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Nil(t, conn)
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("Invalid Token", func(t *testing.T) {
		server, registry, _, _ := newTestServer(t)

		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(server, "bad-token"), nil)

		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Nil(t, conn)
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, 0, registry.Len())
	})
}

func TestHandlerSubscribeAndReceive(t *testing.T) {
	server, registry, router, dispatcher := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "good-token"), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForCondition(t, func() bool { return registry.Len() == 1 })

	err = conn.WriteJSON(Envelope{Type: TypeSubscribe, TopicID: OrderTopic("42")})
	require.NoError(t, err)

	waitForCondition(t, func() bool { return len(router.SubscribersOf(OrderTopic("42"))) == 1 })

	results := dispatcher.Publish(context.Background(), OrderTopic("42"), statusEvent("42", "ACCEPTED"))
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, string(EventStatusChanged), env.Type)
	assert.Equal(t, OrderTopic("42"), env.TopicID)

	var payload StatusChangedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "42", payload.OrderID)
	assert.Equal(t, "ACCEPTED", payload.Status)
}

func TestHandlerUnsubscribe(t *testing.T) {
	server, registry, router, _ := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "good-token"), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForCondition(t, func() bool { return registry.Len() == 1 })

	require.NoError(t, conn.WriteJSON(Envelope{Type: TypeSubscribe, TopicID: OrderTopic("42")}))
	waitForCondition(t, func() bool { return len(router.SubscribersOf(OrderTopic("42"))) == 1 })

	require.NoError(t, conn.WriteJSON(Envelope{Type: TypeUnsubscribe, TopicID: OrderTopic("42")}))
	waitForCondition(t, func() bool { return len(router.SubscribersOf(OrderTopic("42"))) == 0 })
}

func TestHandlerToleratesMalformedMessages(t *testing.T) {
	server, registry, router, _ := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "good-token"), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForCondition(t, func() bool { return registry.Len() == 1 })

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	require.NoError(t, conn.WriteJSON(Envelope{Type: "mystery"}))
	require.NoError(t, conn.WriteJSON(Envelope{Type: TypeSubscribe}))

	// The connection survives all of the above and keeps serving.
	require.NoError(t, conn.WriteJSON(Envelope{Type: TypeSubscribe, TopicID: OrderTopic("42")}))
	waitForCondition(t, func() bool { return len(router.SubscribersOf(OrderTopic("42"))) == 1 })
	assert.Equal(t, 1, registry.Len())
}

func TestHandlerClosesConnectionOnOversizedMessage(t *testing.T) {
	server, registry, router, _ := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "good-token"), nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForCondition(t, func() bool { return registry.Len() == 1 })
	require.NoError(t, conn.WriteJSON(Envelope{Type: TypeSubscribe, TopicID: OrderTopic("42")}))
	waitForCondition(t, func() bool { return len(router.SubscribersOf(OrderTopic("42"))) == 1 })

	// A frame beyond the read limit terminates the connection instead of
	// being buffered.
	big := make([]byte, maxMessageSize*4)
	for i := range big {
		big[i] = 'a'
	}
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, big))

	waitForCondition(t, func() bool { return registry.Len() == 0 })
	assert.Empty(t, router.SubscribersOf(OrderTopic("42")))
}

func TestHandlerCleansUpOnDisconnect(t *testing.T) {
	server, registry, router, _ := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, "good-token"), nil)
	require.NoError(t, err)

	waitForCondition(t, func() bool { return registry.Len() == 1 })
	require.NoError(t, conn.WriteJSON(Envelope{Type: TypeSubscribe, TopicID: OrderTopic("42")}))
	waitForCondition(t, func() bool { return len(router.SubscribersOf(OrderTopic("42"))) == 1 })

	require.NoError(t, conn.Close())

	waitForCondition(t, func() bool { return registry.Len() == 0 })
	assert.Empty(t, router.SubscribersOf(OrderTopic("42")))
}
