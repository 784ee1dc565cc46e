package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngoclaithe/scoliv2-sub000/internal/frame"
	"github.com/ngoclaithe/scoliv2-sub000/pkg/types"
)

// fakeRelay greets each connection, records join_room and forwards every
// later frame on frames.
type fakeRelay struct {
	srv    *httptest.Server
	joins  chan types.JoinRoom
	conns  chan *websocket.Conn
	frames chan frame.Frame
}

func newFakeRelay(t *testing.T) *fakeRelay {
	t.Helper()
	r := &fakeRelay{
		joins:  make(chan types.JoinRoom, 8),
		conns:  make(chan *websocket.Conn, 8),
		frames: make(chan frame.Frame, 32),
	}
	r.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := websocket.Accept(w, req, nil)
		if err != nil {
			return
		}
		ctx := req.Context()
		send(ctx, conn, types.EvtConnected, types.Connected{SocketID: "sock-1"})

		_, raw, err := conn.Read(ctx)
		if err != nil {
			return
		}
		f, err := frame.Decode(raw)
		if err != nil || f.Event != types.EvtJoinRoom {
			_ = conn.Close(websocket.StatusPolicyViolation, "expected join_room")
			return
		}
		var join types.JoinRoom
		_ = json.Unmarshal(f.Data, &join)
		r.joins <- join
		r.conns <- conn

		for {
			_, raw, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if f, err := frame.Decode(raw); err == nil {
				r.frames <- f
			}
		}
	}))
	t.Cleanup(r.srv.Close)
	return r
}

func (r *fakeRelay) url() string { return "ws" + strings.TrimPrefix(r.srv.URL, "http") }

func send(ctx context.Context, conn *websocket.Conn, event string, data any) {
	raw, _ := frame.Encode(event, data)
	_ = conn.Write(ctx, websocket.MessageText, raw)
}

func newTestClient(t *testing.T, url string, attempts int) *Client {
	t.Helper()
	c := New(Config{URL: url, ReconnectAttempts: attempts, ReconnectDelay: 10 * time.Millisecond, DialTimeout: time.Second}, nil)
	t.Cleanup(c.Disconnect)
	return c
}

func recv[T any](t *testing.T, ch <-chan T, within time.Duration) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		var zero T
		t.Fatalf("timed out after %v", within)
		return zero
	}
}

func recvNone[T any](t *testing.T, ch <-chan T, within time.Duration) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("expected nothing within %v, got %+v", within, v)
	case <-time.After(within):
	}
}

func TestConnect_SendsJoinRoom(t *testing.T) {
	relay := newFakeRelay(t)
	c := newTestClient(t, relay.url(), 0)

	before := time.Now().UnixMilli()
	sess := c.Connect(context.Background(), "ABC123", types.ClientDisplay)
	assert.True(t, sess.Connected)
	assert.Equal(t, "ABC123", sess.AccessCode)
	assert.True(t, c.IsConnected())

	join := recv(t, relay.joins, time.Second)
	assert.Equal(t, "ABC123", join.AccessCode)
	assert.Equal(t, types.ClientDisplay, join.ClientType)
	assert.Equal(t, types.ViewIntro, join.ViewType)
	assert.GreaterOrEqual(t, join.Timestamp, before)

	require.Eventually(t, func() bool { return c.Session().SocketID == "sock-1" }, time.Second, 5*time.Millisecond)
}

func TestConnect_SamePairIsIdempotent(t *testing.T) {
	relay := newFakeRelay(t)
	c := newTestClient(t, relay.url(), 0)

	c.Connect(context.Background(), "ABC123", types.ClientController)
	recv(t, relay.joins, time.Second)

	c.Connect(context.Background(), "ABC123", types.ClientController)
	recvNone(t, relay.joins, 100*time.Millisecond)
}

func TestConnect_NewCodeReplacesSession(t *testing.T) {
	relay := newFakeRelay(t)
	c := newTestClient(t, relay.url(), 0)

	c.Connect(context.Background(), "ONE111", types.ClientDisplay)
	recv(t, relay.joins, time.Second)

	sess := c.Connect(context.Background(), "TWO222", types.ClientDisplay)
	assert.Equal(t, "TWO222", sess.AccessCode)
	assert.Equal(t, "TWO222", recv(t, relay.joins, time.Second).AccessCode)
}

func TestEmit_StampsEnvelope(t *testing.T) {
	relay := newFakeRelay(t)
	c := newTestClient(t, relay.url(), 0)

	assert.False(t, c.Emit(types.EvtViewUpdate, types.ViewPayload{}), "emit before connect must be dropped")

	c.Connect(context.Background(), "ABC123", types.ClientController)
	recv(t, relay.joins, time.Second)

	view := "scoreboard"
	require.True(t, c.Emit(types.EvtViewUpdate, types.ViewPayload{ViewType: &view}))

	f := recv(t, relay.frames, time.Second)
	assert.Equal(t, types.EvtViewUpdate, f.Event)
	env, err := frame.Envelope(f.Data)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", env.AccessCode)
	assert.NotZero(t, env.Timestamp)
	assert.Contains(t, string(f.Data), `"viewType":"scoreboard"`)
}

func TestDispatch_InOrderToEventAndAnyHandlers(t *testing.T) {
	relay := newFakeRelay(t)
	c := newTestClient(t, relay.url(), 0)

	events := make(chan string, 16)
	c.On(types.EvtScoreUpdated, func(event string, _ json.RawMessage) { events <- "on:" + event })
	c.OnAny(func(event string, _ json.RawMessage) { events <- "any:" + event })

	c.Connect(context.Background(), "ABC123", types.ClientDisplay)
	assert.Equal(t, "any:"+types.EvtConnected, recv(t, events, time.Second))

	conn := recv(t, relay.conns, time.Second)
	send(context.Background(), conn, types.EvtScoreUpdated, map[string]any{"scores": map[string]int{"teamA": 1}})
	send(context.Background(), conn, types.EvtViewUpdated, map[string]any{"viewType": "intro"})

	assert.Equal(t, "on:"+types.EvtScoreUpdated, recv(t, events, time.Second))
	assert.Equal(t, "any:"+types.EvtScoreUpdated, recv(t, events, time.Second))
	assert.Equal(t, "any:"+types.EvtViewUpdated, recv(t, events, time.Second))
}

func TestReconnect_RejoinsWithSamePair(t *testing.T) {
	relay := newFakeRelay(t)
	c := newTestClient(t, relay.url(), 3)

	statuses := make(chan bool, 8)
	c.OnStatus(func(connected bool) { statuses <- connected })
	joined := make(chan Session, 8)
	c.OnJoin(func(s Session) { joined <- s })

	c.Connect(context.Background(), "ABC123", types.ClientDisplay)
	assert.True(t, recv(t, statuses, time.Second))
	recv(t, joined, time.Second)
	recv(t, relay.joins, time.Second)

	conn := recv(t, relay.conns, time.Second)
	require.NoError(t, conn.Close(websocket.StatusGoingAway, "restart"))

	assert.False(t, recv(t, statuses, time.Second))
	assert.True(t, recv(t, statuses, time.Second))

	again := recv(t, relay.joins, time.Second)
	assert.Equal(t, "ABC123", again.AccessCode)
	assert.Equal(t, types.ClientDisplay, again.ClientType)
	assert.Equal(t, "ABC123", recv(t, joined, time.Second).AccessCode)
	assert.True(t, c.IsConnected())
}

func TestConnect_UnreachableNeverErrors(t *testing.T) {
	relay := newFakeRelay(t)
	url := relay.url()
	relay.srv.Close()

	c := newTestClient(t, url, 1)
	sess := c.Connect(context.Background(), "ABC123", types.ClientDisplay)
	assert.False(t, sess.Connected)
	assert.Equal(t, "ABC123", sess.AccessCode)
	assert.False(t, c.Emit(types.EvtScoreUpdate, nil))
}

func TestDisconnect_ClearsSessionAndIsRepeatable(t *testing.T) {
	relay := newFakeRelay(t)
	c := newTestClient(t, relay.url(), 3)

	statuses := make(chan bool, 8)
	c.OnStatus(func(connected bool) { statuses <- connected })

	c.Connect(context.Background(), "ABC123", types.ClientDisplay)
	recv(t, relay.joins, time.Second)
	assert.True(t, recv(t, statuses, time.Second))

	c.Disconnect()
	assert.False(t, recv(t, statuses, time.Second))
	assert.Equal(t, Session{}, c.Session())
	assert.False(t, c.IsConnected())

	c.Disconnect()
	recvNone(t, relay.joins, 100*time.Millisecond)
}
