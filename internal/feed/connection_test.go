package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/pump-sniper/internal/logger"
)

type entry struct {
	category logger.Category
	msg      string
}

type recordingLog struct {
	mu      sync.Mutex
	entries []entry
}

func (r *recordingLog) Log(category logger.Category, msg string, _ ...zap.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{category, msg})
}

func (r *recordingLog) count(category logger.Category) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.category == category {
			n++
		}
	}
	return n
}

func (r *recordingLog) messages(category logger.Category) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.entries {
		if e.category == category {
			out = append(out, e.msg)
		}
	}
	return out
}

// scriptedDialer returns the queued results in order and then keeps failing.
type scriptedDialer struct {
	mu      sync.Mutex
	results []Conn
	calls   int
}

func (d *scriptedDialer) Dial(context.Context, string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.calls
	d.calls++
	if i < len(d.results) && d.results[i] != nil {
		return d.results[i], nil
	}
	return nil, errors.New("connection refused")
}

// closingConn accepts the subscription, delivers frames, then fails.
type closingConn struct {
	frames  [][]byte
	written []interface{}
}

func (c *closingConn) ReadMessage() (int, []byte, error) {
	if len(c.frames) == 0 {
		return 0, nil, &websocket.CloseError{Code: websocket.CloseAbnormalClosure}
	}
	f := c.frames[0]
	c.frames = c.frames[1:]
	return websocket.TextMessage, f, nil
}

func (c *closingConn) WriteJSON(v interface{}) error {
	c.written = append(c.written, v)
	return nil
}

func (c *closingConn) Close() error { return nil }

type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func TestConnection_GivesUpAfterFiveReconnects(t *testing.T) {
	dialer := &scriptedDialer{}
	sleeps := &sleepRecorder{}
	events := &recordingLog{}

	c := NewConnection("wss://example", Options{
		MaxReconnectAttempts: 5,
		Dialer:               dialer,
		Sleep:                sleeps.sleep,
	}, events, zaptest.NewLogger(t))

	err := c.Run(context.Background(), make(chan []byte))
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second,
	}, sleeps.delays)
	assert.Equal(t, 6, dialer.calls)
	assert.Equal(t, GivenUp, c.State())
	assert.Equal(t, 1, events.count(logger.CategoryFatal))
}

func TestConnection_OpenResetsCounter(t *testing.T) {
	first := &closingConn{frames: [][]byte{[]byte(`{"mint":"a"}`)}}
	dialer := &scriptedDialer{results: []Conn{nil, first}}
	sleeps := &sleepRecorder{}

	c := NewConnection("wss://example", Options{
		MaxReconnectAttempts: 2,
		Dialer:               dialer,
		Sleep:                sleeps.sleep,
	}, &recordingLog{}, zaptest.NewLogger(t))

	out := make(chan []byte, 4)
	require.NoError(t, c.Run(context.Background(), out))

	// fail, 1s, open+close (reset), 1s, fail, 2s, fail, give up
	assert.Equal(t, []time.Duration{time.Second, time.Second, 2 * time.Second}, sleeps.delays)
	assert.Equal(t, []interface{}{subscribeNewToken}, first.written)
	require.Len(t, out, 1)
	assert.JSONEq(t, `{"mint":"a"}`, string(<-out))
}

func TestConnection_StateTransitionsAreLogged(t *testing.T) {
	first := &closingConn{}
	dialer := &scriptedDialer{results: []Conn{first}}
	events := &recordingLog{}

	c := NewConnection("wss://example", Options{
		MaxReconnectAttempts: 1,
		Dialer:               dialer,
		Sleep:                (&sleepRecorder{}).sleep,
	}, events, zap.NewNop())

	require.NoError(t, c.Run(context.Background(), make(chan []byte, 1)))

	var transitions []string
	for _, msg := range events.messages(logger.CategoryInfo) {
		if strings.HasPrefix(msg, "Feed state: ") {
			transitions = append(transitions, strings.TrimPrefix(msg, "Feed state: "))
		}
	}
	assert.Equal(t, []string{
		"disconnected -> connecting",
		"connecting -> subscribed",
		"subscribed -> reconnecting",
		"reconnecting -> connecting",
		"connecting -> reconnecting",
		"reconnecting -> given_up",
	}, transitions)
}

func TestConnection_CancelLogsDisconnect(t *testing.T) {
	events := &recordingLog{}
	c := NewConnection("wss://example", Options{
		MaxReconnectAttempts: 3,
		Dialer:               &scriptedDialer{},
		Sleep: func(context.Context, time.Duration) error {
			return context.Canceled
		},
	}, events, zap.NewNop())

	require.NoError(t, c.Run(context.Background(), make(chan []byte)))

	msgs := events.messages(logger.CategoryInfo)
	require.NotEmpty(t, msgs)
	assert.Equal(t, "Feed state: reconnecting -> disconnected", msgs[len(msgs)-1])
	assert.Equal(t, Disconnected, c.State())
}

func TestConnection_SubscribeWithoutConnection(t *testing.T) {
	c := NewConnection("wss://example", Options{}, &recordingLog{}, zap.NewNop())
	assert.ErrorIs(t, c.Subscribe(), ErrNotConnected)
	assert.Equal(t, Disconnected, c.State())
}

func TestConnection_Websocket(t *testing.T) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	requests := make(chan SubscribeRequest, 4)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var req SubscribeRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		requests <- req

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"message":"Successfully subscribed to token creation events."}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"mint":"7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"}`))

		for {
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			requests <- req
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	events := &recordingLog{}
	c := NewConnection(wsURL, Options{MaxReconnectAttempts: 5}, events, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan []byte, 8)
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, out) }()

	select {
	case req := <-requests:
		assert.Equal(t, "subscribeNewToken", req.Method)
	case <-time.After(5 * time.Second):
		t.Fatal("no subscription received")
	}

	var frames []map[string]string
	for len(frames) < 2 {
		select {
		case raw := <-out:
			var m map[string]string
			require.NoError(t, json.Unmarshal(raw, &m))
			frames = append(frames, m)
		case <-time.After(5 * time.Second):
			t.Fatal("frames not forwarded")
		}
	}
	assert.Equal(t, "Successfully subscribed to token creation events.", frames[0]["message"])
	assert.Equal(t, "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", frames[1]["mint"])
	assert.Equal(t, Subscribed, c.State())

	require.NoError(t, c.Subscribe())
	select {
	case req := <-requests:
		assert.Equal(t, "subscribeNewToken", req.Method)
	case <-time.After(5 * time.Second):
		t.Fatal("resubscription not received")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
	assert.Equal(t, Disconnected, c.State())
	assert.Zero(t, events.count(logger.CategoryFatal))
}

func TestLinearBackOff(t *testing.T) {
	b := NewLinearBackOff(time.Second, 3)
	assert.Equal(t, time.Second, b.NextBackOff())
	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Equal(t, 3*time.Second, b.NextBackOff())
	assert.Equal(t, backoff.Stop, b.NextBackOff())
	assert.Equal(t, 3, b.Attempts())

	b.Reset()
	assert.Equal(t, time.Second, b.NextBackOff())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "subscribed", Subscribed.String())
	assert.Equal(t, "given_up", GivenUp.String())
	assert.Equal(t, "unknown", State(42).String())
}
