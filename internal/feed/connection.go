// internal/feed/connection.go
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/pump-sniper/internal/logger"
)

const (
	DefaultReconnectStep = time.Second
	handshakeTimeout     = 10 * time.Second
)

// ErrNotConnected is returned by Subscribe when no connection is open.
var ErrNotConnected = errors.New("feed is not connected")

// SubscribeRequest is sent right after every successful open.
type SubscribeRequest struct {
	Method string `json:"method"`
}

var subscribeNewToken = SubscribeRequest{Method: "subscribeNewToken"}

// Conn is the part of *websocket.Conn the feed uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

// Dialer opens feed connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

type wsDialer struct {
	dialer *websocket.Dialer
}

// NewWebsocketDialer returns a Dialer backed by gorilla/websocket.
func NewWebsocketDialer() Dialer {
	return wsDialer{dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout}}
}

func (d wsDialer) Dial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := d.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	return conn, nil
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Connection.
type Options struct {
	MaxReconnectAttempts int
	ReconnectStep        time.Duration
	Dialer               Dialer
	Clock                clock.Clock
	// Sleep overrides the wait between reconnects.
	Sleep SleepFunc
}

// Connection keeps a subscription to the token-creation stream alive.
// The reconnect counter is touched only by the goroutine running Run.
type Connection struct {
	url    string
	dialer Dialer
	policy *LinearBackOff
	sleep  SleepFunc
	events logger.EventLog
	logger *zap.Logger

	state atomic.Int32

	mu   sync.Mutex
	conn Conn
}

func NewConnection(url string, opts Options, events logger.EventLog, log *zap.Logger) *Connection {
	if opts.ReconnectStep <= 0 {
		opts.ReconnectStep = DefaultReconnectStep
	}
	if opts.Dialer == nil {
		opts.Dialer = NewWebsocketDialer()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Sleep == nil {
		opts.Sleep = clockSleep(opts.Clock)
	}

	return &Connection{
		url:    url,
		dialer: opts.Dialer,
		policy: NewLinearBackOff(opts.ReconnectStep, opts.MaxReconnectAttempts),
		sleep:  opts.Sleep,
		events: events,
		logger: log.Named("feed"),
	}
}

func clockSleep(clk clock.Clock) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		timer := clk.Timer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// State returns the current connection state.
func (c *Connection) State() State {
	return State(c.state.Load())
}

func (c *Connection) setState(s State) {
	prev := State(c.state.Swap(int32(s)))
	if prev != s {
		c.events.Log(logger.CategoryInfo, fmt.Sprintf("Feed state: %s -> %s", prev, s),
			zap.Stringer("from", prev),
			zap.Stringer("to", s))
	}
}

// Run connects, subscribes and forwards every inbound frame to out in arrival
// order. It returns nil when ctx is done or after giving up on reconnecting.
func (c *Connection) Run(ctx context.Context, out chan<- []byte) error {
	c.policy.Reset()

	for {
		c.setState(Connecting)

		conn, err := c.dialer.Dial(ctx, c.url)
		if err == nil {
			err = c.serve(ctx, conn, out)
		}
		if ctx.Err() != nil {
			c.setState(Disconnected)
			return nil
		}
		if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.events.Log(logger.CategoryError, fmt.Sprintf("WebSocket error: %v", err))
		}

		c.setState(Reconnecting)
		delay := c.policy.NextBackOff()
		if delay == backoff.Stop {
			c.setState(GivenUp)
			c.events.Log(logger.CategoryFatal, "Max reconnection attempts reached. Giving up.",
				zap.Int("max_attempts", c.policy.MaxAttempts))
			return nil
		}

		c.events.Log(logger.CategoryError, "WebSocket connection closed. Reconnecting...",
			zap.Int("attempt", c.policy.Attempts()),
			zap.Duration("delay", delay))

		if err := c.sleep(ctx, delay); err != nil {
			c.setState(Disconnected)
			return nil
		}
	}
}

// serve owns conn until it fails or ctx is done.
func (c *Connection) serve(ctx context.Context, conn Conn, out chan<- []byte) error {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	c.events.Log(logger.CategoryInfo, "Connection opened.")
	if err := c.Subscribe(); err != nil {
		return err
	}
	c.policy.Reset()
	c.setState(Subscribed)

	// ReadMessage не принимает контекст: закрываем соединение при отмене.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Subscribe sends the subscription request on the current connection.
func (c *Connection) Subscribe() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.WriteJSON(subscribeNewToken); err != nil {
		return fmt.Errorf("failed to send subscription: %w", err)
	}
	c.events.Log(logger.CategoryInfo, fmt.Sprintf("Subscription message: {\"method\":%q}", subscribeNewToken.Method))
	return nil
}
