package client

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultReconnectDelay is the fixed wait between connection attempts.
const DefaultReconnectDelay = 3 * time.Second

// WSClient manages the WebSocket connection to the dashboard backend.
type WSClient struct {
	url            string
	reconnectDelay time.Duration
	log            *zap.Logger

	// afterFunc registers the shutdown hook for each connection.
	afterFunc func(context.Context, func()) func() bool

	mu   sync.Mutex
	conn *websocket.Conn
	stop func() bool // unregisters the hook for conn
}

// NewWSClient creates a client that connects to the given WebSocket URL.
// A non-positive reconnectDelay selects DefaultReconnectDelay.
func NewWSClient(url string, reconnectDelay time.Duration, log *zap.Logger) *WSClient {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WSClient{
		url:            url,
		reconnectDelay: reconnectDelay,
		log:            log,
		afterFunc:      context.AfterFunc,
	}
}

// --- Bubble Tea messages ---

// WSConnectedMsg is sent when the WebSocket connects.
type WSConnectedMsg struct{}

// WSDisconnectedMsg is sent when the connection drops.
type WSDisconnectedMsg struct{ Err error }

// WSEventMsg delivers one decoded event.
type WSEventMsg struct{ Event Event }

// WSDecodeErrorMsg reports a frame that could not be decoded. The
// connection stays open.
type WSDecodeErrorMsg struct{ Err error }

// ReconnectDelay returns the fixed delay used between attempts.
func (c *WSClient) ReconnectDelay() time.Duration {
	return c.reconnectDelay
}

// Listen returns a Bubble Tea command that waits delay, then connects. It
// keeps retrying at the fixed reconnect delay until a dial succeeds or ctx
// is cancelled.
func (c *WSClient) Listen(ctx context.Context, delay time.Duration) tea.Cmd {
	return func() tea.Msg {
		if !sleepCtx(ctx, delay) {
			return nil
		}
		for {
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				c.log.Warn("ws dial failed",
					zap.String("url", c.url),
					zap.Duration("retry_in", c.reconnectDelay),
					zap.Error(err))
				if !sleepCtx(ctx, c.reconnectDelay) {
					return nil
				}
				continue
			}

			c.mu.Lock()
			if old := c.releaseLocked(); old != nil {
				old.Close()
			}
			c.conn = conn
			// Unblock a pending ReadMessage when the program shuts down.
			c.stop = c.afterFunc(ctx, func() { conn.Close() })
			c.mu.Unlock()

			c.log.Info("ws connected", zap.String("url", c.url))
			return WSConnectedMsg{}
		}
	}
}

// ReadLoop returns a Bubble Tea command that reads the next event from the
// connection. It should be started after WSConnectedMsg and re-issued after
// every message it produces.
func (c *WSClient) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return WSDisconnectedMsg{Err: errors.New("no connection")}
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.releaseLocked()
			}
			c.mu.Unlock()
			conn.Close()
			if ctx.Err() != nil {
				return nil
			}
			c.log.Info("ws disconnected", zap.Error(err))
			return WSDisconnectedMsg{Err: err}
		}

		ev, err := Decode(data)
		if err != nil {
			c.log.Warn("dropping undecodable message",
				zap.Int("bytes", len(data)),
				zap.Error(err))
			return WSDecodeErrorMsg{Err: err}
		}
		return WSEventMsg{Event: ev}
	}
}

// Connected reports whether a connection is currently held.
func (c *WSClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close drops the current connection. Callers stop reconnection by
// cancelling the context passed to Listen.
func (c *WSClient) Close() error {
	c.mu.Lock()
	conn := c.releaseLocked()
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// releaseLocked detaches the current connection and its shutdown hook and
// returns the connection for the caller to close. Callers hold c.mu.
func (c *WSClient) releaseLocked() *websocket.Conn {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	conn := c.conn
	c.conn = nil
	return conn
}

// sleepCtx waits for d or until ctx is done. It reports whether the wait
// completed without cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
