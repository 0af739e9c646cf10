// Package channel owns the live-push WebSocket connection: one connection at
// a time, a fixed-delay reconnect cycle, and a read loop that survives
// malformed frames.
package channel

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"newspulse/internal/feed"
)

// State is the connection machine state. The machine cycles
// Connecting → Connected → Disconnected → Connecting forever; there is no
// terminal state short of the session ending.
type State int32

const (
	StateConnecting State = iota
	StateConnected
	StateDisconnected
)

// String implements fmt.Stringer for status display.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ReconnectDelay is the fixed wait between a closure and the next attempt.
// No backoff, no jitter, no attempt cap.
const ReconnectDelay = 3000 * time.Millisecond

// Conn is the subset of a WebSocket connection the read loop needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer establishes one connection to the live channel endpoint.
type Dialer interface {
	DialContext(ctx context.Context, url string) (Conn, error)
}

// wsDialer adapts gorilla's dialer to the Dialer interface.
type wsDialer struct{}

func (wsDialer) DialContext(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Manager runs the live-push connection for a session. Decoded items are
// handed to the push callback in receipt order; malformed frames are logged,
// counted, and dropped so the loop never dies on bad input.
type Manager struct {
	url    string
	onItem func(feed.Item)
	log    *slog.Logger

	dialer Dialer
	delay  time.Duration

	state   atomic.Int32
	dropped atomic.Int64
}

// NewManager creates a manager for the given ws:// or wss:// endpoint.
// onItem is invoked from the read goroutine for every well-formed frame.
func NewManager(url string, onItem func(feed.Item), log *slog.Logger) *Manager {
	return &Manager{
		url:    url,
		onItem: onItem,
		log:    log,
		dialer: wsDialer{},
		delay:  ReconnectDelay,
	}
}

// Run drives the connect/read/reconnect cycle until ctx is cancelled. It
// never returns for any other reason: dial failures and closed connections
// alike lead back to a fixed-delay reconnect.
func (m *Manager) Run(ctx context.Context) error {
	for {
		m.setState(StateConnecting)
		conn, err := m.dialer.DialContext(ctx, m.url)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.log.Warn("live channel dial failed", "url", m.url, "error", err)
			m.setState(StateDisconnected)
			if !m.waitReconnect(ctx) {
				return ctx.Err()
			}
			continue
		}

		m.setState(StateConnected)
		m.log.Info("live channel connected", "url", m.url)

		m.readLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.log.Warn("live channel closed, reconnecting", "delay", m.delay)
		m.setState(StateDisconnected)
		if !m.waitReconnect(ctx) {
			return ctx.Err()
		}
	}
}

// readLoop consumes frames until the connection errors out. Within one
// connection's lifetime frames are processed strictly in receipt order.
func (m *Manager) readLoop(ctx context.Context, conn Conn) {
	// ReadMessage has no context; closing the connection unblocks it when
	// the session is torn down.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var item feed.Item
		if err := json.Unmarshal(data, &item); err != nil {
			m.dropped.Add(1)
			m.log.Warn("dropping malformed push frame", "error", err)
			continue
		}
		m.onItem(item)
	}
}

// waitReconnect sleeps for the fixed delay. Returns false if ctx was
// cancelled first, so teardown is not stalled by a pending attempt.
func (m *Manager) waitReconnect(ctx context.Context) bool {
	select {
	case <-time.After(m.delay):
		return true
	case <-ctx.Done():
		return false
	}
}

// State returns the current machine state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Dropped returns how many malformed frames were discarded this session.
// The count is the dashboard's degraded-state indicator for a misbehaving
// feed: frames are never surfaced individually, only tallied.
func (m *Manager) Dropped() int64 {
	return m.dropped.Load()
}

func (m *Manager) setState(s State) {
	m.state.Store(int32(s))
}
