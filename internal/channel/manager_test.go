package channel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"newspulse/internal/feed"
)

// fakeConn feeds scripted frames to the read loop and then fails with
// errClosed, simulating the server closing the connection. With hold set the
// connection idles after its frames instead of closing.
type fakeConn struct {
	frames [][]byte
	hold   bool

	mu     sync.Mutex
	idx    int
	closed chan struct{}
	once   sync.Once
}

var errClosed = errors.New("connection closed")

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	if c.closed == nil {
		c.closed = make(chan struct{})
	}
	if c.idx < len(c.frames) {
		f := c.frames[c.idx]
		c.idx++
		c.mu.Unlock()
		return 1, f, nil
	}
	done := c.closed
	hold := c.hold
	c.mu.Unlock()

	if hold {
		<-done
	}
	return 0, nil, errClosed
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	if c.closed == nil {
		c.closed = make(chan struct{})
	}
	c.mu.Unlock()
	c.once.Do(func() { close(c.closed) })
	return nil
}

// fakeDialer hands out one scripted connection per dial and records when each
// dial happened.
type fakeDialer struct {
	mu        sync.Mutex
	conns     []*fakeConn
	dialTimes []time.Time
	dialErr   error
}

func (d *fakeDialer) DialContext(_ context.Context, _ string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialTimes = append(d.dialTimes, time.Now())
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	if len(d.conns) == 0 {
		// No more scripted connections: park the cycle on an idle one.
		return &fakeConn{hold: true}, nil
	}
	c := d.conns[0]
	d.conns = d.conns[1:]
	return c, nil
}

func (d *fakeDialer) dials() []time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]time.Time, len(d.dialTimes))
	copy(out, d.dialTimes)
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(d Dialer, delay time.Duration, onItem func(feed.Item)) *Manager {
	m := NewManager("ws://test/ws", onItem, testLogger())
	m.dialer = d
	m.delay = delay
	return m
}

func collectItems() (func(feed.Item), func() []feed.Item) {
	var mu sync.Mutex
	var items []feed.Item
	push := func(it feed.Item) {
		mu.Lock()
		items = append(items, it)
		mu.Unlock()
	}
	snapshot := func() []feed.Item {
		mu.Lock()
		defer mu.Unlock()
		out := make([]feed.Item, len(items))
		copy(out, items)
		return out
	}
	return push, snapshot
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestItemsDeliveredInReceiptOrder(t *testing.T) {
	dialer := &fakeDialer{conns: []*fakeConn{{frames: [][]byte{
		[]byte(`{"title":"first","sentiment_score":0.1}`),
		[]byte(`{"title":"second","sentiment_score":0.2}`),
		[]byte(`{"title":"third","sentiment_score":0.3}`),
	}}}}

	push, snapshot := collectItems()
	m := newTestManager(dialer, time.Hour, push)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	waitFor(t, time.Second, func() bool { return len(snapshot()) == 3 })
	items := snapshot()
	for i, want := range []string{"first", "second", "third"} {
		if items[i].Title != want {
			t.Errorf("items[%d].Title = %q, want %q", i, items[i].Title, want)
		}
	}
}

func TestMalformedFrameDroppedNotFatal(t *testing.T) {
	dialer := &fakeDialer{conns: []*fakeConn{{frames: [][]byte{
		[]byte(`{"title":"good"}`),
		[]byte(`{broken json`),
		[]byte(`{"title":"still alive"}`),
	}}}}

	push, snapshot := collectItems()
	m := newTestManager(dialer, time.Hour, push)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	waitFor(t, time.Second, func() bool { return len(snapshot()) == 2 })
	if m.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", m.Dropped())
	}
	items := snapshot()
	if items[1].Title != "still alive" {
		t.Errorf("frame after the malformed one was not processed: %+v", items)
	}
}

func TestReconnectWaitsFixedDelay(t *testing.T) {
	const delay = 60 * time.Millisecond
	dialer := &fakeDialer{conns: []*fakeConn{
		{frames: [][]byte{[]byte(`{"title":"a"}`)}}, // closes after one frame
		{hold: true},                                // second connection idles
	}}

	push, snapshot := collectItems()
	m := newTestManager(dialer, delay, push)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	waitFor(t, time.Second, func() bool { return len(dialer.dials()) >= 2 })
	dials := dialer.dials()
	gap := dials[1].Sub(dials[0])
	if gap < delay {
		t.Errorf("reconnect after %v, must not occur before the %v delay", gap, delay)
	}
	if gap > delay+500*time.Millisecond {
		t.Errorf("reconnect after %v, want within a bounded time past %v", gap, delay)
	}
	if len(snapshot()) != 1 {
		t.Errorf("got %d items, want 1 from the first connection", len(snapshot()))
	}
}

func TestReconnectRepeatsIndefinitely(t *testing.T) {
	dialer := &fakeDialer{conns: []*fakeConn{
		{frames: [][]byte{[]byte(`{"title":"a"}`)}},
		{frames: [][]byte{[]byte(`{"title":"b"}`)}},
		{frames: [][]byte{[]byte(`{"title":"c"}`)}},
		{hold: true},
	}}

	push, snapshot := collectItems()
	m := newTestManager(dialer, time.Millisecond, push)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	// Every closure triggers another attempt; three connections drain.
	waitFor(t, time.Second, func() bool { return len(snapshot()) == 3 })
	waitFor(t, time.Second, func() bool { return len(dialer.dials()) >= 4 })
}

func TestDialFailureRetries(t *testing.T) {
	dialer := &fakeDialer{dialErr: errors.New("connection refused")}

	m := newTestManager(dialer, time.Millisecond, func(feed.Item) {})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	waitFor(t, time.Second, func() bool { return len(dialer.dials()) >= 3 })
	if st := m.State(); st == StateConnected {
		t.Errorf("state = %v after persistent dial failures", st)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dialer := &fakeDialer{conns: []*fakeConn{{hold: true}}}
	m := newTestManager(dialer, time.Hour, func(feed.Item) {})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(ctx) }()

	waitFor(t, time.Second, func() bool { return m.State() == StateConnected })
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestStateString(t *testing.T) {
	if StateConnecting.String() != "connecting" ||
		StateConnected.String() != "connected" ||
		StateDisconnected.String() != "disconnected" {
		t.Error("State.String() labels are wrong")
	}
}
