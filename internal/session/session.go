// Package session wires the dashboard core together: the item store, the
// trend window, the filter state, the chat log, and the server fetches. One
// Session is one dashboard lifetime; all state lives here, passed by
// reference into every handler, so multiple sessions can coexist and tests
// run in isolation.
package session

import (
	"context"
	"log/slog"
	"sync"

	"newspulse/internal/analytics"
	"newspulse/internal/apiclient"
	"newspulse/internal/channel"
	"newspulse/internal/chat"
	"newspulse/internal/feed"
	"newspulse/internal/filter"
	"newspulse/internal/view"
)

// ActionKind names the user actions the dashboard reacts to.
type ActionKind int

const (
	ActionSearchChanged ActionKind = iota
	ActionCategorySelected
	ActionRefreshRequested
	ActionMessageSubmitted
)

// Action is one user input routed through the dispatch table.
type Action struct {
	Kind  ActionKind
	Value string
}

// API is the server surface the session reads from. Implemented by
// apiclient.Client.
type API interface {
	Articles(ctx context.Context) ([]feed.Item, error)
	Insights(ctx context.Context) (apiclient.Insights, error)
	Stats(ctx context.Context) (apiclient.Stats, error)
}

// Archiver records every item the session sees. Implemented by
// archive.Archive; nil disables recording.
type Archiver interface {
	Append(ctx context.Context, item feed.Item) error
}

// ChannelStatus exposes the live connection's state for the status line.
type ChannelStatus interface {
	State() channel.State
	Dropped() int64
}

// Snapshot is everything a renderer needs for one paint. It is plain data:
// the session makes no assumption about what consumes it.
type Snapshot struct {
	Items          []feed.Item // visible items, store order preserved
	TotalItems     int         // store size before filtering
	ActiveCategory string
	Query          string

	TrendScores  []float64
	Categories   []analytics.CategoryStat
	OverallLabel feed.Label
	HasOverall   bool

	Insights apiclient.Insights
	Stats    apiclient.Stats

	Messages []chat.Message

	Channel       channel.State
	DroppedFrames int64
}

// Session is the state root for one dashboard run.
type Session struct {
	store *feed.Store
	chat  *chat.Session
	api   API
	log   *slog.Logger

	mu             sync.RWMutex
	window         *analytics.TrendWindow
	activeCategory string
	query          string
	insights       apiclient.Insights
	stats          apiclient.Stats

	archiver Archiver
	status   ChannelStatus

	updates chan struct{}
	subID   int
}

// New creates a session. poster backs the chat log; archiver may be nil.
func New(api API, poster chat.Poster, archiver Archiver, log *slog.Logger) *Session {
	s := &Session{
		store:          feed.NewStore(),
		chat:           chat.NewSession(poster, log),
		api:            api,
		log:            log,
		window:         analytics.NewTrendWindow(),
		activeCategory: filter.CategoryAll,
		archiver:       archiver,
		updates:        make(chan struct{}, 1),
	}

	// Forward store events into the single update channel so renderers get
	// one repaint trigger regardless of what changed.
	id, events := s.store.Subscribe(16)
	s.subID = id
	go func() {
		for range events {
			s.touch()
		}
	}()

	return s
}

// AttachChannel lets the snapshot report the live connection's state.
func (s *Session) AttachChannel(status ChannelStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Updates signals that the snapshot changed. The channel has capacity one
// and sends are non-blocking: a slow renderer misses ticks, not data, since
// every paint reads a full Snapshot.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// Load runs the bulk fetch and refreshes insights and stats. Each fetch
// failure is logged and otherwise swallowed; the dashboard keeps whatever it
// had. A successful article fetch replaces the store wholesale and reseeds
// the trend window, which is also what discards any push that raced the
// fetch (see feed.Store).
func (s *Session) Load(ctx context.Context) {
	items, err := s.api.Articles(ctx)
	if err != nil {
		s.log.Warn("bulk load failed", "error", err)
	} else {
		s.mu.Lock()
		s.window.Seed(items)
		s.mu.Unlock()
		s.store.LoadAll(items)
	}

	if ins, err := s.api.Insights(ctx); err != nil {
		s.log.Warn("insights fetch failed", "error", err)
	} else {
		s.mu.Lock()
		s.insights = ins
		s.mu.Unlock()
		s.touch()
	}

	if st, err := s.api.Stats(ctx); err != nil {
		s.log.Warn("stats fetch failed", "error", err)
	} else {
		s.mu.Lock()
		s.stats = st
		s.mu.Unlock()
		s.touch()
	}
}

// HandlePush takes one live item: prepend to the store, extend the trend
// window, and append to the archive when one is configured. Archive errors
// are logged only; the feed must keep flowing.
func (s *Session) HandlePush(item feed.Item) {
	s.mu.Lock()
	s.window.Push(item.Sentiment)
	archiver := s.archiver
	s.mu.Unlock()

	s.store.PushOne(item)

	if archiver != nil {
		if err := archiver.Append(context.Background(), item); err != nil {
			s.log.Warn("archiving item failed", "error", err)
		}
	}
}

// Dispatch routes one named user action to the core operation behind it.
func (s *Session) Dispatch(ctx context.Context, a Action) {
	switch a.Kind {
	case ActionSearchChanged:
		s.mu.Lock()
		s.query = a.Value
		s.mu.Unlock()
		s.touch()
	case ActionCategorySelected:
		cat := a.Value
		if cat == "" {
			cat = filter.CategoryAll
		}
		s.mu.Lock()
		s.activeCategory = cat
		s.mu.Unlock()
		s.touch()
	case ActionRefreshRequested:
		s.Load(ctx)
	case ActionMessageSubmitted:
		s.chat.Send(ctx, a.Value)
		s.touch()
	default:
		s.log.Warn("unknown action", "kind", int(a.Kind))
	}
}

// Snapshot assembles the current render state. Derived analytics are
// computed fresh from the full store on every call.
func (s *Session) Snapshot() Snapshot {
	all := s.store.All()

	s.mu.RLock()
	snap := Snapshot{
		TotalItems:     len(all),
		ActiveCategory: s.activeCategory,
		Query:          s.query,
		TrendScores:    s.window.Scores(),
		Insights:       s.insights,
		Stats:          s.stats,
	}
	status := s.status
	s.mu.RUnlock()

	snap.Items = view.Project(all, snap.ActiveCategory, snap.Query)
	snap.Categories = analytics.CategoryAggregate(all)
	snap.OverallLabel, snap.HasOverall = analytics.OverallLabel(all)
	snap.Messages = s.chat.Messages()

	if status != nil {
		snap.Channel = status.State()
		snap.DroppedFrames = status.Dropped()
	}
	return snap
}

// Close releases the session's store subscription.
func (s *Session) Close() {
	s.store.Unsubscribe(s.subID)
}

func (s *Session) touch() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
