package feed

import "sync"

// EventKind distinguishes the two ways the store changes.
type EventKind int

const (
	// EventLoaded signals that a bulk load replaced the whole sequence.
	EventLoaded EventKind = iota
	// EventPushed signals that a single live item was prepended.
	EventPushed
)

// Event is emitted to subscribers when the store changes. For EventPushed,
// Item carries the item that arrived; for EventLoaded it is zero.
type Event struct {
	Kind EventKind
	Item Item
}

// Store holds the session's items as an ordered sequence, newest first.
// A bulk load replaces the sequence wholesale; live pushes prepend one item
// at a time. The store never evicts and never deduplicates: eviction belongs
// to the trend window, and items carry no identity to deduplicate on.
//
// A bulk load that resolves after live pushes have already landed replaces
// them along with everything else. The discard window is the flight time of
// the initial fetch; merging instead would duplicate any pushed item the
// server also included in the snapshot, since there is no identity to
// reconcile on.
type Store struct {
	mu    sync.RWMutex
	items []Item

	subsMu    sync.Mutex
	nextSubID int
	subs      map[int]chan Event
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan Event)}
}

// LoadAll replaces the sequence with the given items, which the caller
// provides newest first. Subscribers receive a single EventLoaded.
func (s *Store) LoadAll(items []Item) {
	replacement := make([]Item, len(items))
	copy(replacement, items)

	s.mu.Lock()
	s.items = replacement
	s.mu.Unlock()

	s.notify(Event{Kind: EventLoaded})
}

// PushOne prepends a single item, keeping newest-first order.
func (s *Store) PushOne(item Item) {
	s.mu.Lock()
	s.items = append([]Item{item}, s.items...)
	s.mu.Unlock()

	s.notify(Event{Kind: EventPushed, Item: item})
}

// All returns a copy of the current sequence, newest first.
func (s *Store) All() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Subscribe creates a subscription channel for store events.
func (s *Store) Subscribe(bufSize int) (id int, ch <-chan Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id = s.nextSubID
	s.nextSubID++
	c := make(chan Event, bufSize)
	s.subs[id] = c
	return id, c
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(id int) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Store) notify(evt Event) {
	s.subsMu.Lock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			// Slow subscriber, drop event.
		}
	}
	s.subsMu.Unlock()
}
