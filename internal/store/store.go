package store

import (
	"sync"

	"github.com/plotcast/plotcast/plot"
)

// subscriberBuffer is the per-subscriber channel capacity. A viewer whose
// transport cannot drain this many pending artifacts is dropped from the
// fan-out rather than allowed to block publishers.
const subscriberBuffer = 64

// Store holds the bounded artifact history and fans published artifacts out
// to live subscribers.
//
// All operations are safe for concurrent use. Pushes, subscriptions, and
// close are serialized under one exclusive lock; snapshots take shared
// access. Notification happens inside the push critical section, so a
// subscriber created by [Store.SnapshotAndSubscribe] never misses an
// artifact pushed after its snapshot and never sees a snapshot artifact
// twice.
//
// Fan-out is non-blocking: a subscriber whose buffer is full is removed and
// its channel closed. The closed channel is the lag signal to the owning
// session. Publish latency is therefore independent of subscriber count and
// speed beyond the O(subscribers) notify loop itself.
type Store struct {
	mu      sync.RWMutex
	history []plot.Artifact
	limit   int
	subs    map[chan plot.Artifact]struct{}
	closed  bool
}

// New creates a Store that retains at most limit artifacts, evicting the
// oldest first. Limit must be positive.
func New(limit int) *Store {
	return &Store{
		limit: limit,
		subs:  make(map[chan plot.Artifact]struct{}),
	}
}

// Push appends an artifact to history, evicting the oldest entries if the
// configured limit is exceeded, and notifies every current subscriber.
//
// Pushing with zero subscribers stores the artifact and nothing else.
// Push reports whether the artifact was admitted; it returns false only
// after [Store.Close].
func (s *Store) Push(a plot.Artifact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.history = append(s.history, a)
	if overflow := len(s.history) - s.limit; overflow > 0 {
		s.history = append(s.history[:0:0], s.history[overflow:]...)
	}

	for ch := range s.subs {
		select {
		case ch <- a:
		default:
			// subscriber lagged: drop it rather than block the publisher
			delete(s.subs, ch)
			close(ch)
		}
	}
	return true
}

// Snapshot returns a copy of the current history in push order.
func (s *Store) Snapshot() []plot.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]plot.Artifact(nil), s.history...)
}

// Len returns the number of artifacts currently retained.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// Subscribe registers a new live subscription and returns its channel.
//
// The channel receives every artifact pushed after the subscription exists.
// It is closed when the subscriber lags, is unsubscribed, or the store is
// closed. Callers must call [Store.Unsubscribe] when done.
func (s *Store) Subscribe() <-chan plot.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribeLocked()
}

// SnapshotAndSubscribe atomically takes a history snapshot and creates a
// live subscription. No push can land between the two, so replaying the
// snapshot and then draining the channel yields every artifact exactly once,
// in push order.
func (s *Store) SnapshotAndSubscribe() ([]plot.Artifact, <-chan plot.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := append([]plot.Artifact(nil), s.history...)
	return snapshot, s.subscribeLocked()
}

func (s *Store) subscribeLocked() chan plot.Artifact {
	ch := make(chan plot.Artifact, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch
	}
	s.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// with a channel that was already dropped or closed.
func (s *Store) Unsubscribe(ch <-chan plot.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subs {
		if sub == ch {
			delete(s.subs, sub)
			close(sub)
			break
		}
	}
}

// Close drops every subscriber and closes their channels. Used at server
// shutdown so streaming sessions unwind. Subsequent pushes are ignored and
// subsequent subscriptions receive an already-closed channel.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}
