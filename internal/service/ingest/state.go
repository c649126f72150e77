package ingest

import (
	"sync"
	"time"

	"github.com/scafhq/attendance-engine/internal/domain/punch"
)

const (
	feedLimit      = 50
	dedupRetention = 24 * time.Hour
)

// EngineState holds the in-memory caches mutated by the engine loop:
// the process-lifetime dedup set, the per-worker debounce clock, the
// bounded live feed, the presence map and the worker name cache. The
// loop is the only writer; HTTP readers get snapshot copies under the
// same lock.
type EngineState struct {
	mu       sync.Mutex
	dedup    map[string]time.Time
	lastSeen map[string]time.Time
	feed     []punch.FeedEntry
	presence map[string]string
	names    map[string]string
}

func NewEngineState() *EngineState {
	return &EngineState{
		dedup:    make(map[string]time.Time),
		lastSeen: make(map[string]time.Time),
		presence: make(map[string]string),
		names:    make(map[string]string),
	}
}

// SetNames primes the worker name cache with a bare-id -> name map.
func (s *EngineState) SetNames(names map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, name := range names {
		s.names[id] = name
	}
}

// evictDedup drops dedup keys older than the retention window. Called
// with the lock held.
func (s *EngineState) evictDedup(now time.Time) {
	for key, seenAt := range s.dedup {
		if now.Sub(seenAt) > dedupRetention {
			delete(s.dedup, key)
		}
	}
}

// pushFeed prepends an entry, keeping the feed bounded. Called with
// the lock held.
func (s *EngineState) pushFeed(entry punch.FeedEntry) {
	s.feed = append([]punch.FeedEntry{entry}, s.feed...)
	if len(s.feed) > feedLimit {
		s.feed = s.feed[:feedLimit]
	}
}

// FeedSnapshot returns a copy of the live feed, most recent first.
func (s *EngineState) FeedSnapshot() []punch.FeedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]punch.FeedEntry, len(s.feed))
	copy(out, s.feed)
	return out
}

// PresenceSnapshot returns a copy of the workerID -> area map.
func (s *EngineState) PresenceSnapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.presence))
	for id, area := range s.presence {
		out[id] = area
	}
	return out
}
