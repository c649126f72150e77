package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scafhq/attendance-engine/internal/domain/punch"
	"github.com/scafhq/attendance-engine/internal/domain/roster"
	"github.com/scafhq/attendance-engine/internal/pkg/metrics"
	"github.com/scafhq/attendance-engine/internal/pkg/nationalid"
)

const timestampLayout = "2006-01-02 15:04:05"

type service struct {
	buffer   punch.BufferRepository
	state    *EngineState
	metrics  *metrics.Metrics
	logger   *slog.Logger
	debounce time.Duration
	now      func() time.Time
}

func NewIngestService(
	buffer punch.BufferRepository,
	state *EngineState,
	m *metrics.Metrics,
	logger *slog.Logger,
	debounce time.Duration,
) punch.IngestService {
	return &service{
		buffer:   buffer,
		state:    state,
		metrics:  m,
		logger:   logger,
		debounce: debounce,
		now:      time.Now,
	}
}

// PrimeNameCache loads the roster's display names into the engine
// state so feed entries can name workers the terminal left anonymous.
func PrimeNameCache(ctx context.Context, state *EngineState, repo roster.RosterRepository, logger *slog.Logger) {
	names, err := repo.ListWorkerNames(ctx)
	if err != nil {
		logger.Warn("failed to prime worker name cache", slog.Any("error", err))
		return
	}
	state.SetNames(names)
}

// ProcessBatch implements punch.IngestService.
func (s *service) ProcessBatch(ctx context.Context, events []punch.RawEvent, source punch.TerminalSource) (int, error) {
	buffered := 0

	for _, raw := range events {
		event, ok := s.normalize(raw, source)
		if !ok {
			s.metrics.IncIngested("rejected")
			continue
		}

		if !s.admit(event) {
			continue
		}

		inserted, err := s.buffer.Enqueue(ctx, event)
		if err != nil {
			return buffered, fmt.Errorf("failed to enqueue punch event: %w", err)
		}
		if !inserted {
			s.metrics.IncIngested("duplicate")
			continue
		}

		s.metrics.IncIngested("buffered")
		buffered++
	}

	return buffered, nil
}

// normalize validates the raw id and timestamp. Malformed ids are
// carried through in stripped form rather than dropped, so they still
// reach the ledger as an auditable anomaly.
func (s *service) normalize(raw punch.RawEvent, source punch.TerminalSource) (punch.PunchEvent, bool) {
	if raw.UserID == "" || raw.UserID == "0" {
		return punch.PunchEvent{}, false
	}

	ts, err := time.Parse(timestampLayout, raw.Timestamp)
	if err != nil {
		s.logger.Warn("dropping event with unparseable timestamp",
			slog.String("worker_id", raw.UserID),
			slog.String("timestamp", raw.Timestamp))
		return punch.PunchEvent{}, false
	}

	workerID := nationalid.Strip(raw.UserID)
	if ok, canonical := nationalid.Validate(raw.UserID); ok {
		workerID = canonical
	}

	return punch.PunchEvent{
		WorkerID:   workerID,
		Name:       raw.Name,
		Timestamp:  ts,
		Area:       source.Area(),
		DeviceName: source.Name(),
	}, true
}

// admit applies the in-process dedup set and the debounce window, and
// on acceptance records the event in the live feed and presence map.
func (s *service) admit(event punch.PunchEvent) bool {
	now := s.now()
	tsStr := event.Timestamp.Format(timestampLayout)
	key := event.WorkerID + "_" + tsStr

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.state.evictDedup(now)

	if _, seen := s.state.dedup[key]; seen {
		s.metrics.IncIngested("duplicate")
		return false
	}

	// Only forward gaps are debounced. An earlier timestamp is
	// out-of-order delivery, not a rebound, and still goes through.
	if last, ok := s.state.lastSeen[event.WorkerID]; ok {
		if gap := event.Timestamp.Sub(last); gap >= 0 && gap < s.debounce {
			s.state.dedup[key] = now
			s.metrics.IncIngested("debounced")
			return false
		}
	}

	s.state.dedup[key] = now
	s.state.lastSeen[event.WorkerID] = event.Timestamp

	name := event.Name
	if name == "" {
		if cached, ok := s.state.names[nationalid.Strip(event.WorkerID)]; ok {
			name = cached
		} else {
			name = event.WorkerID
		}
	}

	s.state.pushFeed(punch.FeedEntry{
		EventID: key,
		Time:    event.Timestamp.Format("15:04:05"),
		Name:    name,
		Area:    event.Area,
		Device:  event.DeviceName,
		Status:  "OK",
	})
	s.state.presence[event.WorkerID] = event.Area

	return true
}

// LiveFeed implements punch.IngestService.
func (s *service) LiveFeed() []punch.FeedEntry {
	return s.state.FeedSnapshot()
}

// Presence implements punch.IngestService.
func (s *service) Presence() map[string]string {
	return s.state.PresenceSnapshot()
}
