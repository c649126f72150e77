package roster

import (
	"context"
	"time"
)

// RosterRepository queries the external HR roster store. Upstream
// rosters are inconsistent about id formatting, so implementations
// must try both the hyphenated and the bare form of the worker id.
type RosterRepository interface {
	// GetShift returns the schedule whose validity range covers date,
	// or (nil, nil) when the worker has no programmed shift that day.
	GetShift(ctx context.Context, workerID string, date time.Time) (*ShiftSchedule, error)

	// GetWorkerEmail returns the worker's notification address, or ""
	// when the roster has none.
	GetWorkerEmail(ctx context.Context, workerID string) (string, error)

	// ListWorkerNames returns the bare-id -> display-name map used to
	// prime the in-memory name cache at startup.
	ListWorkerNames(ctx context.Context) (map[string]string, error)
}
