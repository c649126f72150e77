package roster

import "errors"

// Roster domain errors
var (
	ErrNoShiftFound  = errors.New("no programmed shift covers the requested date")
	ErrWorkerUnknown = errors.New("worker not present in the roster")
)
