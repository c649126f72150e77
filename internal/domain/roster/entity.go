package roster

import (
	"time"
)

var dayNames = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miercoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sabado",
	time.Sunday:    "Domingo",
}

// DayName returns the roster's Spanish name for the weekday of date.
func DayName(date time.Time) string {
	return dayNames[date.Weekday()]
}

// ShiftSchedule is a worker's programmed shift for a validity range.
// Owned by the external HR roster system; read-only here.
type ShiftSchedule struct {
	WorkerID   string
	WorkerName string
	Email      string
	DayName    string

	// Scheduled instants on the queried date. A continuous shift (no
	// midday break) leaves ExitAM and EntryPM nil.
	EntryAM *time.Time
	ExitAM  *time.Time
	EntryPM *time.Time
	ExitPM  *time.Time

	// DayOff marks the roster's rest-day/open marker rather than a
	// real shift. Derived once by Normalize, never re-inferred.
	DayOff bool
}

// Normalize derives the day-off flag from the roster's marker
// convention: EntryAM at 00:00 with ExitPM at 00:00 or 23:59 means
// the day carries no real shift. Must be called after scanning.
func (s *ShiftSchedule) Normalize() {
	if s.EntryAM == nil || s.ExitPM == nil {
		return
	}
	if s.EntryAM.Hour() != 0 || s.EntryAM.Minute() != 0 {
		return
	}
	outH, outM := s.ExitPM.Hour(), s.ExitPM.Minute()
	if (outH == 0 && outM == 0) || (outH == 23 && outM == 59) {
		s.DayOff = true
	}
}

// Continuous reports whether the shift has no midday break.
func (s *ShiftSchedule) Continuous() bool {
	return s.ExitAM == nil && s.EntryPM == nil
}
