package classify

import (
	"fmt"
	"time"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
	"github.com/scafhq/attendance-engine/internal/domain/roster"
)

// Classification thresholds. Tolerance and the 4-hour ceiling are part
// of the ledger's business contract; changing them changes the meaning
// of historical detail strings.
const (
	DefaultTolerance = 5 * time.Minute
	DefaultCeiling   = 4 * time.Hour
	DefaultRebound   = 20 * time.Minute

	// On a free day, an entry older than this closes the day on the
	// next punch instead of opening the midday break.
	freeDayCloseAfter = 5 * time.Hour
)

// Result is the classifier's verdict for one punch.
type Result struct {
	Slot     ledger.Slot
	Detail   string
	DayState string
	FreeDay  bool
}

// Classifier assigns a punch to one of the four daily slots given the
// worker's programmed shift and the day's ledger row so far. It is
// pure: no I/O, no clock reads.
type Classifier struct {
	tolerance time.Duration
	ceiling   time.Duration
	rebound   time.Duration
}

func New() *Classifier {
	return &Classifier{
		tolerance: DefaultTolerance,
		ceiling:   DefaultCeiling,
		rebound:   DefaultRebound,
	}
}

// Classify picks the slot for a punch at punchAt. shift may be nil
// (no programmed shift covers the date) and row may be nil (first
// punch of the day).
func (c *Classifier) Classify(shift *roster.ShiftSchedule, row *ledger.Row, punchAt time.Time) Result {
	freeDay := shift == nil || shift.DayOff

	// Anti-rebound guard: a second scan right after a filled slot is
	// the same physical event, so it stays in that slot.
	if row != nil {
		if slot, at, ok := row.LatestFilled(); ok {
			if gap := punchAt.Sub(at); gap > -c.rebound && gap < c.rebound {
				if freeDay {
					return Result{Slot: slot, Detail: "EXTRA", DayState: ledger.EstadoDescanso, FreeDay: true}
				}
				return c.scheduledResult(shift, slot, punchAt)
			}
		}
	}

	if freeDay {
		return c.classifyFreeDay(row, punchAt)
	}
	return c.classifyScheduled(shift, row, punchAt)
}

// classifyFreeDay assigns slots in ledger-fill order: there is no
// schedule to measure against, so the day is reconstructed from the
// sequence of punches alone.
func (c *Classifier) classifyFreeDay(row *ledger.Row, punchAt time.Time) Result {
	slot := ledger.SlotEntryAM

	if row != nil && row.EntryAM != nil {
		entryAt, ok := row.SlotInstant(ledger.SlotEntryAM)
		switch {
		case ok && row.ExitPM == nil && punchAt.Sub(entryAt) >= freeDayCloseAfter:
			slot = ledger.SlotExitPM
		case row.ExitAM == nil:
			slot = ledger.SlotExitAM
		case row.EntryPM == nil:
			slot = ledger.SlotEntryPM
		default:
			slot = ledger.SlotExitPM
		}
	}

	return Result{Slot: slot, Detail: "EXTRA", DayState: ledger.EstadoDescanso, FreeDay: true}
}

func (c *Classifier) classifyScheduled(shift *roster.ShiftSchedule, row *ledger.Row, punchAt time.Time) Result {
	type candidate struct {
		slot ledger.Slot
		at   time.Time
	}

	var candidates []candidate
	for _, s := range []ledger.Slot{ledger.SlotEntryAM, ledger.SlotExitAM, ledger.SlotEntryPM, ledger.SlotExitPM} {
		if at := scheduledInstant(shift, s); at != nil {
			candidates = append(candidates, candidate{slot: s, at: *at})
		}
	}

	if len(candidates) == 0 {
		return c.fallback(shift, punchAt)
	}

	best := candidates[0]
	bestDiff := absDuration(punchAt.Sub(best.at))
	for _, cand := range candidates[1:] {
		if diff := absDuration(punchAt.Sub(cand.at)); diff < bestDiff {
			best, bestDiff = cand, diff
		}
	}

	if bestDiff > c.ceiling {
		return c.fallback(shift, punchAt)
	}

	slot := best.slot

	// A morning entry that is already recorded means this punch is a
	// departure, whatever the raw proximity says.
	if slot == ledger.SlotEntryAM && row != nil && row.EntryAM != nil {
		if shift.Continuous() || row.ExitAM != nil {
			slot = ledger.SlotExitPM
		} else {
			slot = ledger.SlotExitAM
		}
	}

	return c.scheduledResult(shift, slot, punchAt)
}

// fallback is the time-of-day heuristic used when no scheduled instant
// is within the ceiling. The day is flagged as an incidence for review.
func (c *Classifier) fallback(shift *roster.ShiftSchedule, punchAt time.Time) Result {
	var slot ledger.Slot
	h := punchAt.Hour()
	switch {
	case h < 12:
		slot = ledger.SlotEntryAM
	case h < 15:
		if punchAt.Minute() < 30 {
			slot = ledger.SlotExitAM
		} else {
			slot = ledger.SlotEntryPM
		}
	default:
		slot = ledger.SlotExitPM
	}

	detail := "SIN TURNO"
	if shift != nil {
		detail = "FUERA HORARIO"
	}

	return Result{Slot: slot, Detail: detail, DayState: ledger.EstadoIncidencia}
}

func (c *Classifier) scheduledResult(shift *roster.ShiftSchedule, slot ledger.Slot, punchAt time.Time) Result {
	scheduled := scheduledInstant(shift, slot)
	if scheduled == nil {
		return Result{Slot: slot, Detail: "A TIEMPO", DayState: ledger.EstadoPendiente}
	}
	return Result{
		Slot:     slot,
		Detail:   c.detail(slot, punchAt, *scheduled),
		DayState: ledger.EstadoPendiente,
	}
}

// detail renders the lateness/overtime text for a slot. Entries and
// exits read the delta differently: any positive exit delta counts as
// overtime, while entries get the tolerance in both directions.
func (c *Classifier) detail(slot ledger.Slot, punchAt, scheduled time.Time) string {
	delta := punchAt.Sub(scheduled)
	mins := int(delta.Minutes())

	if slot.IsEntry() {
		switch {
		case delta > c.tolerance:
			return fmt.Sprintf("ATRASO %dm", mins)
		case delta < -c.tolerance:
			return fmt.Sprintf("ADELANTO %dm", -mins)
		default:
			return "A TIEMPO"
		}
	}

	switch {
	case delta > 0:
		return fmt.Sprintf("EXTRA %dm", mins)
	case delta < -c.tolerance:
		return fmt.Sprintf("ANTICIPADA %dm", -mins)
	default:
		return "A TIEMPO"
	}
}

// Detail recomputes the delta text for an operator-supplied time, so
// rectified rows carry the same vocabulary as automatic ones.
func (c *Classifier) Detail(shift *roster.ShiftSchedule, slot ledger.Slot, punchAt time.Time) string {
	if shift == nil || shift.DayOff {
		return "EXTRA"
	}
	scheduled := scheduledInstant(shift, slot)
	if scheduled == nil {
		return "A TIEMPO"
	}
	return c.detail(slot, punchAt, *scheduled)
}

func scheduledInstant(shift *roster.ShiftSchedule, slot ledger.Slot) *time.Time {
	if shift == nil {
		return nil
	}
	switch slot {
	case ledger.SlotEntryAM:
		return shift.EntryAM
	case ledger.SlotExitAM:
		return shift.ExitAM
	case ledger.SlotEntryPM:
		return shift.EntryPM
	case ledger.SlotExitPM:
		return shift.ExitPM
	}
	return nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
