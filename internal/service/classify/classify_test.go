package classify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
	"github.com/scafhq/attendance-engine/internal/domain/roster"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", "2026-02-04 "+value)
	require.NoError(t, err)
	return parsed
}

func timePtr(v time.Time) *time.Time { return &v }

func splitShift(t *testing.T) *roster.ShiftSchedule {
	s := &roster.ShiftSchedule{
		WorkerID:   "12345678-5",
		WorkerName: "Juan Perez",
		DayName:    "Miercoles",
		EntryAM:    timePtr(at(t, "08:00:00")),
		ExitAM:     timePtr(at(t, "12:00:00")),
		EntryPM:    timePtr(at(t, "13:00:00")),
		ExitPM:     timePtr(at(t, "17:00:00")),
	}
	s.Normalize()
	return s
}

func continuousShift(t *testing.T) *roster.ShiftSchedule {
	s := &roster.ShiftSchedule{
		WorkerID: "12345678-5",
		EntryAM:  timePtr(at(t, "08:00:00")),
		ExitPM:   timePtr(at(t, "17:00:00")),
	}
	s.Normalize()
	return s
}

func dayOffShift(t *testing.T) *roster.ShiftSchedule {
	s := &roster.ShiftSchedule{
		WorkerID: "12345678-5",
		EntryAM:  timePtr(at(t, "00:00:00")),
		ExitPM:   timePtr(at(t, "23:59:00")),
	}
	s.Normalize()
	return s
}

func rowWith(slots map[ledger.Slot]string) *ledger.Row {
	row := &ledger.Row{
		WorkerID: "12345678-5",
		Date:     "2026-02-04",
	}
	for slot, v := range slots {
		row.SetSlot(slot, v)
	}
	return row
}

func TestClassifyEntryDeltas(t *testing.T) {
	c := New()

	tests := []struct {
		name       string
		punch      string
		wantSlot   ledger.Slot
		wantDetail string
	}{
		{"late beyond tolerance", "08:07:00", ledger.SlotEntryAM, "ATRASO 7m"},
		{"early within tolerance", "07:50:00", ledger.SlotEntryAM, "A TIEMPO"},
		{"exactly on time", "08:00:00", ledger.SlotEntryAM, "A TIEMPO"},
		{"early beyond tolerance", "07:30:00", ledger.SlotEntryAM, "ADELANTO 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(splitShift(t), nil, at(t, tt.punch))
			assert.Equal(t, tt.wantSlot, result.Slot)
			assert.Equal(t, tt.wantDetail, result.Detail)
			assert.Equal(t, ledger.EstadoPendiente, result.DayState)
			assert.False(t, result.FreeDay)
		})
	}
}

func TestClassifyExitDeltas(t *testing.T) {
	c := New()
	row := rowWith(map[ledger.Slot]string{
		ledger.SlotEntryAM: "08:00:00",
		ledger.SlotExitAM:  "12:00:00",
		ledger.SlotEntryPM: "13:00:00",
	})

	tests := []struct {
		name       string
		punch      string
		wantDetail string
	}{
		{"any positive delta is overtime", "17:02:00", "EXTRA 2m"},
		{"early within tolerance", "16:57:00", "A TIEMPO"},
		{"early beyond tolerance", "16:40:00", "ANTICIPADA 20m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(splitShift(t), row, at(t, tt.punch))
			assert.Equal(t, ledger.SlotExitPM, result.Slot)
			assert.Equal(t, tt.wantDetail, result.Detail)
		})
	}
}

func TestClassifyFreeDayUsesFillOrder(t *testing.T) {
	c := New()

	// First punch of the day opens the morning entry whatever the hour.
	result := c.Classify(dayOffShift(t), nil, at(t, "15:30:00"))
	assert.Equal(t, ledger.SlotEntryAM, result.Slot)
	assert.Equal(t, "EXTRA", result.Detail)
	assert.Equal(t, ledger.EstadoDescanso, result.DayState)
	assert.True(t, result.FreeDay)

	// A second punch shortly after stays in the break flow.
	row := rowWith(map[ledger.Slot]string{ledger.SlotEntryAM: "09:00:00"})
	result = c.Classify(dayOffShift(t), row, at(t, "12:00:00"))
	assert.Equal(t, ledger.SlotExitAM, result.Slot)

	// Five elapsed hours close the day instead.
	result = c.Classify(dayOffShift(t), row, at(t, "14:30:00"))
	assert.Equal(t, ledger.SlotExitPM, result.Slot)
	assert.Equal(t, "EXTRA", result.Detail)
}

func TestClassifyMissingShiftIsFreeDay(t *testing.T) {
	c := New()

	result := c.Classify(nil, nil, at(t, "08:05:00"))
	assert.True(t, result.FreeDay)
	assert.Equal(t, ledger.SlotEntryAM, result.Slot)
	assert.Equal(t, "EXTRA", result.Detail)
	assert.Equal(t, ledger.EstadoDescanso, result.DayState)
}

func TestClassifyFallbackBeyondCeiling(t *testing.T) {
	c := New()

	// A 02:00 punch is more than 4h from every scheduled instant.
	shift := &roster.ShiftSchedule{
		EntryAM: timePtr(at(t, "08:00:00")),
		ExitPM:  timePtr(at(t, "12:00:00")),
	}
	result := c.Classify(shift, nil, at(t, "02:00:00"))
	assert.Equal(t, ledger.SlotEntryAM, result.Slot)
	assert.Equal(t, "FUERA HORARIO", result.Detail)
	assert.Equal(t, ledger.EstadoIncidencia, result.DayState)
}

func TestFallbackTimeOfDayBuckets(t *testing.T) {
	c := New()

	tests := []struct {
		punch    string
		wantSlot ledger.Slot
	}{
		{"11:59:00", ledger.SlotEntryAM},
		{"12:15:00", ledger.SlotExitAM},
		{"14:45:00", ledger.SlotEntryPM},
		{"15:01:00", ledger.SlotExitPM},
	}

	for _, tt := range tests {
		result := c.fallback(nil, at(t, tt.punch))
		assert.Equal(t, tt.wantSlot, result.Slot, "punch at %s", tt.punch)
		assert.Equal(t, "SIN TURNO", result.Detail)
	}
}

func TestEntryRedirectWhenMorningAlreadyFilled(t *testing.T) {
	c := New()

	// 07:55 is nearest to the 08:00 entry, but the entry is taken:
	// a split shift redirects to the morning exit.
	row := rowWith(map[ledger.Slot]string{ledger.SlotEntryAM: "05:00:00"})
	result := c.Classify(splitShift(t), row, at(t, "07:55:00"))
	assert.Equal(t, ledger.SlotExitAM, result.Slot)

	// A continuous shift has no morning exit, so the redirect goes to
	// the day's final exit.
	result = c.Classify(continuousShift(t), row, at(t, "07:55:00"))
	assert.Equal(t, ledger.SlotExitPM, result.Slot)
}

func TestAntiReboundForcesPreviousSlot(t *testing.T) {
	c := New()

	row := rowWith(map[ledger.Slot]string{ledger.SlotEntryAM: "08:06:00"})

	// 11 minutes after the recorded entry: same slot, not a new one.
	result := c.Classify(splitShift(t), row, at(t, "08:17:00"))
	assert.Equal(t, ledger.SlotEntryAM, result.Slot)

	// 25 minutes later the guard no longer applies.
	result = c.Classify(splitShift(t), row, at(t, "08:31:00"))
	assert.NotEqual(t, ledger.SlotEntryAM, result.Slot)
}

func TestDetailForRectification(t *testing.T) {
	c := New()

	detail := c.Detail(splitShift(t), ledger.SlotEntryAM, at(t, "08:09:00"))
	assert.Equal(t, "ATRASO 9m", detail)

	assert.Equal(t, "EXTRA", c.Detail(dayOffShift(t), ledger.SlotEntryAM, at(t, "08:09:00")))
	assert.Equal(t, "EXTRA", c.Detail(nil, ledger.SlotEntryAM, at(t, "08:09:00")))
}
