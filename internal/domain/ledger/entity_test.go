package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotKinds(t *testing.T) {
	assert.True(t, SlotEntryAM.IsEntry())
	assert.True(t, SlotEntryPM.IsEntry())
	assert.True(t, SlotExitAM.IsExit())
	assert.True(t, SlotExitPM.IsExit())
	assert.False(t, SlotNone.IsEntry())
	assert.False(t, SlotNone.IsExit())

	assert.Equal(t, "ENTRADA_AM", SlotEntryAM.String())
	assert.Equal(t, "SALIDA_PM", SlotExitPM.String())
	assert.Equal(t, "NONE", SlotNone.String())
}

func TestRowSlotAccessors(t *testing.T) {
	row := &Row{Date: "2026-02-04"}

	assert.Nil(t, row.SlotValue(SlotEntryAM))

	row.SetSlot(SlotEntryAM, "08:06:00")
	row.SetDetail(SlotEntryAM, "ATRASO 6m")

	require.NotNil(t, row.SlotValue(SlotEntryAM))
	assert.Equal(t, "08:06:00", *row.SlotValue(SlotEntryAM))
	require.NotNil(t, row.DetailEntryAM)
	assert.Equal(t, "ATRASO 6m", *row.DetailEntryAM)

	at, ok := row.SlotInstant(SlotEntryAM)
	require.True(t, ok)
	assert.Equal(t, 8, at.Hour())
	assert.Equal(t, 6, at.Minute())

	row.ClearSlot(SlotEntryAM)
	assert.Nil(t, row.EntryAM)
	assert.Nil(t, row.DetailEntryAM)
}

func TestLatestFilled(t *testing.T) {
	row := &Row{Date: "2026-02-04"}

	_, _, found := row.LatestFilled()
	assert.False(t, found)

	row.SetSlot(SlotEntryAM, "08:00:00")
	row.SetSlot(SlotExitAM, "12:00:00")

	slot, at, found := row.LatestFilled()
	require.True(t, found)
	assert.Equal(t, SlotExitAM, slot)
	assert.Equal(t, 12, at.Hour())

	// An out-of-order morning entry later than the exit wins.
	row.SetSlot(SlotEntryAM, "12:30:00")
	slot, _, found = row.LatestFilled()
	require.True(t, found)
	assert.Equal(t, SlotEntryAM, slot)
}
