package ledger

import (
	"time"
)

// Slot identifies one of the four daily checkpoints of a shift.
type Slot int

const (
	SlotNone Slot = iota
	SlotEntryAM
	SlotExitAM
	SlotEntryPM
	SlotExitPM
)

var slotNames = map[Slot]string{
	SlotEntryAM: "ENTRADA_AM",
	SlotExitAM:  "SALIDA_AM",
	SlotEntryPM: "ENTRADA_PM",
	SlotExitPM:  "SALIDA_PM",
}

func (s Slot) String() string {
	if name, ok := slotNames[s]; ok {
		return name
	}
	return "NONE"
}

// IsEntry reports whether the slot is a clock-in checkpoint.
func (s Slot) IsEntry() bool {
	return s == SlotEntryAM || s == SlotEntryPM
}

// IsExit reports whether the slot is a clock-out checkpoint.
func (s Slot) IsExit() bool {
	return s == SlotExitAM || s == SlotExitPM
}

// Ledger row states
const (
	EstadoPendiente   = "PENDIENTE"
	EstadoIncidencia  = "INCIDENCIA"
	EstadoCerrado     = "CERRADO"
	EstadoDescanso    = "TURNO EN DESCANSO"
	EstadoAnulado     = "ANULADO_RECT"
	EstadoRectificado = "RECTIFICADO MANUAL"
)

// Record origin types
const (
	RecordTypeAuto   = "AUTO"
	RecordTypeManual = "MANUAL"
)

// Row is the authoritative, signed daily attendance record for one
// worker. Observed instants are stored as HH:MM:SS wall-clock strings;
// the signature covers their exact stored form, so they are never
// round-tripped through time.Time once written.
type Row struct {
	ID         int64
	WorkerID   string // canonical hyphenated form
	WorkerName string
	Date       string // YYYY-MM-DD
	DayName    string

	EntryAM *string
	ExitAM  *string
	EntryPM *string
	ExitPM  *string

	DetailEntryAM *string
	DetailExitAM  *string
	DetailEntryPM *string
	DetailExitPM  *string

	Estado string
	Area   string
	Hash   string

	RecordType   string
	ModifiedBy   *string
	ModifiedAt   *time.Time
	ModifyReason *string
	OriginalID   *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotValue returns the observed instant stored in the given slot.
func (r *Row) SlotValue(s Slot) *string {
	switch s {
	case SlotEntryAM:
		return r.EntryAM
	case SlotExitAM:
		return r.ExitAM
	case SlotEntryPM:
		return r.EntryPM
	case SlotExitPM:
		return r.ExitPM
	}
	return nil
}

// SetSlot writes an observed instant (HH:MM:SS) into the given slot.
func (r *Row) SetSlot(s Slot, hhmmss string) {
	v := hhmmss
	switch s {
	case SlotEntryAM:
		r.EntryAM = &v
	case SlotExitAM:
		r.ExitAM = &v
	case SlotEntryPM:
		r.EntryPM = &v
	case SlotExitPM:
		r.ExitPM = &v
	}
}

// ClearSlot empties the given slot and its detail.
func (r *Row) ClearSlot(s Slot) {
	switch s {
	case SlotEntryAM:
		r.EntryAM, r.DetailEntryAM = nil, nil
	case SlotExitAM:
		r.ExitAM, r.DetailExitAM = nil, nil
	case SlotEntryPM:
		r.EntryPM, r.DetailEntryPM = nil, nil
	case SlotExitPM:
		r.ExitPM, r.DetailExitPM = nil, nil
	}
}

// SetDetail writes the per-slot detail text (e.g. "ATRASO 7m").
func (r *Row) SetDetail(s Slot, text string) {
	v := text
	switch s {
	case SlotEntryAM:
		r.DetailEntryAM = &v
	case SlotExitAM:
		r.DetailExitAM = &v
	case SlotEntryPM:
		r.DetailEntryPM = &v
	case SlotExitPM:
		r.DetailExitPM = &v
	}
}

// SlotInstant combines the row date with the stored slot value.
func (r *Row) SlotInstant(s Slot) (time.Time, bool) {
	v := r.SlotValue(s)
	if v == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02 15:04:05", r.Date+" "+*v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LatestFilled returns the filled slot whose observed instant is the
// most recent, used by the anti-rebound guard.
func (r *Row) LatestFilled() (Slot, time.Time, bool) {
	var (
		best   Slot
		bestAt time.Time
		found  bool
	)
	for _, s := range []Slot{SlotEntryAM, SlotExitAM, SlotEntryPM, SlotExitPM} {
		at, ok := r.SlotInstant(s)
		if !ok {
			continue
		}
		if !found || at.After(bestAt) {
			best, bestAt, found = s, at, true
		}
	}
	return best, bestAt, found
}
