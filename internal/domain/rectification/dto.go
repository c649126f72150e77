package rectification

import (
	"github.com/scafhq/attendance-engine/internal/pkg/validator"
)

// RectifyRequest is an administrative correction of one ledger row.
// Replacement times are HH:MM:SS; a nil field leaves the slot empty in
// the superseding row.
type RectifyRequest struct {
	RowID     int64   `json:"row_id"`
	EntryAM   *string `json:"entrada_am"`
	ExitAM    *string `json:"salida_am"`
	EntryPM   *string `json:"entrada_pm"`
	ExitPM    *string `json:"salida_pm"`
	AdminUser string  `json:"admin_user"`
	Reason    string  `json:"reason"`
}

func (r *RectifyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.RowID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "row_id",
			Message: "row_id is required",
		})
	}

	if validator.IsEmpty(r.AdminUser) {
		errs = append(errs, validator.ValidationError{
			Field:   "admin_user",
			Message: "admin_user is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	anyTime := false
	for field, v := range map[string]*string{
		"entrada_am": r.EntryAM,
		"salida_am":  r.ExitAM,
		"entrada_pm": r.EntryPM,
		"salida_pm":  r.ExitPM,
	} {
		if v == nil || *v == "" {
			continue
		}
		anyTime = true
		if !validator.IsValidClockTime(*v) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "must be a valid HH:MM:SS time",
			})
		}
	}
	if !anyTime {
		errs = append(errs, validator.ValidationError{
			Field:   "times",
			Message: "at least one replacement time is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RectifyResponse reports the outcome of a successful correction.
type RectifyResponse struct {
	OriginalID int64  `json:"original_id"`
	NewID      int64  `json:"new_id"`
	Estado     string `json:"estado"`
}
