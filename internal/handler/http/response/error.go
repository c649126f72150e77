package response

import (
	"errors"
	"net/http"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
	"github.com/scafhq/attendance-engine/internal/domain/rectification"
	"github.com/scafhq/attendance-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Ledger domain errors
	case errors.Is(err, ledger.ErrRowNotFound):
		NotFound(w, "Ledger row not found")
	case errors.Is(err, ledger.ErrRowVoided):
		Conflict(w, "Ledger row was voided")

	// Rectification domain errors
	case errors.Is(err, rectification.ErrOriginalNotFound):
		NotFound(w, "Original ledger row not found")
	case errors.Is(err, rectification.ErrAlreadyVoided):
		Conflict(w, "Row was already voided by a previous rectification")
	case errors.Is(err, rectification.ErrRectificationFailed):
		InternalServerError(w, "Rectification could not be applied")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
