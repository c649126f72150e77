package rectification

import "errors"

// Rectification domain errors
var (
	ErrOriginalNotFound    = errors.New("original ledger row not found")
	ErrAlreadyVoided       = errors.New("original ledger row was already voided by a previous rectification")
	ErrRectificationFailed = errors.New("rectification could not be applied")
)
