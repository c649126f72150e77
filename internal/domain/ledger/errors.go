package ledger

import "errors"

// Ledger domain errors
var (
	ErrRowNotFound = errors.New("ledger row not found")
	ErrRowVoided   = errors.New("ledger row has already been voided")
)
