package ledger

import (
	"context"
)

// LedgerRepository defines data access for the central ledger store.
// Rows are never physically deleted; corrections append a superseding
// row and void the original.
type LedgerRepository interface {
	// GetByWorkerAndDate retrieves the active (non-voided) row for a
	// worker on a date. Returns (nil, nil) when no row exists yet.
	GetByWorkerAndDate(ctx context.Context, workerID string, date string) (*Row, error)

	// GetByID retrieves a row by its sequence id
	GetByID(ctx context.Context, id int64) (Row, error)

	// Insert creates a new row under a fresh sequence id
	Insert(ctx context.Context, row *Row) error

	// Update rewrites the mutable fields of an existing row
	Update(ctx context.Context, row *Row) error

	// ListByDateRange returns all rows (including voided) whose date
	// falls inside [from, to], oldest first. Used by the audit sweep.
	ListByDateRange(ctx context.Context, from string, to string) ([]Row, error)

	// VoidAndInsert voids the original row in place and inserts the
	// superseding row within a single transaction. Assigns the
	// replacement's id on success.
	VoidAndInsert(ctx context.Context, voided Row, replacement *Row) error
}
