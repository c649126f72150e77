package ledger

import (
	"context"
)

// AuditService verifies the tamper-evident signatures of stored rows.
type AuditService interface {
	// VerifyRange recomputes the signature of every row dated inside
	// [from, to] and returns the rows whose stored signature does not
	// match. An empty result means the range is intact.
	VerifyRange(ctx context.Context, from string, to string) ([]Row, error)
}
