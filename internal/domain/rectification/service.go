package rectification

import (
	"context"
)

// RectificationService applies audit-preserving corrections: the
// original row is voided and re-signed, and a superseding row is
// inserted, atomically.
type RectificationService interface {
	Rectify(ctx context.Context, req RectifyRequest) (RectifyResponse, error)
}
