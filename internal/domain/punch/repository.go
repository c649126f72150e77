package punch

import (
	"context"
)

// BufferRepository is the crash-resistant FIFO store of pending punch
// events. Writes are flushed synchronously before Enqueue returns.
type BufferRepository interface {
	// Enqueue persists the event with sent=0. Returns false without
	// error when a record with the same (workerID, timestamp) already
	// exists.
	Enqueue(ctx context.Context, event PunchEvent) (bool, error)

	// DequeueBatch returns up to limit pending records, oldest first.
	DequeueBatch(ctx context.Context, limit int) ([]BufferedRecord, error)

	// Remove permanently deletes a record. Removing a missing id is a
	// no-op.
	Remove(ctx context.Context, id int64) error

	// PendingCount reports how many records are waiting to be drained.
	PendingCount(ctx context.Context) (int, error)

	Close() error
}
