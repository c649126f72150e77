package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scafhq/attendance-engine/internal/domain/punch"
)

func newTestBuffer(t *testing.T) punch.BufferRepository {
	t.Helper()
	repo, err := NewBufferRepository(filepath.Join(t.TempDir(), "buffer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testEvent(t *testing.T, workerID, ts string) punch.PunchEvent {
	t.Helper()
	parsed, err := time.Parse(timestampLayout, ts)
	require.NoError(t, err)
	return punch.PunchEvent{
		WorkerID:   workerID,
		Name:       "Juan Perez",
		Timestamp:  parsed,
		Area:       "Bodega",
		DeviceName: "camara-1",
	}
}

func TestEnqueueIsIdempotentOnWorkerAndTimestamp(t *testing.T) {
	repo := newTestBuffer(t)
	ctx := context.Background()
	event := testEvent(t, "12345678-5", "2026-02-04 08:06:00")

	inserted, err := repo.Enqueue(ctx, event)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Enqueue(ctx, event)
	require.NoError(t, err)
	assert.False(t, inserted, "duplicate (worker, timestamp) is rejected without error")

	n, err := repo.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDequeueBatchReturnsOldestFirst(t *testing.T) {
	repo := newTestBuffer(t)
	ctx := context.Background()

	for _, ts := range []string{"2026-02-04 08:06:00", "2026-02-04 08:07:00", "2026-02-04 08:08:00"} {
		_, err := repo.Enqueue(ctx, testEvent(t, "12345678-5", ts))
		require.NoError(t, err)
	}

	records, err := repo.DequeueBatch(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "08:06:00", records[0].Timestamp.Format("15:04:05"))
	assert.Equal(t, "08:07:00", records[1].Timestamp.Format("15:04:05"))
	assert.True(t, records[0].ID < records[1].ID)
}

func TestRoundTripPreservesEvent(t *testing.T) {
	repo := newTestBuffer(t)
	ctx := context.Background()
	event := testEvent(t, "12345678-5", "2026-02-04 08:06:00")

	_, err := repo.Enqueue(ctx, event)
	require.NoError(t, err)

	records, err := repo.DequeueBatch(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, event.WorkerID, records[0].WorkerID)
	assert.Equal(t, event.Name, records[0].Name)
	assert.Equal(t, event.Area, records[0].Area)
	assert.True(t, event.Timestamp.Equal(records[0].Timestamp))
	assert.False(t, records[0].Sent)
}

func TestRemoveIsIdempotent(t *testing.T) {
	repo := newTestBuffer(t)
	ctx := context.Background()

	_, err := repo.Enqueue(ctx, testEvent(t, "12345678-5", "2026-02-04 08:06:00"))
	require.NoError(t, err)

	records, err := repo.DequeueBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, repo.Remove(ctx, records[0].ID))
	require.NoError(t, repo.Remove(ctx, records[0].ID), "removing a missing id is a no-op")

	n, err := repo.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBufferSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buffer.db")
	ctx := context.Background()

	repo, err := NewBufferRepository(path)
	require.NoError(t, err)
	_, err = repo.Enqueue(ctx, testEvent(t, "12345678-5", "2026-02-04 08:06:00"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := NewBufferRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
