package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/scafhq/attendance-engine/internal/domain/punch"
)

//go:embed schema.sql
var schemaSQL string

const timestampLayout = "2006-01-02 15:04:05"

type bufferRepository struct {
	db *sql.DB
}

// NewBufferRepository creates or opens the durable local buffer at the
// given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - FULL synchronous mode: an acknowledged enqueue must survive a
//     crash, so no write-back caching is acceptable here
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func NewBufferRepository(path string) (punch.BufferRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buffer database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to buffer database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply buffer schema: %w", err)
	}

	return &bufferRepository{db: db}, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// Enqueue implements punch.BufferRepository.
func (b *bufferRepository) Enqueue(ctx context.Context, event punch.PunchEvent) (bool, error) {
	res, err := b.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO punch_buffer (worker_id, name, punched_at, area, sent)
		VALUES (?, ?, ?, ?, 0)
	`, event.WorkerID, event.Name, event.Timestamp.Format(timestampLayout), event.Area)
	if err != nil {
		return false, fmt.Errorf("failed to enqueue punch: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read enqueue result: %w", err)
	}

	return affected > 0, nil
}

// DequeueBatch implements punch.BufferRepository.
func (b *bufferRepository) DequeueBatch(ctx context.Context, limit int) ([]punch.BufferedRecord, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, worker_id, name, punched_at, area, sent
		FROM punch_buffer
		ORDER BY id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query buffer: %w", err)
	}
	defer rows.Close()

	var records []punch.BufferedRecord
	for rows.Next() {
		var (
			rec       punch.BufferedRecord
			punchedAt string
			sent      int
		)
		if err := rows.Scan(&rec.ID, &rec.WorkerID, &rec.Name, &punchedAt, &rec.Area, &sent); err != nil {
			return nil, fmt.Errorf("failed to scan buffered record: %w", err)
		}

		ts, err := time.Parse(timestampLayout, punchedAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt timestamp in buffer record %d: %w", rec.ID, err)
		}
		rec.Timestamp = ts
		rec.Sent = sent != 0
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Remove implements punch.BufferRepository.
func (b *bufferRepository) Remove(ctx context.Context, id int64) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM punch_buffer WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove buffered record %d: %w", id, err)
	}
	return nil
}

// PendingCount implements punch.BufferRepository.
func (b *bufferRepository) PendingCount(ctx context.Context) (int, error) {
	var n int
	if err := b.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM punch_buffer`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count buffered records: %w", err)
	}
	return n, nil
}

// Close implements punch.BufferRepository.
func (b *bufferRepository) Close() error {
	return b.db.Close()
}
