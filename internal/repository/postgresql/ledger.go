package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
	"github.com/scafhq/attendance-engine/internal/pkg/database"
)

type ledgerRepository struct {
	db *database.DB
}

const ledgerColumns = `
	id, worker_id, worker_name, to_char(date, 'YYYY-MM-DD'), day_name,
	entry_am, exit_am, entry_pm, exit_pm,
	detail_entry_am, detail_exit_am, detail_entry_pm, detail_exit_pm,
	estado, area, hash,
	record_type, modified_by, modified_at, modify_reason, original_id,
	created_at, updated_at`

func scanLedgerRow(row pgx.Row) (ledger.Row, error) {
	var r ledger.Row
	err := row.Scan(
		&r.ID, &r.WorkerID, &r.WorkerName, &r.Date, &r.DayName,
		&r.EntryAM, &r.ExitAM, &r.EntryPM, &r.ExitPM,
		&r.DetailEntryAM, &r.DetailExitAM, &r.DetailEntryPM, &r.DetailExitPM,
		&r.Estado, &r.Area, &r.Hash,
		&r.RecordType, &r.ModifiedBy, &r.ModifiedAt, &r.ModifyReason, &r.OriginalID,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// GetByWorkerAndDate implements ledger.LedgerRepository.
func (l *ledgerRepository) GetByWorkerAndDate(ctx context.Context, workerID string, date string) (*ledger.Row, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT ` + ledgerColumns + `
		FROM attendance_ledger
		WHERE worker_id = $1
		  AND date = $2::date
		  AND estado <> $3
		ORDER BY id DESC
		LIMIT 1
	`

	r, err := scanLedgerRow(q.QueryRow(ctx, query, workerID, date, ledger.EstadoAnulado))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger row by worker and date: %w", err)
	}

	return &r, nil
}

// GetByID implements ledger.LedgerRepository.
func (l *ledgerRepository) GetByID(ctx context.Context, id int64) (ledger.Row, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT ` + ledgerColumns + `
		FROM attendance_ledger
		WHERE id = $1
	`

	r, err := scanLedgerRow(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Row{}, ledger.ErrRowNotFound
		}
		return ledger.Row{}, fmt.Errorf("failed to get ledger row by id: %w", err)
	}

	return r, nil
}

// Insert implements ledger.LedgerRepository.
func (l *ledgerRepository) Insert(ctx context.Context, row *ledger.Row) error {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO attendance_ledger (
			worker_id, worker_name, date, day_name,
			entry_am, exit_am, entry_pm, exit_pm,
			detail_entry_am, detail_exit_am, detail_entry_pm, detail_exit_pm,
			estado, area, hash,
			record_type, modified_by, modified_at, modify_reason, original_id
		) VALUES (
			$1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		row.WorkerID, row.WorkerName, row.Date, row.DayName,
		row.EntryAM, row.ExitAM, row.EntryPM, row.ExitPM,
		row.DetailEntryAM, row.DetailExitAM, row.DetailEntryPM, row.DetailExitPM,
		row.Estado, row.Area, row.Hash,
		row.RecordType, row.ModifiedBy, row.ModifiedAt, row.ModifyReason, row.OriginalID,
	).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert ledger row: %w", err)
	}

	return nil
}

// Update implements ledger.LedgerRepository.
func (l *ledgerRepository) Update(ctx context.Context, row *ledger.Row) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE attendance_ledger SET
			worker_name = $1,
			entry_am = $2, exit_am = $3, entry_pm = $4, exit_pm = $5,
			detail_entry_am = $6, detail_exit_am = $7,
			detail_entry_pm = $8, detail_exit_pm = $9,
			estado = $10, area = $11, hash = $12,
			modified_by = $13, modified_at = $14, modify_reason = $15,
			updated_at = $16
		WHERE id = $17
		RETURNING id
	`

	var updatedID int64
	err := q.QueryRow(ctx, query,
		row.WorkerName,
		row.EntryAM, row.ExitAM, row.EntryPM, row.ExitPM,
		row.DetailEntryAM, row.DetailExitAM, row.DetailEntryPM, row.DetailExitPM,
		row.Estado, row.Area, row.Hash,
		row.ModifiedBy, row.ModifiedAt, row.ModifyReason,
		time.Now(),
		row.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.ErrRowNotFound
		}
		return fmt.Errorf("failed to update ledger row: %w", err)
	}

	return nil
}

// ListByDateRange implements ledger.LedgerRepository.
func (l *ledgerRepository) ListByDateRange(ctx context.Context, from string, to string) ([]ledger.Row, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT ` + ledgerColumns + `
		FROM attendance_ledger
		WHERE date >= $1::date AND date <= $2::date
		ORDER BY id ASC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger rows: %w", err)
	}
	defer rows.Close()

	var result []ledger.Row
	for rows.Next() {
		r, err := scanLedgerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		result = append(result, r)
	}

	return result, rows.Err()
}

// VoidAndInsert implements ledger.LedgerRepository.
func (l *ledgerRepository) VoidAndInsert(ctx context.Context, voided ledger.Row, replacement *ledger.Row) error {
	return WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)

		if err := l.Update(txCtx, &voided); err != nil {
			return fmt.Errorf("void original row: %w", err)
		}
		if err := l.Insert(txCtx, replacement); err != nil {
			return fmt.Errorf("insert superseding row: %w", err)
		}
		return nil
	})
}

func NewLedgerRepository(db *database.DB) ledger.LedgerRepository {
	return &ledgerRepository{db: db}
}
