package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scafhq/attendance-engine/internal/domain/roster"
	"github.com/scafhq/attendance-engine/internal/pkg/database"
	"github.com/scafhq/attendance-engine/internal/pkg/nationalid"
)

type rosterRepository struct {
	db *database.DB
}

// idForms returns the id variants the roster may index a worker under.
func idForms(workerID string) []string {
	bare := nationalid.Strip(workerID)
	hyphenated := nationalid.Hyphenate(bare)
	if hyphenated == workerID {
		return []string{hyphenated, bare}
	}
	return []string{workerID, hyphenated, bare}
}

// GetShift implements roster.RosterRepository.
func (r *rosterRepository) GetShift(ctx context.Context, workerID string, date time.Time) (*roster.ShiftSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT worker_id, worker_name, COALESCE(email, ''),
			to_char(entry_am, 'HH24:MI:SS'),
			to_char(exit_am, 'HH24:MI:SS'),
			to_char(entry_pm, 'HH24:MI:SS'),
			to_char(exit_pm, 'HH24:MI:SS')
		FROM shift_roster
		WHERE worker_id = $1
		  AND day_name = $2
		  AND valid_from <= $3::date
		  AND (valid_to IS NULL OR valid_to >= $3::date)
		ORDER BY valid_from DESC
		LIMIT 1
	`

	dateStr := date.Format("2006-01-02")
	dayName := roster.DayName(date)

	for _, id := range idForms(workerID) {
		var (
			s                                roster.ShiftSchedule
			entryAM, exitAM, entryPM, exitPM *string
		)
		err := q.QueryRow(ctx, query, id, dayName, dateStr).Scan(
			&s.WorkerID, &s.WorkerName, &s.Email,
			&entryAM, &exitAM, &entryPM, &exitPM,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, fmt.Errorf("failed to get shift schedule: %w", err)
		}

		s.DayName = dayName
		s.EntryAM = anchorTime(entryAM, date)
		s.ExitAM = anchorTime(exitAM, date)
		s.EntryPM = anchorTime(entryPM, date)
		s.ExitPM = anchorTime(exitPM, date)
		s.Normalize()
		return &s, nil
	}

	return nil, nil
}

// anchorTime places a roster clock time on the queried calendar date.
func anchorTime(clock *string, date time.Time) *time.Time {
	if clock == nil || *clock == "" {
		return nil
	}
	t, err := time.ParseInLocation("15:04:05", *clock, date.Location())
	if err != nil {
		return nil
	}
	anchored := time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, date.Location())
	return &anchored
}

// GetWorkerEmail implements roster.RosterRepository.
func (r *rosterRepository) GetWorkerEmail(ctx context.Context, workerID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(email, '')
		FROM shift_roster
		WHERE worker_id = $1 AND email IS NOT NULL AND email <> ''
		LIMIT 1
	`

	for _, id := range idForms(workerID) {
		var email string
		err := q.QueryRow(ctx, query, id).Scan(&email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return "", fmt.Errorf("failed to get worker email: %w", err)
		}
		return email, nil
	}

	return "", nil
}

// ListWorkerNames implements roster.RosterRepository.
func (r *rosterRepository) ListWorkerNames(ctx context.Context) (map[string]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT DISTINCT worker_id, worker_name FROM shift_roster`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan worker name: %w", err)
		}
		names[nationalid.Strip(id)] = name
	}

	return names, rows.Err()
}

func NewRosterRepository(db *database.DB) roster.RosterRepository {
	return &rosterRepository{db: db}
}
