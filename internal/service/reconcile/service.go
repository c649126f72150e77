package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
	"github.com/scafhq/attendance-engine/internal/domain/punch"
	"github.com/scafhq/attendance-engine/internal/domain/roster"
	"github.com/scafhq/attendance-engine/internal/pkg/email"
	"github.com/scafhq/attendance-engine/internal/pkg/metrics"
	"github.com/scafhq/attendance-engine/internal/pkg/signer"
	"github.com/scafhq/attendance-engine/internal/repository/postgresql"
	"github.com/scafhq/attendance-engine/internal/service/classify"
)

// Transactor opens database transactions for per-record commits.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Service drains the durable buffer into the central ledger. Each
// buffered record is folded into its worker's day row inside its own
// transaction, so one bad record never blocks the rest of the pass.
type Service struct {
	buffer     punch.BufferRepository
	ledgerRepo ledger.LedgerRepository
	rosterRepo roster.RosterRepository
	classifier *classify.Classifier
	signer     *signer.Signer
	email      email.EmailService
	transactor Transactor
	metrics    *metrics.Metrics
	logger     *slog.Logger
	batchSize  int
}

func NewService(
	buffer punch.BufferRepository,
	ledgerRepo ledger.LedgerRepository,
	rosterRepo roster.RosterRepository,
	classifier *classify.Classifier,
	sig *signer.Signer,
	emailSvc email.EmailService,
	transactor Transactor,
	m *metrics.Metrics,
	logger *slog.Logger,
	batchSize int,
) *Service {
	return &Service{
		buffer:     buffer,
		ledgerRepo: ledgerRepo,
		rosterRepo: rosterRepo,
		classifier: classifier,
		signer:     sig,
		email:      emailSvc,
		transactor: transactor,
		metrics:    m,
		logger:     logger,
		batchSize:  batchSize,
	}
}

// DrainOnce runs one full pass over the pending buffer, oldest first.
// Records that fail stay in the buffer and are retried on the next
// cycle (at-least-once delivery into the ledger).
func (s *Service) DrainOnce(ctx context.Context) error {
	started := time.Now()
	defer func() { s.metrics.ObservePassDuration(time.Since(started)) }()

	records, err := s.buffer.DequeueBatch(ctx, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to dequeue pending records: %w", err)
	}

	for _, record := range records {
		if err := s.reconcileRecord(ctx, record); err != nil {
			s.metrics.IncSyncError()
			s.logger.Error("record left in buffer for retry",
				slog.Int64("buffer_id", record.ID),
				slog.String("worker_id", record.WorkerID),
				slog.Any("error", err))
			continue
		}

		if err := s.buffer.Remove(ctx, record.ID); err != nil {
			s.logger.Error("failed to remove reconciled record from buffer",
				slog.Int64("buffer_id", record.ID),
				slog.Any("error", err))
		}
	}

	if pending, err := s.buffer.PendingCount(ctx); err == nil {
		s.metrics.SetBufferPending(pending)
	}

	return nil
}

// reconcileRecord folds one buffered punch into the worker's day row
// inside a single transaction.
func (s *Service) reconcileRecord(ctx context.Context, record punch.BufferedRecord) error {
	date := record.Timestamp.Format("2006-01-02")

	var committed *ledger.Row
	err := s.transactor.WithTransaction(ctx, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		row, err := s.ledgerRepo.GetByWorkerAndDate(txCtx, record.WorkerID, date)
		if err != nil {
			return err
		}

		shift, err := s.rosterRepo.GetShift(txCtx, record.WorkerID, record.Timestamp)
		if err != nil {
			return err
		}

		result := s.classifier.Classify(shift, row, record.Timestamp)

		isNew := row == nil
		if isNew {
			row = s.newRow(record, shift, date)
		}

		if !s.applyPunch(row, result, record) {
			// Rebound or worse time for a filled slot: the punch is
			// consumed without changing the row.
			return nil
		}

		repairCrossedBreak(row)
		s.recomputeEstado(row, result)
		row.Hash = s.signer.Sign(row)

		if isNew {
			if err := s.ledgerRepo.Insert(txCtx, row); err != nil {
				return err
			}
		} else {
			if err := s.ledgerRepo.Update(txCtx, row); err != nil {
				return err
			}
		}

		committed = row
		return nil
	})
	if err != nil {
		return err
	}

	if committed != nil {
		s.metrics.IncReconciled(committed.Estado)
		s.sendReceipt(ctx, record, committed)
	}

	return nil
}

func (s *Service) newRow(record punch.BufferedRecord, shift *roster.ShiftSchedule, date string) *ledger.Row {
	name := record.Name
	if shift != nil && shift.WorkerName != "" {
		name = shift.WorkerName
	}

	dayName := roster.DayName(record.Timestamp)
	if shift != nil && shift.DayName != "" {
		dayName = shift.DayName
	}

	return &ledger.Row{
		WorkerID:   record.WorkerID,
		WorkerName: name,
		Date:       date,
		DayName:    dayName,
		Area:       record.Area,
		Estado:     ledger.EstadoPendiente,
		RecordType: ledger.RecordTypeAuto,
	}
}

// applyPunch writes the classified instant into the row under the
// fill policy: a first fill always writes; an occupied entry slot only
// accepts an earlier time, an occupied exit slot only a later one.
// Returns false when the row is left unchanged.
func (s *Service) applyPunch(row *ledger.Row, result classify.Result, record punch.BufferedRecord) bool {
	hhmmss := record.Timestamp.Format("15:04:05")

	if existing := row.SlotValue(result.Slot); existing != nil {
		current, ok := row.SlotInstant(result.Slot)
		if !ok {
			return false
		}
		better := (result.Slot.IsEntry() && record.Timestamp.Before(current)) ||
			(result.Slot.IsExit() && record.Timestamp.After(current))
		if !better {
			return false
		}
	}

	row.SetSlot(result.Slot, hhmmss)
	row.SetDetail(result.Slot, result.Detail)
	row.Area = record.Area
	return true
}

// repairCrossedBreak clears a midday re-entry that does not follow the
// midday exit. The contradictory pair is re-derived from later punches.
func repairCrossedBreak(row *ledger.Row) {
	exitAM, okOut := row.SlotInstant(ledger.SlotExitAM)
	entryPM, okIn := row.SlotInstant(ledger.SlotEntryPM)
	if okOut && okIn && !exitAM.Before(entryPM) {
		row.ClearSlot(ledger.SlotEntryPM)
	}
}

// recomputeEstado settles the row's overall state after a mutation.
// Incidences and rest-day markers stick; otherwise a filled final exit
// closes the day.
func (s *Service) recomputeEstado(row *ledger.Row, result classify.Result) {
	switch {
	case result.DayState == ledger.EstadoIncidencia || row.Estado == ledger.EstadoIncidencia:
		row.Estado = ledger.EstadoIncidencia
	case result.FreeDay:
		row.Estado = ledger.EstadoDescanso
	case row.ExitPM != nil:
		row.Estado = ledger.EstadoCerrado
	default:
		row.Estado = ledger.EstadoPendiente
	}
}

// sendReceipt notifies the worker of the recorded punch. Best-effort:
// errors are logged and swallowed.
func (s *Service) sendReceipt(ctx context.Context, record punch.BufferedRecord, row *ledger.Row) {
	addr, err := s.rosterRepo.GetWorkerEmail(ctx, record.WorkerID)
	if err != nil || addr == "" {
		return
	}

	label := "Marca registrada"
	if slot, at, ok := row.LatestFilled(); ok && at.Equal(record.Timestamp) {
		label = slot.String()
	}

	if err := s.email.SendReceipt(addr, row.WorkerName, row.Date,
		record.Timestamp.Format("15:04:05"), label, row.Area); err != nil {
		s.logger.Warn("failed to send punch receipt",
			slog.String("worker_id", record.WorkerID),
			slog.Any("error", err))
	}
}
