package rectification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
	"github.com/scafhq/attendance-engine/internal/domain/rectification"
	"github.com/scafhq/attendance-engine/internal/domain/roster"
	"github.com/scafhq/attendance-engine/internal/pkg/signer"
	"github.com/scafhq/attendance-engine/internal/service/classify"
)

type service struct {
	ledgerRepo ledger.LedgerRepository
	rosterRepo roster.RosterRepository
	classifier *classify.Classifier
	signer     *signer.Signer
	logger     *slog.Logger
}

func NewRectificationService(
	ledgerRepo ledger.LedgerRepository,
	rosterRepo roster.RosterRepository,
	classifier *classify.Classifier,
	sig *signer.Signer,
	logger *slog.Logger,
) rectification.RectificationService {
	return &service{
		ledgerRepo: ledgerRepo,
		rosterRepo: rosterRepo,
		classifier: classifier,
		signer:     sig,
		logger:     logger,
	}
}

// Rectify implements rectification.RectificationService. The original
// row is voided in place and a superseding row is inserted, both
// re-signed, inside one transaction: a voided-but-uncorrected state is
// never observable.
func (s *service) Rectify(ctx context.Context, req rectification.RectifyRequest) (rectification.RectifyResponse, error) {
	if err := req.Validate(); err != nil {
		return rectification.RectifyResponse{}, err
	}

	original, err := s.ledgerRepo.GetByID(ctx, req.RowID)
	if err != nil {
		if errors.Is(err, ledger.ErrRowNotFound) {
			return rectification.RectifyResponse{}, rectification.ErrOriginalNotFound
		}
		return rectification.RectifyResponse{}, fmt.Errorf("load original row: %w", err)
	}
	if original.Estado == ledger.EstadoAnulado {
		return rectification.RectifyResponse{}, rectification.ErrAlreadyVoided
	}

	date, err := time.Parse("2006-01-02", original.Date)
	if err != nil {
		return rectification.RectifyResponse{}, fmt.Errorf("parse row date: %w", err)
	}

	shift, err := s.rosterRepo.GetShift(ctx, original.WorkerID, date)
	if err != nil {
		return rectification.RectifyResponse{}, fmt.Errorf("load shift for replacement deltas: %w", err)
	}

	replacement := s.buildReplacement(&original, shift, req)
	replacement.Hash = s.signer.Sign(replacement)

	voided := original
	voided.Estado = ledger.EstadoAnulado
	voided.ModifiedBy = &req.AdminUser
	now := time.Now()
	voided.ModifiedAt = &now
	voided.ModifyReason = &req.Reason
	voided.Hash = s.signer.Sign(&voided)

	if err := s.ledgerRepo.VoidAndInsert(ctx, voided, replacement); err != nil {
		s.logger.Error("rectification rolled back",
			slog.Int64("row_id", req.RowID),
			slog.Any("error", err))
		return rectification.RectifyResponse{}, fmt.Errorf("%w: %v", rectification.ErrRectificationFailed, err)
	}

	s.logger.Info("ledger row rectified",
		slog.Int64("original_id", original.ID),
		slog.Int64("new_id", replacement.ID),
		slog.String("admin_user", req.AdminUser))

	return rectification.RectifyResponse{
		OriginalID: original.ID,
		NewID:      replacement.ID,
		Estado:     replacement.Estado,
	}, nil
}

// buildReplacement assembles the superseding row from the operator's
// times. Deltas are recomputed with the same classifier vocabulary the
// automatic path uses.
func (s *service) buildReplacement(original *ledger.Row, shift *roster.ShiftSchedule, req rectification.RectifyRequest) *ledger.Row {
	now := time.Now()
	replacement := &ledger.Row{
		WorkerID:     original.WorkerID,
		WorkerName:   original.WorkerName,
		Date:         original.Date,
		DayName:      original.DayName,
		Area:         original.Area,
		Estado:       ledger.EstadoRectificado,
		RecordType:   ledger.RecordTypeManual,
		ModifiedBy:   &req.AdminUser,
		ModifiedAt:   &now,
		ModifyReason: &req.Reason,
		OriginalID:   &original.ID,
	}

	for slot, v := range map[ledger.Slot]*string{
		ledger.SlotEntryAM: req.EntryAM,
		ledger.SlotExitAM:  req.ExitAM,
		ledger.SlotEntryPM: req.EntryPM,
		ledger.SlotExitPM:  req.ExitPM,
	} {
		if v == nil || *v == "" {
			continue
		}
		replacement.SetSlot(slot, *v)
		if at, ok := replacement.SlotInstant(slot); ok {
			replacement.SetDetail(slot, s.classifier.Detail(shift, slot, at))
		}
	}

	return replacement
}
