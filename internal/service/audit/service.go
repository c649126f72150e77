package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
	"github.com/scafhq/attendance-engine/internal/pkg/signer"
)

type service struct {
	ledgerRepo ledger.LedgerRepository
	signer     *signer.Signer
	logger     *slog.Logger
}

func NewAuditService(ledgerRepo ledger.LedgerRepository, sig *signer.Signer, logger *slog.Logger) ledger.AuditService {
	return &service{
		ledgerRepo: ledgerRepo,
		signer:     sig,
		logger:     logger,
	}
}

// VerifyRange implements ledger.AuditService. Voided rows are checked
// too: their signatures cover the voided field values.
func (s *service) VerifyRange(ctx context.Context, from, to string) ([]ledger.Row, error) {
	rows, err := s.ledgerRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list rows for audit: %w", err)
	}

	var failing []ledger.Row
	for i := range rows {
		if !s.signer.Verify(&rows[i]) {
			s.logger.Warn("signature mismatch on ledger row",
				slog.Int64("row_id", rows[i].ID),
				slog.String("worker_id", rows[i].WorkerID),
				slog.String("date", rows[i].Date))
			failing = append(failing, rows[i])
		}
	}

	return failing, nil
}
