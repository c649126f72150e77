package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
	"github.com/scafhq/attendance-engine/internal/domain/punch"
	"github.com/scafhq/attendance-engine/internal/domain/rectification"
	"github.com/scafhq/attendance-engine/internal/handler/http/response"
)

type EngineHandler interface {
	LiveFeed(w http.ResponseWriter, r *http.Request)
	Presence(w http.ResponseWriter, r *http.Request)
	ListLedger(w http.ResponseWriter, r *http.Request)
	GetLedgerRow(w http.ResponseWriter, r *http.Request)
	Audit(w http.ResponseWriter, r *http.Request)
	Rectify(w http.ResponseWriter, r *http.Request)
}

type engineHandlerImpl struct {
	ingestService  punch.IngestService
	ledgerRepo     ledger.LedgerRepository
	auditService   ledger.AuditService
	rectifyService rectification.RectificationService
}

func NewEngineHandler(
	ingestService punch.IngestService,
	ledgerRepo ledger.LedgerRepository,
	auditService ledger.AuditService,
	rectifyService rectification.RectificationService,
) EngineHandler {
	return &engineHandlerImpl{
		ingestService:  ingestService,
		ledgerRepo:     ledgerRepo,
		auditService:   auditService,
		rectifyService: rectifyService,
	}
}

// rowView is the wire form of a ledger row.
type rowView struct {
	ID            int64   `json:"id"`
	WorkerID      string  `json:"worker_id"`
	WorkerName    string  `json:"worker_name"`
	Date          string  `json:"fecha"`
	DayName       string  `json:"dia"`
	EntryAM       *string `json:"entrada_am"`
	ExitAM        *string `json:"salida_am"`
	EntryPM       *string `json:"entrada_pm"`
	ExitPM        *string `json:"salida_pm"`
	DetailEntryAM *string `json:"detalle_entrada_am,omitempty"`
	DetailExitAM  *string `json:"detalle_salida_am,omitempty"`
	DetailEntryPM *string `json:"detalle_entrada_pm,omitempty"`
	DetailExitPM  *string `json:"detalle_salida_pm,omitempty"`
	Estado        string  `json:"estado"`
	Area          string  `json:"area"`
	Hash          string  `json:"hash"`
	RecordType    string  `json:"record_type"`
	OriginalID    *int64  `json:"original_id,omitempty"`
}

func toRowView(r ledger.Row) rowView {
	return rowView{
		ID:            r.ID,
		WorkerID:      r.WorkerID,
		WorkerName:    r.WorkerName,
		Date:          r.Date,
		DayName:       r.DayName,
		EntryAM:       r.EntryAM,
		ExitAM:        r.ExitAM,
		EntryPM:       r.EntryPM,
		ExitPM:        r.ExitPM,
		DetailEntryAM: r.DetailEntryAM,
		DetailExitAM:  r.DetailExitAM,
		DetailEntryPM: r.DetailEntryPM,
		DetailExitPM:  r.DetailExitPM,
		Estado:        r.Estado,
		Area:          r.Area,
		Hash:          r.Hash,
		RecordType:    r.RecordType,
		OriginalID:    r.OriginalID,
	}
}

// LiveFeed implements EngineHandler.
func (h *engineHandlerImpl) LiveFeed(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.ingestService.LiveFeed())
}

// Presence implements EngineHandler.
func (h *engineHandlerImpl) Presence(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.ingestService.Presence())
}

// ListLedger implements EngineHandler.
func (h *engineHandlerImpl) ListLedger(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}

	rows, err := h.ledgerRepo.ListByDateRange(r.Context(), from, to)
	if err != nil {
		slog.Error("Failed to list ledger rows", "error", err)
		response.HandleError(w, err)
		return
	}

	views := make([]rowView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toRowView(row))
	}
	response.Success(w, views)
}

// GetLedgerRow implements EngineHandler.
func (h *engineHandlerImpl) GetLedgerRow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid row id", nil)
		return
	}

	row, err := h.ledgerRepo.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, toRowView(row))
}

// Audit implements EngineHandler.
func (h *engineHandlerImpl) Audit(w http.ResponseWriter, r *http.Request) {
	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}

	failing, err := h.auditService.VerifyRange(r.Context(), from, to)
	if err != nil {
		slog.Error("Audit sweep failed", "error", err)
		response.HandleError(w, err)
		return
	}

	views := make([]rowView, 0, len(failing))
	for _, row := range failing {
		views = append(views, toRowView(row))
	}

	response.Success(w, map[string]interface{}{
		"intact":  len(failing) == 0,
		"failing": views,
	})
}

// Rectify implements EngineHandler.
func (h *engineHandlerImpl) Rectify(w http.ResponseWriter, r *http.Request) {
	var req rectification.RectifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.rectifyService.Rectify(r.Context(), req)
	if err != nil {
		slog.Error("Rectification failed", "row_id", req.RowID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Ledger row rectified", result)
}

func dateRangeParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		response.BadRequest(w, "Query params 'from' and 'to' are required", nil)
		return "", "", false
	}
	for _, v := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			response.BadRequest(w, "Dates must be YYYY-MM-DD", nil)
			return "", "", false
		}
	}
	return from, to, true
}
