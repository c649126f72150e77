package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scafhq/attendance-engine/internal/domain/ledger"
	"github.com/scafhq/attendance-engine/internal/domain/punch"
	"github.com/scafhq/attendance-engine/internal/domain/rectification"
)

type fakeIngest struct {
	feed     []punch.FeedEntry
	presence map[string]string
}

func (f *fakeIngest) ProcessBatch(context.Context, []punch.RawEvent, punch.TerminalSource) (int, error) {
	return 0, nil
}

func (f *fakeIngest) LiveFeed() []punch.FeedEntry { return f.feed }

func (f *fakeIngest) Presence() map[string]string { return f.presence }

type fakeLedgerRepo struct {
	rows map[int64]ledger.Row
}

func (f *fakeLedgerRepo) GetByWorkerAndDate(context.Context, string, string) (*ledger.Row, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) GetByID(_ context.Context, id int64) (ledger.Row, error) {
	if r, ok := f.rows[id]; ok {
		return r, nil
	}
	return ledger.Row{}, ledger.ErrRowNotFound
}

func (f *fakeLedgerRepo) Insert(context.Context, *ledger.Row) error { return nil }

func (f *fakeLedgerRepo) Update(context.Context, *ledger.Row) error { return nil }

func (f *fakeLedgerRepo) ListByDateRange(context.Context, string, string) ([]ledger.Row, error) {
	var out []ledger.Row
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLedgerRepo) VoidAndInsert(context.Context, ledger.Row, *ledger.Row) error { return nil }

type fakeAudit struct{}

func (fakeAudit) VerifyRange(context.Context, string, string) ([]ledger.Row, error) {
	return nil, nil
}

type fakeRectify struct {
	err error
}

func (f *fakeRectify) Rectify(_ context.Context, req rectification.RectifyRequest) (rectification.RectifyResponse, error) {
	if f.err != nil {
		return rectification.RectifyResponse{}, f.err
	}
	return rectification.RectifyResponse{OriginalID: req.RowID, NewID: req.RowID + 1, Estado: ledger.EstadoRectificado}, nil
}

func newTestRouter(rectifyErr error) http.Handler {
	ingest := &fakeIngest{
		feed:     []punch.FeedEntry{{EventID: "e1", Time: "08:06:00", Name: "Juan Perez", Area: "Bodega"}},
		presence: map[string]string{"12345678-5": "Bodega"},
	}
	repo := &fakeLedgerRepo{rows: map[int64]ledger.Row{
		1: {ID: 1, WorkerID: "12345678-5", Date: "2026-02-04", Estado: ledger.EstadoPendiente},
	}}
	handler := NewEngineHandler(ingest, repo, fakeAudit{}, &fakeRectify{err: rectifyErr})
	return NewRouter(handler)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetLiveFeed(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
}

func TestGetPresence(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/presence", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Bodega", data["12345678-5"])
}

func TestGetLedgerRow(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLedgerRequiresDateRange(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/?from=2026-02-01&to=bad", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/?from=2026-02-01&to=2026-02-28", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuditEndpoint(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/audit?from=2026-02-01&to=2026-02-28", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["intact"])
}

func TestRectifyEndpoint(t *testing.T) {
	router := newTestRouter(nil)

	payload, _ := json.Marshal(map[string]interface{}{
		"row_id":     1,
		"entrada_am": "08:00:00",
		"admin_user": "rrhh.admin",
		"reason":     "ajuste manual",
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rectifications", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRectifyEndpointMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", rectification.ErrOriginalNotFound, http.StatusNotFound},
		{"already voided", rectification.ErrAlreadyVoided, http.StatusConflict},
		{"failed", rectification.ErrRectificationFailed, http.StatusInternalServerError},
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"row_id":     1,
		"entrada_am": "08:00:00",
		"admin_user": "rrhh.admin",
		"reason":     "ajuste manual",
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.err)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/rectifications", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRectifyEndpointRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rectifications", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
