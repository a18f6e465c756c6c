package incidents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/orchestration"
	"github.com/bissquit/runbook-ops/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- f.now
	return ch
}

// mockExecutor implements Executor for testing.
type mockExecutor struct {
	result *domain.ExecutionResult
	err    error

	incidentID string
	runbookID  string
}

func (m *mockExecutor) ExecuteRunbook(_ context.Context, incidentID, runbookID string) (*domain.ExecutionResult, error) {
	m.incidentID = incidentID
	m.runbookID = runbookID
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func newTestRouter(executor Executor) *chi.Mux {
	st := store.NewSeeded(&fakeClock{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)})
	r := chi.NewRouter()
	NewHandler(st, executor).RegisterRoutes(r)
	return r
}

func TestGetIncident_OK(t *testing.T) {
	router := newTestRouter(&mockExecutor{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/incidents/INC-001", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"INC-001"`)
}

func TestGetIncident_NotFound(t *testing.T) {
	router := newTestRouter(&mockExecutor{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/incidents/INC-999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "incident not found")
}

func TestUpdateIncident_RejectsUnknownRunbook(t *testing.T) {
	router := newTestRouter(&mockExecutor{})

	body := strings.NewReader(`{"runbook_id":"RB-999"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/incidents/INC-001", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "runbook not found")
}

func TestUpdateIncident_Reassigns(t *testing.T) {
	router := newTestRouter(&mockExecutor{})

	body := strings.NewReader(`{"assigned_to":"Sarah Chen"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/incidents/INC-001", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sarah Chen")
}

func TestExecute_PassesIDs(t *testing.T) {
	executor := &mockExecutor{result: &domain.ExecutionResult{ID: "EXEC-1", Outcome: domain.OutcomeSuccess}}
	router := newTestRouter(executor)

	body := strings.NewReader(`{"runbook_id":"RB-001"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/incidents/INC-001/execute", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "INC-001", executor.incidentID)
	assert.Equal(t, "RB-001", executor.runbookID)
	assert.Contains(t, rec.Body.String(), `"EXEC-1"`)
}

func TestExecute_MissingRunbookIDFailsValidation(t *testing.T) {
	router := newTestRouter(&mockExecutor{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/incidents/INC-001/execute", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecute_ConflictWhenInProgress(t *testing.T) {
	router := newTestRouter(&mockExecutor{err: orchestration.ErrExecutionInProgress})

	body := strings.NewReader(`{"runbook_id":"RB-001"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/incidents/INC-001/execute", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
}
