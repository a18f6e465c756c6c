package orchestration

import (
	"net/http"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/pkg/httputil"
	"github.com/bissquit/runbook-ops/internal/store"
	"github.com/go-chi/chi/v5"
)

// ResultsReader is the subset of store reads the handler needs.
type ResultsReader interface {
	ListExecutionResults() []*domain.ExecutionResult
	GetExecutionResult(id string) (*domain.ExecutionResult, error)
	ListAuditLog() []*domain.AuditLogEntry
	GetAuditEntry(id string) (*domain.AuditLogEntry, error)
}

// Handler serves execution results and the audit log.
type Handler struct {
	reader ResultsReader
}

// NewHandler creates a new orchestration handler.
func NewHandler(reader ResultsReader) *Handler {
	return &Handler{reader: reader}
}

// RegisterRoutes registers result and audit log routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/results", func(r chi.Router) {
		r.Get("/", h.ListResults)
		r.Get("/{id}", h.GetResult)
	})
	r.Route("/audit", func(r chi.Router) {
		r.Get("/", h.ListAuditLog)
		r.Get("/{id}", h.GetAuditEntry)
	})
}

// ListResults handles GET /results.
func (h *Handler) ListResults(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.reader.ListExecutionResults())
}

// GetResult handles GET /results/{id}.
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.reader.GetExecutionResult(chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrNotFound, Status: http.StatusNotFound, Message: "execution result not found"},
		})
		return
	}
	httputil.Success(w, http.StatusOK, res)
}

// ListAuditLog handles GET /audit.
func (h *Handler) ListAuditLog(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.reader.ListAuditLog())
}

// GetAuditEntry handles GET /audit/{id}.
func (h *Handler) GetAuditEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.reader.GetAuditEntry(chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrNotFound, Status: http.StatusNotFound, Message: "audit entry not found"},
		})
		return
	}
	httputil.Success(w, http.StatusOK, entry)
}
