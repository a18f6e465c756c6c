// Package incidents exposes the incident collection and the
// incident-triggered execution entry point.
package incidents

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/orchestration"
	"github.com/bissquit/runbook-ops/internal/pkg/httputil"
	"github.com/bissquit/runbook-ops/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Store is the subset of store operations the handler needs.
type Store interface {
	ListIncidents() []*domain.Incident
	GetIncident(id string) (*domain.Incident, error)
	UpdateIncident(id string, patch store.IncidentPatch) (*domain.Incident, error)
	GetRunbook(id string) (*domain.Runbook, error)
}

// Executor runs the execution pipeline for an incident.
type Executor interface {
	ExecuteRunbook(ctx context.Context, incidentID, runbookID string) (*domain.ExecutionResult, error)
}

// Handler handles HTTP requests for the incidents module.
type Handler struct {
	store     Store
	executor  Executor
	validator *validator.Validate
}

// NewHandler creates a new incidents handler.
func NewHandler(st Store, executor Executor) *Handler {
	return &Handler{
		store:     st,
		executor:  executor,
		validator: validator.New(),
	}
}

// RegisterRoutes registers incident routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.ListIncidents)
		r.Get("/{id}", h.GetIncident)
		r.Patch("/{id}", h.UpdateIncident)
		r.Post("/{id}/execute", h.Execute)
	})
}

// ListIncidents handles GET /incidents.
func (h *Handler) ListIncidents(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.store.ListIncidents())
}

// GetIncident handles GET /incidents/{id}.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	incident, err := h.store.GetIncident(chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrNotFound, Status: http.StatusNotFound, Message: "incident not found"},
		})
		return
	}
	httputil.Success(w, http.StatusOK, incident)
}

// UpdateIncidentRequest represents the request body for patching an incident.
type UpdateIncidentRequest struct {
	AssignedTo *string `json:"assigned_to" validate:"omitempty,min=1"`
	RunbookID  *string `json:"runbook_id" validate:"omitempty,min=1"`
}

// UpdateIncident handles PATCH /incidents/{id}. Only assignment fields may
// be changed from the outside; status transitions belong to the pipeline.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	var req UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	if req.RunbookID != nil {
		if _, err := h.store.GetRunbook(*req.RunbookID); err != nil {
			httputil.Error(w, http.StatusBadRequest, "runbook not found")
			return
		}
	}

	incident, err := h.store.UpdateIncident(chi.URLParam(r, "id"), store.IncidentPatch{
		AssignedTo: req.AssignedTo,
		RunbookID:  req.RunbookID,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrNotFound, Status: http.StatusNotFound, Message: "incident not found"},
		})
		return
	}
	httputil.Success(w, http.StatusOK, incident)
}

// ExecuteRequest represents the request body for executing a runbook
// against an incident.
type ExecuteRequest struct {
	RunbookID string `json:"runbook_id" validate:"required"`
}

// Execute handles POST /incidents/{id}/execute.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.executor.ExecuteRunbook(r.Context(), chi.URLParam(r, "id"), req.RunbookID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: orchestration.ErrIncidentNotFound, Status: http.StatusNotFound},
			{Error: orchestration.ErrRunbookNotFound, Status: http.StatusNotFound},
			{Error: orchestration.ErrExecutionInProgress, Status: http.StatusConflict},
		})
		return
	}
	httputil.Success(w, http.StatusOK, result)
}
