package scheduler

import (
	"context"
	"net/http"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/orchestration"
	"github.com/bissquit/runbook-ops/internal/pkg/httputil"
	"github.com/bissquit/runbook-ops/internal/store"
	"github.com/go-chi/chi/v5"
)

// Executor runs the execution pipeline for a scheduled job.
type Executor interface {
	ExecuteJobNow(ctx context.Context, jobID string) (*domain.ExecutionResult, error)
}

// Handler handles HTTP requests for the scheduler module.
type Handler struct {
	service  *Service
	executor Executor
}

// NewHandler creates a new scheduler handler.
func NewHandler(service *Service, executor Executor) *Handler {
	return &Handler{service: service, executor: executor}
}

// RegisterRoutes registers scheduled-job routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.ListJobs)
		r.Get("/{id}", h.GetJob)
		r.Post("/{id}/pause", h.PauseJob)
		r.Post("/{id}/resume", h.ResumeJob)
		r.Post("/{id}/execute", h.Execute)
	})
}

// ListJobs handles GET /jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.service.List())
}

// GetJob handles GET /jobs/{id}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, job)
}

// PauseJob handles POST /jobs/{id}/pause.
func (h *Handler) PauseJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Pause(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, job)
}

// ResumeJob handles POST /jobs/{id}/resume.
func (h *Handler) ResumeJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Resume(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, job)
}

// Execute handles POST /jobs/{id}/execute.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	result, err := h.executor.ExecuteJobNow(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: orchestration.ErrJobNotFound, Status: http.StatusNotFound},
			{Error: orchestration.ErrRunbookNotFound, Status: http.StatusNotFound},
			{Error: orchestration.ErrExecutionInProgress, Status: http.StatusConflict},
		})
		return
	}
	httputil.Success(w, http.StatusOK, result)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: store.ErrNotFound, Status: http.StatusNotFound, Message: "job not found"},
		{Error: ErrInvalidTransition, Status: http.StatusConflict},
	})
}
