package runbooks

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

// Executor runs the execution pipeline for an ad-hoc runbook run.
type Executor interface {
	ExecuteRunbookDirect(ctx context.Context, runbookID string, targetServers []string, executionContext string) (*domain.ExecutionResult, error)
}

// Handler handles HTTP requests for the runbooks module.
type Handler struct {
	service   *Service
	executor  Executor
	validator *validator.Validate
}

// NewHandler creates a new runbooks handler.
func NewHandler(service *Service, executor Executor) *Handler {
	return &Handler{
		service:   service,
		executor:  executor,
		validator: validator.New(),
	}
}

// RegisterRoutes registers runbook catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/runbooks", func(r chi.Router) {
		r.Get("/", h.ListRunbooks)
		r.Post("/", h.CreateRunbook)
		r.Get("/{id}", h.GetRunbook)
		r.Patch("/{id}", h.UpdateRunbook)
		r.Post("/{id}/duplicate", h.DuplicateRunbook)
		r.Post("/{id}/execute", h.Execute)
	})
}

// RunbookRequest represents the request body for creating a runbook.
type RunbookRequest struct {
	Name                  string                    `json:"name" validate:"required,min=1,max=255"`
	Category              string                    `json:"category" validate:"required,oneof=Infrastructure Application Security Maintenance"`
	RiskLevel             string                    `json:"risk_level" validate:"required,oneof=Low Medium High"`
	Severity              string                    `json:"severity" validate:"required,oneof=Critical High Medium Low"`
	OwnerTeam             string                    `json:"owner_team" validate:"required"`
	AutoExecuteAllowed    bool                      `json:"auto_execute_allowed"`
	ApprovalLevelRequired string                    `json:"approval_level_required" validate:"required,oneof=Engineer 'Senior Engineer' Admin"`
	SupportedEnvironments []domain.Environment      `json:"supported_environments" validate:"required,min=1,dive,oneof=Production Staging"`
	TriggerConditions     []domain.TriggerCondition `json:"trigger_conditions"`
	RequiredContext       []string                  `json:"required_context"`
	PreChecks             []domain.CheckAssertion   `json:"pre_checks"`
	Steps                 []domain.RunbookStep      `json:"steps" validate:"required,min=1"`
	PostChecks            []domain.CheckAssertion   `json:"post_checks"`
	Rollback              domain.RollbackPlan       `json:"rollback"`
	Script                string                    `json:"script"`
}

// ToDomain converts the request to a domain model.
func (r *RunbookRequest) ToDomain() *domain.Runbook {
	return &domain.Runbook{
		Name:                  r.Name,
		Category:              domain.RunbookCategory(r.Category),
		RiskLevel:             domain.RiskLevel(r.RiskLevel),
		Severity:              domain.Severity(r.Severity),
		OwnerTeam:             r.OwnerTeam,
		AutoExecuteAllowed:    r.AutoExecuteAllowed,
		ApprovalLevelRequired: domain.ApprovalLevel(r.ApprovalLevelRequired),
		SupportedEnvironments: r.SupportedEnvironments,
		TriggerConditions:     r.TriggerConditions,
		RequiredContext:       r.RequiredContext,
		PreChecks:             r.PreChecks,
		Steps:                 r.Steps,
		PostChecks:            r.PostChecks,
		Rollback:              r.Rollback,
		Script:                r.Script,
	}
}

// UpdateRunbookRequest represents the request body for patching a runbook.
// Absent fields are left unchanged.
type UpdateRunbookRequest struct {
	Name                  *string                    `json:"name" validate:"omitempty,min=1,max=255"`
	Category              *string                    `json:"category" validate:"omitempty,oneof=Infrastructure Application Security Maintenance"`
	RiskLevel             *string                    `json:"risk_level" validate:"omitempty,oneof=Low Medium High"`
	Severity              *string                    `json:"severity" validate:"omitempty,oneof=Critical High Medium Low"`
	OwnerTeam             *string                    `json:"owner_team" validate:"omitempty,min=1"`
	AutoExecuteAllowed    *bool                      `json:"auto_execute_allowed"`
	ApprovalLevelRequired *string                    `json:"approval_level_required" validate:"omitempty,oneof=Engineer 'Senior Engineer' Admin"`
	SupportedEnvironments *[]domain.Environment      `json:"supported_environments" validate:"omitempty,min=1,dive,oneof=Production Staging"`
	TriggerConditions     *[]domain.TriggerCondition `json:"trigger_conditions"`
	RequiredContext       *[]string                  `json:"required_context"`
	PreChecks             *[]domain.CheckAssertion   `json:"pre_checks"`
	Steps                 *[]domain.RunbookStep      `json:"steps" validate:"omitempty,min=1"`
	PostChecks            *[]domain.CheckAssertion   `json:"post_checks"`
	Rollback              *domain.RollbackPlan       `json:"rollback"`
	Script                *string                    `json:"script"`
}

// ToPatch converts the request to a store patch.
func (r *UpdateRunbookRequest) ToPatch() store.RunbookPatch {
	patch := store.RunbookPatch{
		Name:                  r.Name,
		OwnerTeam:             r.OwnerTeam,
		AutoExecuteAllowed:    r.AutoExecuteAllowed,
		SupportedEnvironments: r.SupportedEnvironments,
		TriggerConditions:     r.TriggerConditions,
		RequiredContext:       r.RequiredContext,
		PreChecks:             r.PreChecks,
		Steps:                 r.Steps,
		PostChecks:            r.PostChecks,
		Rollback:              r.Rollback,
		Script:                r.Script,
	}
	if r.Category != nil {
		c := domain.RunbookCategory(*r.Category)
		patch.Category = &c
	}
	if r.RiskLevel != nil {
		rl := domain.RiskLevel(*r.RiskLevel)
		patch.RiskLevel = &rl
	}
	if r.Severity != nil {
		sev := domain.Severity(*r.Severity)
		patch.Severity = &sev
	}
	if r.ApprovalLevelRequired != nil {
		al := domain.ApprovalLevel(*r.ApprovalLevelRequired)
		patch.ApprovalLevelRequired = &al
	}
	return patch
}

// ListRunbooks handles GET /runbooks.
func (h *Handler) ListRunbooks(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.service.List())
}

// GetRunbook handles GET /runbooks/{id}.
func (h *Handler) GetRunbook(w http.ResponseWriter, r *http.Request) {
	rb, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, rb)
}

// CreateRunbook handles POST /runbooks.
func (h *Handler) CreateRunbook(w http.ResponseWriter, r *http.Request) {
	var req RunbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	rb, err := h.service.Create(req.ToDomain())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusCreated, rb)
}

// UpdateRunbook handles PATCH /runbooks/{id}.
func (h *Handler) UpdateRunbook(w http.ResponseWriter, r *http.Request) {
	var req UpdateRunbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	rb, err := h.service.Update(chi.URLParam(r, "id"), req.ToPatch())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusOK, rb)
}

// DuplicateRunbook handles POST /runbooks/{id}/duplicate.
func (h *Handler) DuplicateRunbook(w http.ResponseWriter, r *http.Request) {
	rb, err := h.service.Duplicate(chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	httputil.Success(w, http.StatusCreated, rb)
}

// ExecuteRequest represents the request body for an ad-hoc execution.
type ExecuteRequest struct {
	TargetServers    []string `json:"target_servers" validate:"required,min=1"`
	ExecutionContext string   `json:"execution_context"`
}

// Execute handles POST /runbooks/{id}/execute.
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

	result, err := h.executor.ExecuteRunbookDirect(r.Context(), chi.URLParam(r, "id"), req.TargetServers, req.ExecutionContext)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: orchestration.ErrRunbookNotFound, Status: http.StatusNotFound},
			{Error: orchestration.ErrExecutionInProgress, Status: http.StatusConflict},
		})
		return
	}
	httputil.Success(w, http.StatusOK, result)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: store.ErrNotFound, Status: http.StatusNotFound, Message: "runbook not found"},
		{Error: ErrNoSteps, Status: http.StatusBadRequest},
	})
}
