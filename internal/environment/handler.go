// Package environment exposes the console-wide environment toggle.
package environment

import (
	"encoding/json"
	"net/http"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Store is the subset of store operations the handler needs.
type Store interface {
	Environment() domain.Environment
	SetEnvironment(env domain.Environment)
}

// Handler handles HTTP requests for the environment toggle.
type Handler struct {
	store Store
}

// NewHandler creates a new environment handler.
func NewHandler(st Store) *Handler {
	return &Handler{store: st}
}

// RegisterRoutes registers environment routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/environment", h.GetEnvironment)
	r.Put("/environment", h.SetEnvironment)
}

type environmentPayload struct {
	Environment domain.Environment `json:"environment"`
}

// GetEnvironment handles GET /environment.
func (h *Handler) GetEnvironment(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, environmentPayload{Environment: h.store.Environment()})
}

// SetEnvironment handles PUT /environment.
func (h *Handler) SetEnvironment(w http.ResponseWriter, r *http.Request) {
	var req environmentPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !req.Environment.IsValid() {
		httputil.Error(w, http.StatusBadRequest, "environment must be Production or Staging")
		return
	}

	h.store.SetEnvironment(req.Environment)
	httputil.Success(w, http.StatusOK, environmentPayload{Environment: h.store.Environment()})
}
