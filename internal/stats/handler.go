package stats

import (
	"net/http"

	"github.com/bissquit/runbook-ops/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler handles HTTP requests for dashboard statistics.
type Handler struct {
	aggregator *Aggregator
}

// NewHandler creates a new stats handler.
func NewHandler(aggregator *Aggregator) *Handler {
	return &Handler{aggregator: aggregator}
}

// RegisterRoutes registers statistics routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats/dashboard", h.Dashboard)
}

// Dashboard handles GET /stats/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.aggregator.Dashboard())
}
