// Package notifications exposes the operator notification feed.
package notifications

import (
	"net/http"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/pkg/httputil"
	"github.com/bissquit/runbook-ops/internal/store"
	"github.com/go-chi/chi/v5"
)

// Store is the subset of store operations the handler needs.
type Store interface {
	ListNotifications() []*domain.Notification
	MarkNotificationRead(id string) (*domain.Notification, error)
}

// Handler handles HTTP requests for the notifications module.
type Handler struct {
	store Store
}

// NewHandler creates a new notifications handler.
func NewHandler(st Store) *Handler {
	return &Handler{store: st}
}

// RegisterRoutes registers notification routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Post("/{id}/read", h.MarkRead)
	})
}

// ListNotifications handles GET /notifications. Entries are most recent
// first.
func (h *Handler) ListNotifications(w http.ResponseWriter, _ *http.Request) {
	httputil.Success(w, http.StatusOK, h.store.ListNotifications())
}

// MarkRead handles POST /notifications/{id}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.MarkNotificationRead(chi.URLParam(r, "id"))
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: store.ErrNotFound, Status: http.StatusNotFound, Message: "notification not found"},
		})
		return
	}
	httputil.Success(w, http.StatusOK, n)
}
