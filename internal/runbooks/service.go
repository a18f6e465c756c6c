// Package runbooks provides catalog operations for remediation runbooks.
package runbooks

import (
	"fmt"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/store"
)

// Store is the subset of store operations the catalog needs.
type Store interface {
	ListRunbooks() []*domain.Runbook
	GetRunbook(id string) (*domain.Runbook, error)
	AddRunbook(rb *domain.Runbook) *domain.Runbook
	UpdateRunbook(id string, patch store.RunbookPatch) (*domain.Runbook, error)
}

// Service implements runbook catalog business logic.
type Service struct {
	store Store
}

// NewService creates a new runbook catalog service.
func NewService(st Store) *Service {
	return &Service{store: st}
}

// List returns all runbooks.
func (s *Service) List() []*domain.Runbook {
	return s.store.ListRunbooks()
}

// Get returns the runbook with the given id.
func (s *Service) Get(id string) (*domain.Runbook, error) {
	return s.store.GetRunbook(id)
}

// Create validates and appends a new runbook. An executable runbook must
// have at least one step.
func (s *Service) Create(rb *domain.Runbook) (*domain.Runbook, error) {
	if !rb.Category.IsValid() {
		return nil, fmt.Errorf("invalid category: %s", rb.Category)
	}
	if len(rb.Steps) == 0 {
		return nil, ErrNoSteps
	}
	return s.store.AddRunbook(rb), nil
}

// Update merges the patch into an existing runbook.
func (s *Service) Update(id string, patch store.RunbookPatch) (*domain.Runbook, error) {
	if patch.Steps != nil && len(*patch.Steps) == 0 {
		return nil, ErrNoSteps
	}
	return s.store.UpdateRunbook(id, patch)
}

// Duplicate copies an existing runbook under a fresh id with the name
// suffixed "(Copy)".
func (s *Service) Duplicate(id string) (*domain.Runbook, error) {
	rb, err := s.store.GetRunbook(id)
	if err != nil {
		return nil, fmt.Errorf("resolve runbook %s: %w", id, err)
	}

	copied := *rb
	copied.ID = ""
	copied.Name = rb.Name + " (Copy)"
	return s.store.AddRunbook(&copied), nil
}
