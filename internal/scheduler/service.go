// Package scheduler manages scheduled jobs. Schedules are display-only
// descriptions; nothing fires automatically. The only way a job runs is
// the explicit execute-now action.
package scheduler

import (
	"errors"
	"fmt"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/store"
)

// ErrInvalidTransition is returned for pause/resume actions that do not
// apply to the job's current status.
var ErrInvalidTransition = errors.New("invalid job status transition")

// Store is the subset of store operations the scheduler needs.
type Store interface {
	ListJobs() []*domain.ScheduledJob
	GetJob(id string) (*domain.ScheduledJob, error)
	UpdateJob(id string, patch store.JobPatch) (*domain.ScheduledJob, error)
}

// Service implements scheduled-job business logic.
type Service struct {
	store Store
}

// NewService creates a new scheduler service.
func NewService(st Store) *Service {
	return &Service{store: st}
}

// List returns all scheduled jobs.
func (s *Service) List() []*domain.ScheduledJob {
	return s.store.ListJobs()
}

// Get returns the job with the given id.
func (s *Service) Get(id string) (*domain.ScheduledJob, error) {
	return s.store.GetJob(id)
}

// Pause moves a job from Scheduled or Completed to Paused.
func (s *Service) Pause(id string) (*domain.ScheduledJob, error) {
	job, err := s.store.GetJob(id)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusScheduled && job.Status != domain.JobStatusCompleted {
		return nil, fmt.Errorf("pause job in status %s: %w", job.Status, ErrInvalidTransition)
	}

	paused := domain.JobStatusPaused
	return s.store.UpdateJob(id, store.JobPatch{Status: &paused})
}

// Resume moves a paused job back to Scheduled.
func (s *Service) Resume(id string) (*domain.ScheduledJob, error) {
	job, err := s.store.GetJob(id)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobStatusPaused {
		return nil, fmt.Errorf("resume job in status %s: %w", job.Status, ErrInvalidTransition)
	}

	scheduled := domain.JobStatusScheduled
	return s.store.UpdateJob(id, store.JobPatch{Status: &scheduled})
}
