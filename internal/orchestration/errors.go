package orchestration

import "errors"

// Pipeline errors. All are raised before any store mutation, except
// context cancellation during the simulated wait, which reverts the
// entity to its prior status.
var (
	ErrIncidentNotFound    = errors.New("incident not found")
	ErrRunbookNotFound     = errors.New("runbook not found")
	ErrJobNotFound         = errors.New("job not found")
	ErrExecutionInProgress = errors.New("an execution is already in progress for this entity")
)
