package domain

import "time"

// JobStatus represents the state of a scheduled job.
type JobStatus string

// Job statuses.
const (
	JobStatusScheduled JobStatus = "Scheduled"
	JobStatusPaused    JobStatus = "Paused"
	JobStatusExecuting JobStatus = "Executing"
	JobStatusCompleted JobStatus = "Completed"
)

// ScheduledJob binds a runbook to a recurring schedule. The schedule is a
// display-only description and is never parsed or fired automatically.
type ScheduledJob struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	RunbookID   string      `json:"runbook_id"`
	Schedule    string      `json:"schedule"`
	NextRun     time.Time   `json:"next_run"`
	LastRun     *time.Time  `json:"last_run,omitempty"`
	Status      JobStatus   `json:"status"`
	Environment Environment `json:"environment"`
}
