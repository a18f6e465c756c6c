package domain

import "time"

// Outcome represents the overall result of a runbook execution.
type Outcome string

// Execution outcomes.
const (
	OutcomeSuccess Outcome = "Success"
	OutcomePartial Outcome = "Partial"
	OutcomeFailure Outcome = "Failure"
)

// StepStatus represents the result of a single executed step.
type StepStatus string

// Step statuses.
const (
	StepStatusSuccess StepStatus = "Success"
	StepStatusFailure StepStatus = "Failure"
	StepStatusSkipped StepStatus = "Skipped"
)

// StepResult records the outcome of one runbook step within an execution.
type StepResult struct {
	StepID      string     `json:"step_id"`
	Description string     `json:"description"`
	Status      StepStatus `json:"status"`
	Output      string     `json:"output,omitempty"`
	Duration    string     `json:"duration"`
}

// ExecutionResult is the immutable record of one simulated runbook run.
// StepsExecuted has exactly one entry per runbook step, in step order.
type ExecutionResult struct {
	ID               string       `json:"id"`
	IncidentID       string       `json:"incident_id"`
	RunbookID        string       `json:"runbook_id"`
	RunbookName      string       `json:"runbook_name"`
	Environment      Environment  `json:"environment"`
	RunnerID         string       `json:"runner_id"`
	ApprovedBy       string       `json:"approved_by"`
	ExecutedBy       string       `json:"executed_by"`
	StartTime        time.Time    `json:"start_time"`
	EndTime          time.Time    `json:"end_time"`
	Duration         string       `json:"duration"`
	Outcome          Outcome      `json:"outcome"`
	TargetServers    []string     `json:"target_servers,omitempty"`
	ExecutionContext string       `json:"execution_context,omitempty"`
	StepsExecuted    []StepResult `json:"steps_executed"`
	ExecutionLogs    []string     `json:"execution_logs"`
	SystemLogs       []string     `json:"system_logs"`
	RawOutput        string       `json:"raw_output"`
}

// AuditLogEntry is the compliance-facing summary record created atomically
// with an execution result, linked 1:1 via ExecutionID.
type AuditLogEntry struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Environment Environment `json:"environment"`
	IncidentID  string      `json:"incident_id"`
	RunbookName string      `json:"runbook_name"`
	ApprovedBy  string      `json:"approved_by"`
	ExecutedBy  string      `json:"executed_by"`
	Outcome     Outcome     `json:"outcome"`
	ExecutionID string      `json:"execution_id"`
}
