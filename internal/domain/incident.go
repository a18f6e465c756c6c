package domain

import "time"

// Environment identifies the deployment environment an entity belongs to.
type Environment string

// Environments.
const (
	EnvironmentProduction Environment = "Production"
	EnvironmentStaging    Environment = "Staging"
)

// IsValid checks if the environment is a known value.
func (e Environment) IsValid() bool {
	return e == EnvironmentProduction || e == EnvironmentStaging
}

// IncidentStatus represents the lifecycle state of an incident.
type IncidentStatus string

// Incident statuses.
const (
	IncidentStatusOpen      IncidentStatus = "Open"
	IncidentStatusExecuting IncidentStatus = "Executing"
	IncidentStatusCompleted IncidentStatus = "Completed"
)

// Severity represents the severity level of an incident or runbook.
type Severity string

// Severity levels.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// IsValid checks if the severity is a known value.
func (s Severity) IsValid() bool {
	return s == SeverityCritical || s == SeverityHigh || s == SeverityMedium || s == SeverityLow
}

// Incident represents a detected infrastructure condition requiring remediation.
type Incident struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Severity         Severity       `json:"severity"`
	Environment      Environment    `json:"environment"`
	AssignedTo       string         `json:"assigned_to"`
	Status           IncidentStatus `json:"status"`
	TriggerCondition string         `json:"trigger_condition"`
	CreatedAt        time.Time      `json:"created_at"`
	RunbookID        *string        `json:"runbook_id,omitempty"`
	Description      string         `json:"description,omitempty"`
}
