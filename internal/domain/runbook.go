package domain

import "time"

// RunbookCategory classifies what a runbook operates on.
type RunbookCategory string

// Runbook categories.
const (
	CategoryInfrastructure RunbookCategory = "Infrastructure"
	CategoryApplication    RunbookCategory = "Application"
	CategorySecurity       RunbookCategory = "Security"
	CategoryMaintenance    RunbookCategory = "Maintenance"
)

// IsValid checks if the category is a known value.
func (c RunbookCategory) IsValid() bool {
	return c == CategoryInfrastructure || c == CategoryApplication ||
		c == CategorySecurity || c == CategoryMaintenance
}

// RiskLevel represents the operational risk of executing a runbook.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ApprovalLevel is the minimum role required to approve an execution.
type ApprovalLevel string

// Approval levels.
const (
	ApprovalEngineer       ApprovalLevel = "Engineer"
	ApprovalSeniorEngineer ApprovalLevel = "Senior Engineer"
	ApprovalAdmin          ApprovalLevel = "Admin"
)

// TriggerCondition describes a metric or event condition that suggests a runbook.
type TriggerCondition struct {
	Type     string `json:"type"` // "metric" or "event"
	Name     string `json:"name"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// CheckAssertion is a pre- or post-execution check paired with its expected value.
type CheckAssertion struct {
	Check    string `json:"check"`
	Expected string `json:"expected"`
}

// RunbookStep is a single ordered action within a runbook.
type RunbookStep struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Action      string            `json:"action"`
	Parameters  map[string]string `json:"parameters"`
}

// RollbackPlan describes what to do when a runbook execution goes wrong.
type RollbackPlan struct {
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
	Notify      []string `json:"notify"`
}

// Runbook is a named, ordered remediation procedure with pre/post checks
// and a rollback plan. Steps must be non-empty for an executable runbook.
type Runbook struct {
	ID                    string             `json:"id"`
	Name                  string             `json:"name"`
	Category              RunbookCategory    `json:"category"`
	RiskLevel             RiskLevel          `json:"risk_level"`
	Severity              Severity           `json:"severity"`
	LastModified          time.Time          `json:"last_modified"`
	OwnerTeam             string             `json:"owner_team"`
	AutoExecuteAllowed    bool               `json:"auto_execute_allowed"`
	ApprovalLevelRequired ApprovalLevel      `json:"approval_level_required"`
	SupportedEnvironments []Environment      `json:"supported_environments"`
	TriggerConditions     []TriggerCondition `json:"trigger_conditions"`
	RequiredContext       []string           `json:"required_context"`
	PreChecks             []CheckAssertion   `json:"pre_checks"`
	Steps                 []RunbookStep      `json:"steps"`
	PostChecks            []CheckAssertion   `json:"post_checks"`
	Rollback              RollbackPlan       `json:"rollback"`
	Script                string             `json:"script,omitempty"`
}
