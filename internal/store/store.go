// Package store holds the canonical in-memory entity collections: incidents,
// runbooks, execution results, audit entries, scheduled jobs and
// notifications. It is the single source of truth for live state; nothing is
// persisted across restarts.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/pkg/clock"
	"github.com/bissquit/runbook-ops/internal/pkg/metrics"
	"github.com/google/uuid"
)

// Store is a constructor-injected state manager. All access is serialized
// by an internal lock; every mutation is a whole-record merge, so partial
// field races are not possible. Accessors return struct copies; nested
// slices are shared and must be treated as read-only by callers.
type Store struct {
	mu    sync.RWMutex
	clock clock.Clock

	environment   domain.Environment
	incidents     []*domain.Incident
	runbooks      []*domain.Runbook
	results       []*domain.ExecutionResult
	auditLog      []*domain.AuditLogEntry
	jobs          []*domain.ScheduledJob
	notifications []*domain.Notification
}

// New creates an empty store.
func New(clk clock.Clock) *Store {
	return &Store{
		clock:       clk,
		environment: domain.EnvironmentProduction,
	}
}

// NewSeeded creates a store pre-populated with the initial dataset.
func NewSeeded(clk clock.Clock) *Store {
	s := New(clk)
	s.applySeed()
	return s
}

// newID returns a fresh unique identifier with the given entity prefix,
// e.g. "EXEC-9F8A2C41".
func newID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.NewString()[:8]))
}

// Environment returns the currently selected environment.
func (s *Store) Environment() domain.Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.environment
}

// SetEnvironment switches the currently selected environment.
func (s *Store) SetEnvironment(env domain.Environment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environment = env
}

// ListIncidents returns all incidents in insertion order.
func (s *Store) ListIncidents() []*domain.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Incident, 0, len(s.incidents))
	for _, inc := range s.incidents {
		c := *inc
		out = append(out, &c)
	}
	return out
}

// GetIncident returns the incident with the given id.
func (s *Store) GetIncident(id string) (*domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inc := range s.incidents {
		if inc.ID == id {
			c := *inc
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// IncidentPatch holds optional incident fields for a shallow-merge update.
// Nil fields are left unchanged.
type IncidentPatch struct {
	Status     *domain.IncidentStatus
	AssignedTo *string
	RunbookID  *string
}

// UpdateIncident merges the patch into the incident with the given id.
// The store is left unchanged if the incident does not exist.
func (s *Store) UpdateIncident(id string, patch IncidentPatch) (*domain.Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inc := range s.incidents {
		if inc.ID != id {
			continue
		}
		if patch.Status != nil {
			inc.Status = *patch.Status
		}
		if patch.AssignedTo != nil {
			inc.AssignedTo = *patch.AssignedTo
		}
		if patch.RunbookID != nil {
			rb := *patch.RunbookID
			inc.RunbookID = &rb
		}
		c := *inc
		return &c, nil
	}
	return nil, ErrNotFound
}

// ListRunbooks returns all runbooks in insertion order.
func (s *Store) ListRunbooks() []*domain.Runbook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Runbook, 0, len(s.runbooks))
	for _, rb := range s.runbooks {
		c := *rb
		out = append(out, &c)
	}
	return out
}

// GetRunbook returns the runbook with the given id.
func (s *Store) GetRunbook(id string) (*domain.Runbook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rb := range s.runbooks {
		if rb.ID == id {
			c := *rb
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// AddRunbook appends a runbook. A fresh id is assigned when empty, and
// LastModified is stamped with the current time.
func (s *Store) AddRunbook(rb *domain.Runbook) *domain.Runbook {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rb.ID == "" {
		rb.ID = newID("RB")
	}
	rb.LastModified = s.clock.Now()
	c := *rb
	s.runbooks = append(s.runbooks, &c)
	return rb
}

// RunbookPatch holds optional runbook fields for a shallow-merge update.
// Nil fields are left unchanged.
type RunbookPatch struct {
	Name                  *string
	Category              *domain.RunbookCategory
	RiskLevel             *domain.RiskLevel
	Severity              *domain.Severity
	OwnerTeam             *string
	AutoExecuteAllowed    *bool
	ApprovalLevelRequired *domain.ApprovalLevel
	SupportedEnvironments *[]domain.Environment
	TriggerConditions     *[]domain.TriggerCondition
	RequiredContext       *[]string
	PreChecks             *[]domain.CheckAssertion
	Steps                 *[]domain.RunbookStep
	PostChecks            *[]domain.CheckAssertion
	Rollback              *domain.RollbackPlan
	Script                *string
}

// UpdateRunbook merges the patch into the runbook with the given id and
// stamps LastModified. The store is left unchanged if the runbook does
// not exist.
func (s *Store) UpdateRunbook(id string, patch RunbookPatch) (*domain.Runbook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rb := range s.runbooks {
		if rb.ID != id {
			continue
		}
		applyRunbookPatch(rb, patch)
		rb.LastModified = s.clock.Now()
		c := *rb
		return &c, nil
	}
	return nil, ErrNotFound
}

func applyRunbookPatch(rb *domain.Runbook, patch RunbookPatch) {
	if patch.Name != nil {
		rb.Name = *patch.Name
	}
	if patch.Category != nil {
		rb.Category = *patch.Category
	}
	if patch.RiskLevel != nil {
		rb.RiskLevel = *patch.RiskLevel
	}
	if patch.Severity != nil {
		rb.Severity = *patch.Severity
	}
	if patch.OwnerTeam != nil {
		rb.OwnerTeam = *patch.OwnerTeam
	}
	if patch.AutoExecuteAllowed != nil {
		rb.AutoExecuteAllowed = *patch.AutoExecuteAllowed
	}
	if patch.ApprovalLevelRequired != nil {
		rb.ApprovalLevelRequired = *patch.ApprovalLevelRequired
	}
	if patch.SupportedEnvironments != nil {
		rb.SupportedEnvironments = *patch.SupportedEnvironments
	}
	if patch.TriggerConditions != nil {
		rb.TriggerConditions = *patch.TriggerConditions
	}
	if patch.RequiredContext != nil {
		rb.RequiredContext = *patch.RequiredContext
	}
	if patch.PreChecks != nil {
		rb.PreChecks = *patch.PreChecks
	}
	if patch.Steps != nil {
		rb.Steps = *patch.Steps
	}
	if patch.PostChecks != nil {
		rb.PostChecks = *patch.PostChecks
	}
	if patch.Rollback != nil {
		rb.Rollback = *patch.Rollback
	}
	if patch.Script != nil {
		rb.Script = *patch.Script
	}
}

// AppendExecutionResult appends an execution result. A fresh id is
// assigned when empty.
func (s *Store) AppendExecutionResult(res *domain.ExecutionResult) *domain.ExecutionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res.ID == "" {
		res.ID = newID("EXEC")
	}
	c := *res
	s.results = append(s.results, &c)
	return res
}

// ListExecutionResults returns all execution results in insertion order.
func (s *Store) ListExecutionResults() []*domain.ExecutionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ExecutionResult, 0, len(s.results))
	for _, res := range s.results {
		c := *res
		out = append(out, &c)
	}
	return out
}

// GetExecutionResult returns the execution result with the given id.
func (s *Store) GetExecutionResult(id string) (*domain.ExecutionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, res := range s.results {
		if res.ID == id {
			c := *res
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// AppendAuditEntry appends an audit log entry. A fresh id is assigned
// when empty.
func (s *Store) AppendAuditEntry(entry *domain.AuditLogEntry) *domain.AuditLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = newID("AUDIT")
	}
	c := *entry
	s.auditLog = append(s.auditLog, &c)
	return entry
}

// ListAuditLog returns all audit entries in insertion order.
func (s *Store) ListAuditLog() []*domain.AuditLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.AuditLogEntry, 0, len(s.auditLog))
	for _, entry := range s.auditLog {
		c := *entry
		out = append(out, &c)
	}
	return out
}

// GetAuditEntry returns the audit entry with the given id.
func (s *Store) GetAuditEntry(id string) (*domain.AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.auditLog {
		if entry.ID == id {
			c := *entry
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// ListJobs returns all scheduled jobs in insertion order.
func (s *Store) ListJobs() []*domain.ScheduledJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ScheduledJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		c := *job
		out = append(out, &c)
	}
	return out
}

// GetJob returns the scheduled job with the given id.
func (s *Store) GetJob(id string) (*domain.ScheduledJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.ID == id {
			c := *job
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// JobPatch holds optional scheduled-job fields for a shallow-merge update.
// Nil fields are left unchanged.
type JobPatch struct {
	Status  *domain.JobStatus
	LastRun *time.Time
	NextRun *time.Time
}

// UpdateJob merges the patch into the job with the given id. The store is
// left unchanged if the job does not exist.
func (s *Store) UpdateJob(id string, patch JobPatch) (*domain.ScheduledJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.ID != id {
			continue
		}
		if patch.Status != nil {
			job.Status = *patch.Status
		}
		if patch.LastRun != nil {
			lr := *patch.LastRun
			job.LastRun = &lr
		}
		if patch.NextRun != nil {
			job.NextRun = *patch.NextRun
		}
		c := *job
		return &c, nil
	}
	return nil, ErrNotFound
}

// ListNotifications returns notifications, most recent first.
func (s *Store) ListNotifications() []*domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		c := *n
		out = append(out, &c)
	}
	return out
}

// AddNotification assigns a fresh id and prepends the notification so the
// list stays most-recent-first.
func (s *Store) AddNotification(n domain.Notification) *domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = newID("NOTIF")
	c := n
	s.notifications = append([]*domain.Notification{&c}, s.notifications...)
	s.updateUnreadGauge()
	return &n
}

// MarkNotificationRead sets the read flag on the notification with the
// given id.
func (s *Store) MarkNotificationRead(id string) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == id {
			n.Read = true
			s.updateUnreadGauge()
			c := *n
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// updateUnreadGauge must be called with the lock held.
func (s *Store) updateUnreadGauge() {
	unread := 0
	for _, n := range s.notifications {
		if !n.Read {
			unread++
		}
	}
	metrics.UnreadNotifications.Set(float64(unread))
}
