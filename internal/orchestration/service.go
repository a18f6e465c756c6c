// Package orchestration implements the simulated runbook execution pipeline.
// A pipeline run transitions an incident or scheduled job through
// Executing to Completed, producing an immutable execution result, exactly
// one linked audit entry and a completion notification. The "remote
// execution" is a fixed simulated wait; once the wait completes the run
// cannot fail.
package orchestration

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/pkg/clock"
	"github.com/bissquit/runbook-ops/internal/pkg/ctxlog"
	"github.com/bissquit/runbook-ops/internal/store"
)

// Fixed identities recorded on every simulated execution.
const (
	defaultRunnerID = "runner-prod-01"
	defaultOperator = "Admin User"
)

// Store is the subset of store operations the pipeline needs.
type Store interface {
	Environment() domain.Environment
	GetIncident(id string) (*domain.Incident, error)
	UpdateIncident(id string, patch store.IncidentPatch) (*domain.Incident, error)
	GetRunbook(id string) (*domain.Runbook, error)
	GetJob(id string) (*domain.ScheduledJob, error)
	UpdateJob(id string, patch store.JobPatch) (*domain.ScheduledJob, error)
	AppendExecutionResult(res *domain.ExecutionResult) *domain.ExecutionResult
	AppendAuditEntry(entry *domain.AuditLogEntry) *domain.AuditLogEntry
	AddNotification(n domain.Notification) *domain.Notification
}

// Config holds pipeline settings.
type Config struct {
	// SimulatedLatency is the fixed wait representing remote execution.
	SimulatedLatency time.Duration
}

// Service orchestrates simulated runbook executions. It holds no entity
// state of its own; the in-flight set only guards against overlapping
// executions on the same incident or job.
type Service struct {
	store  Store
	clock  clock.Clock
	config Config

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService creates a new pipeline service.
func NewService(st Store, clk clock.Clock, cfg Config) *Service {
	return &Service{
		store:    st,
		clock:    clk,
		config:   cfg,
		inFlight: make(map[string]struct{}),
	}
}

// acquire marks the entity id as executing. Returns ErrExecutionInProgress
// if another run already holds it.
func (s *Service) acquire(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.inFlight[id]; held {
		return ErrExecutionInProgress
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *Service) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// wait suspends for the simulated latency window. This is the pipeline's
// only suspension point. On cancellation the caller reverts the entity it
// already transitioned.
func (s *Service) wait(ctx context.Context) error {
	executionsInFlight.Inc()
	defer executionsInFlight.Dec()

	select {
	case <-s.clock.After(s.config.SimulatedLatency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExecuteRunbook simulates running a runbook against an incident. The
// incident transitions Open -> Executing -> Completed; an execution
// result, exactly one audit entry and a completion notification are
// appended. Resolution failures abort before any mutation.
func (s *Service) ExecuteRunbook(ctx context.Context, incidentID, runbookID string) (*domain.ExecutionResult, error) {
	incident, err := s.store.GetIncident(incidentID)
	if err != nil {
		return nil, fmt.Errorf("resolve incident %s: %w", incidentID, ErrIncidentNotFound)
	}
	runbook, err := s.store.GetRunbook(runbookID)
	if err != nil {
		return nil, fmt.Errorf("resolve runbook %s: %w", runbookID, ErrRunbookNotFound)
	}

	if err := s.acquire(incidentID); err != nil {
		return nil, err
	}
	defer s.release(incidentID)

	started := s.clock.Now()

	executing := domain.IncidentStatusExecuting
	if _, err := s.store.UpdateIncident(incidentID, store.IncidentPatch{
		Status:    &executing,
		RunbookID: &runbookID,
	}); err != nil {
		return nil, fmt.Errorf("mark incident executing: %w", err)
	}

	if err := s.wait(ctx); err != nil {
		prior := incident.Status
		if _, revertErr := s.store.UpdateIncident(incidentID, store.IncidentPatch{Status: &prior}); revertErr != nil {
			ctxlog.FromContext(ctx).Error("failed to revert incident status", "incident_id", incidentID, "error", revertErr)
		}
		return nil, fmt.Errorf("execution cancelled: %w", err)
	}

	result := s.buildResult(incident, runbook, resultOptions{})
	s.store.AppendExecutionResult(result)
	s.store.AppendAuditEntry(buildAuditEntry(incident, runbook, result))

	completed := domain.IncidentStatusCompleted
	if _, err := s.store.UpdateIncident(incidentID, store.IncidentPatch{Status: &completed}); err != nil {
		return nil, fmt.Errorf("mark incident completed: %w", err)
	}

	s.store.AddNotification(domain.Notification{
		Type:      domain.NotificationExecutionCompleted,
		Title:     "Execution Completed",
		Message:   fmt.Sprintf("Runbook %q completed for incident %s", runbook.Name, incidentID),
		Timestamp: s.clock.Now(),
		Link:      "/results/" + result.ID,
	})

	recordExecution("incident", string(result.Outcome), s.clock.Now().Sub(started))

	ctxlog.FromContext(ctx).Info("runbook execution completed",
		"incident_id", incidentID,
		"runbook_id", runbookID,
		"execution_id", result.ID,
		"outcome", result.Outcome,
	)

	return result, nil
}

// ExecuteRunbookDirect simulates an ad-hoc execution not tied to an
// existing incident. A transient incident record is synthesized for
// bookkeeping only and never persisted; the result carries the selected
// target servers and free-text execution context.
func (s *Service) ExecuteRunbookDirect(ctx context.Context, runbookID string, targetServers []string, executionContext string) (*domain.ExecutionResult, error) {
	runbook, err := s.store.GetRunbook(runbookID)
	if err != nil {
		return nil, fmt.Errorf("resolve runbook %s: %w", runbookID, ErrRunbookNotFound)
	}

	if err := s.acquire(runbookID); err != nil {
		return nil, err
	}
	defer s.release(runbookID)

	started := s.clock.Now()

	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("execution cancelled: %w", err)
	}

	now := s.clock.Now()
	transient := &domain.Incident{
		ID:               "ADHOC-" + runbookID,
		Title:            runbook.Name,
		Severity:         domain.SeverityMedium,
		Environment:      s.store.Environment(),
		AssignedTo:       defaultOperator,
		Status:           domain.IncidentStatusCompleted,
		TriggerCondition: "Manual execution",
		CreatedAt:        now,
	}

	result := s.buildResult(transient, runbook, resultOptions{
		TargetServers:    targetServers,
		ExecutionContext: executionContext,
	})
	s.store.AppendExecutionResult(result)
	s.store.AppendAuditEntry(buildAuditEntry(transient, runbook, result))

	s.store.AddNotification(domain.Notification{
		Type:      domain.NotificationExecutionCompleted,
		Title:     "Execution Completed",
		Message:   fmt.Sprintf("Runbook %q completed", runbook.Name),
		Timestamp: s.clock.Now(),
		Link:      "/results/" + result.ID,
	})

	recordExecution("direct", string(result.Outcome), s.clock.Now().Sub(started))

	ctxlog.FromContext(ctx).Info("direct runbook execution completed",
		"runbook_id", runbookID,
		"execution_id", result.ID,
		"target_servers", targetServers,
	)

	return result, nil
}

// ExecuteJobNow simulates an immediate run of a scheduled job. The job
// transitions to Executing and then Completed with LastRun stamped; the
// synthesized incident exists only to satisfy the result shape and is
// never added to the incident collection.
func (s *Service) ExecuteJobNow(ctx context.Context, jobID string) (*domain.ExecutionResult, error) {
	job, err := s.store.GetJob(jobID)
	if err != nil {
		return nil, fmt.Errorf("resolve job %s: %w", jobID, ErrJobNotFound)
	}
	runbook, err := s.store.GetRunbook(job.RunbookID)
	if err != nil {
		return nil, fmt.Errorf("resolve runbook %s: %w", job.RunbookID, ErrRunbookNotFound)
	}

	if err := s.acquire(jobID); err != nil {
		return nil, err
	}
	defer s.release(jobID)

	started := s.clock.Now()

	executing := domain.JobStatusExecuting
	if _, err := s.store.UpdateJob(jobID, store.JobPatch{Status: &executing}); err != nil {
		return nil, fmt.Errorf("mark job executing: %w", err)
	}

	if err := s.wait(ctx); err != nil {
		prior := job.Status
		if _, revertErr := s.store.UpdateJob(jobID, store.JobPatch{Status: &prior}); revertErr != nil {
			ctxlog.FromContext(ctx).Error("failed to revert job status", "job_id", jobID, "error", revertErr)
		}
		return nil, fmt.Errorf("execution cancelled: %w", err)
	}

	now := s.clock.Now()
	synthetic := &domain.Incident{
		ID:               "JOB-" + jobID,
		Title:            job.Name,
		Severity:         domain.SeverityMedium,
		Environment:      job.Environment,
		AssignedTo:       "System",
		Status:           domain.IncidentStatusCompleted,
		TriggerCondition: "Scheduled execution",
		CreatedAt:        now,
	}

	result := s.buildResult(synthetic, runbook, resultOptions{})
	s.store.AppendExecutionResult(result)
	s.store.AppendAuditEntry(buildAuditEntry(synthetic, runbook, result))

	completed := domain.JobStatusCompleted
	lastRun := s.clock.Now()
	if _, err := s.store.UpdateJob(jobID, store.JobPatch{Status: &completed, LastRun: &lastRun}); err != nil {
		return nil, fmt.Errorf("mark job completed: %w", err)
	}

	recordExecution("job", string(result.Outcome), s.clock.Now().Sub(started))

	ctxlog.FromContext(ctx).Info("job execution completed",
		"job_id", jobID,
		"runbook_id", job.RunbookID,
		"execution_id", result.ID,
	)

	return result, nil
}

type resultOptions struct {
	TargetServers    []string
	ExecutionContext string
}

// buildResult fabricates the execution record for a simulated run. The
// start time is a fixed 45s approximation, deliberately independent of
// the real elapsed wait, and the outcome is always Success on this path.
func (s *Service) buildResult(incident *domain.Incident, runbook *domain.Runbook, opts resultOptions) *domain.ExecutionResult {
	now := s.clock.Now()
	startTime := now.Add(-45 * time.Second)

	steps := make([]domain.StepResult, 0, len(runbook.Steps))
	for i, step := range runbook.Steps {
		steps = append(steps, domain.StepResult{
			StepID:      step.ID,
			Description: step.Description,
			Status:      domain.StepStatusSuccess,
			Output:      fmt.Sprintf("Step %d completed successfully", i+1),
			Duration:    fmt.Sprintf("%ds", rand.IntN(10)+2),
		})
	}

	executionLogs := make([]string, 0, len(runbook.Steps)+4)
	executionLogs = append(executionLogs,
		fmt.Sprintf("[%s] Execution started", startTime.Format(time.RFC3339)),
		fmt.Sprintf("[%s] Pre-checks passed", startTime.Format(time.RFC3339)),
	)
	for i, step := range runbook.Steps {
		offset := startTime.Add(time.Duration(i+1) * 10 * time.Second)
		executionLogs = append(executionLogs, fmt.Sprintf("[%s] %s - OK", offset.Format(time.RFC3339), step.Description))
	}
	executionLogs = append(executionLogs,
		fmt.Sprintf("[%s] Post-checks passed", now.Format(time.RFC3339)),
		fmt.Sprintf("[%s] Execution completed successfully", now.Format(time.RFC3339)),
	)

	systemLogs := []string{
		"[INFO] Authentication verified for user: " + defaultOperator,
		"[INFO] Approval chain validated: Senior Engineer -> Admin",
		"[INFO] Environment check passed: " + string(incident.Environment),
		"[INFO] Runbook version: 1.2.3",
		"[INFO] Policy compliance: SOC2, ISO27001 - PASSED",
		"[INFO] Least-privilege check: PASSED",
		"[INFO] No destructive commands detected",
	}

	var raw strings.Builder
	for i, step := range runbook.Steps {
		params, _ := json.Marshal(step.Parameters)
		if i > 0 {
			raw.WriteString("\n")
		}
		fmt.Fprintf(&raw, "=== Step %d: %s ===\nAction: %s\nParameters: %s\nResult: Success\nOutput: Operation completed\n",
			i+1, step.Description, step.Action, params)
	}

	return &domain.ExecutionResult{
		IncidentID:       incident.ID,
		RunbookID:        runbook.ID,
		RunbookName:      runbook.Name,
		Environment:      incident.Environment,
		RunnerID:         defaultRunnerID,
		ApprovedBy:       defaultOperator,
		ExecutedBy:       defaultOperator,
		StartTime:        startTime,
		EndTime:          now,
		Duration:         "45s",
		Outcome:          domain.OutcomeSuccess,
		TargetServers:    opts.TargetServers,
		ExecutionContext: opts.ExecutionContext,
		StepsExecuted:    steps,
		ExecutionLogs:    executionLogs,
		SystemLogs:       systemLogs,
		RawOutput:        raw.String(),
	}
}

// buildAuditEntry derives the 1:1 audit record from an execution result.
// The id is assigned by the store on append.
func buildAuditEntry(incident *domain.Incident, runbook *domain.Runbook, result *domain.ExecutionResult) *domain.AuditLogEntry {
	return &domain.AuditLogEntry{
		Timestamp:   result.EndTime,
		Environment: incident.Environment,
		IncidentID:  incident.ID,
		RunbookName: runbook.Name,
		ApprovedBy:  result.ApprovedBy,
		ExecutedBy:  result.ExecutedBy,
		Outcome:     result.Outcome,
		ExecutionID: result.ID,
	}
}
