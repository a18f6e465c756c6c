// Package history generates thirty days of synthetic past executions and
// audit entries for dashboard analytics. The generated pool is disjoint
// from the live store and is never mutated after generation.
package history

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/pkg/clock"
)

const windowDays = 30

// Archetype describes one recurring incident pattern with its remediation
// runbook, how often it occurred in the window, and how reliably the
// runbook resolved it.
type Archetype struct {
	Title       string
	RunbookID   string
	RunbookName string
	Frequency   int
	SuccessRate float64
}

var archetypes = []Archetype{
	{Title: "Disk Usage Critical", RunbookID: "RB-001", RunbookName: "Disk Cleanup", Frequency: 34, SuccessRate: 0.97},
	{Title: "Service Unresponsive", RunbookID: "RB-002", RunbookName: "Service Restart", Frequency: 28, SuccessRate: 0.94},
	{Title: "High Memory Usage", RunbookID: "RB-003", RunbookName: "High Memory Remediation", Frequency: 22, SuccessRate: 0.91},
	{Title: "CPU Spike Detected", RunbookID: "RB-004", RunbookName: "CPU Spike Mitigation", Frequency: 18, SuccessRate: 0.95},
	{Title: "Certificate Expiring", RunbookID: "RB-005", RunbookName: "Certificate Renewal", Frequency: 12, SuccessRate: 0.99},
	{Title: "Access Revocation Required", RunbookID: "RB-006", RunbookName: "User Access Revocation", Frequency: 8, SuccessRate: 1.0},
}

// Archetypes returns the fixed archetype metadata, ordered by descending
// frequency.
func Archetypes() []Archetype {
	return slices.Clone(archetypes)
}

var (
	productionServers = []string{
		"prod-app-01", "prod-app-02", "prod-app-03",
		"prod-db-01", "prod-db-02",
		"prod-web-01", "prod-web-02",
		"prod-cache-01",
	}
	approvers = []string{"Admin User", "Sarah Chen", "Mike Johnson", "Emily Rodriguez"}
	executors = []string{"Admin User", "Sarah Chen", "Mike Johnson", "Emily Rodriguez", "System"}
)

var executionContexts = map[string][]string{
	"Disk Usage Critical": {
		"Log files consuming excessive space",
		"Temporary files not being cleaned",
		"Database dump files accumulated",
		"Application cache overflow",
	},
	"Service Unresponsive": {
		"Service stopped responding after deployment",
		"Memory leak causing slowdown",
		"Connection pool exhausted",
		"Upstream dependency timeout",
	},
	"High Memory Usage": {
		"Batch job consuming memory",
		"Memory leak in worker process",
		"Cache eviction not working",
		"Large dataset loaded in memory",
	},
	"CPU Spike Detected": {
		"Runaway process detected",
		"Unexpected traffic spike",
		"Inefficient query execution",
		"Background job overload",
	},
	"Certificate Expiring": {
		"Automated renewal failed",
		"Certificate mismatch detected",
		"Expiry notification triggered",
	},
	"Access Revocation Required": {
		"Employee termination",
		"Role change requested",
		"Security policy enforcement",
	},
}

// Dataset holds the generated historical pool. Both slices are sorted
// descending by time.
type Dataset struct {
	AuditLog []*domain.AuditLogEntry
	Results  []*domain.ExecutionResult
}

// Generator produces a deterministic-shape historical dataset. The same
// seed and clock yield the same dataset.
type Generator struct {
	clock clock.Clock
	rng   *rand.Rand
}

// NewGenerator creates a generator with a seeded source.
func NewGenerator(clk clock.Clock, seed uint64) *Generator {
	return &Generator{
		clock: clk,
		rng:   rand.New(rand.NewPCG(seed, seed)),
	}
}

// Generate builds the historical pool: one execution result plus audit
// entry per archetype occurrence, spread evenly over the trailing thirty
// days, and fifteen audit-only staging entries.
func (g *Generator) Generate() *Dataset {
	now := g.clock.Now()
	windowStart := now.Add(-windowDays * 24 * time.Hour)
	window := now.Sub(windowStart)

	ds := &Dataset{}
	executionID := 1000

	for _, a := range archetypes {
		for i := 0; i < a.Frequency; i++ {
			executionID++

			startTime := windowStart.Add(time.Duration(float64(i) / float64(a.Frequency) * float64(window)))
			duration := g.rng.IntN(120) + 30
			endTime := startTime.Add(time.Duration(duration) * time.Second)
			outcome := g.drawOutcome(a.SuccessRate)

			server := productionServers[g.rng.IntN(len(productionServers))]
			approver := approvers[g.rng.IntN(len(approvers))]
			executor := executors[g.rng.IntN(len(executors))]

			incidentID := fmt.Sprintf("INC-%d", 1000+executionID)
			execID := fmt.Sprintf("EXEC-%d", executionID)

			ds.AuditLog = append(ds.AuditLog, &domain.AuditLogEntry{
				ID:          fmt.Sprintf("AUDIT-%d", executionID),
				Timestamp:   endTime,
				Environment: domain.EnvironmentProduction,
				IncidentID:  incidentID,
				RunbookName: a.RunbookName,
				ApprovedBy:  approver,
				ExecutedBy:  executor,
				Outcome:     outcome,
				ExecutionID: execID,
			})

			ds.Results = append(ds.Results, &domain.ExecutionResult{
				ID:               execID,
				IncidentID:       incidentID,
				RunbookID:        a.RunbookID,
				RunbookName:      a.RunbookName,
				Environment:      domain.EnvironmentProduction,
				RunnerID:         "runner-" + server,
				ApprovedBy:       approver,
				ExecutedBy:       executor,
				StartTime:        startTime,
				EndTime:          endTime,
				Duration:         fmt.Sprintf("%ds", duration),
				Outcome:          outcome,
				TargetServers:    []string{server},
				ExecutionContext: g.pickContext(a.Title),
				StepsExecuted:    buildSteps(outcome, duration),
				ExecutionLogs: []string{
					fmt.Sprintf("[%s] Execution started on %s", startTime.UTC().Format(time.RFC3339), server),
					fmt.Sprintf("[%s] Pre-checks passed", startTime.UTC().Format(time.RFC3339)),
					fmt.Sprintf("[%s] Execution %s", endTime.UTC().Format(time.RFC3339), lower(outcome)),
				},
				SystemLogs: []string{
					fmt.Sprintf("[INFO] Target server: %s", server),
					fmt.Sprintf("[INFO] Approved by: %s", approver),
					"[INFO] Policy compliance: PASSED",
				},
				RawOutput: fmt.Sprintf("=== Execution on %s ===\nOutcome: %s\nDuration: %ds", server, outcome, duration),
			})
		}
	}

	// Staging runs are audit-only; no execution result is retained.
	for i := 0; i < 15; i++ {
		executionID++

		timestamp := windowStart.Add(time.Duration(g.rng.Float64() * float64(window)))
		a := archetypes[g.rng.IntN(len(archetypes))]

		ds.AuditLog = append(ds.AuditLog, &domain.AuditLogEntry{
			ID:          fmt.Sprintf("AUDIT-%d", executionID),
			Timestamp:   timestamp,
			Environment: domain.EnvironmentStaging,
			IncidentID:  fmt.Sprintf("INC-STG-%d", executionID),
			RunbookName: a.RunbookName,
			ApprovedBy:  approvers[g.rng.IntN(len(approvers))],
			ExecutedBy:  executors[g.rng.IntN(len(executors))],
			Outcome:     domain.OutcomeSuccess,
			ExecutionID: fmt.Sprintf("EXEC-%d", executionID),
		})
	}

	slices.SortFunc(ds.AuditLog, func(a, b *domain.AuditLogEntry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	slices.SortFunc(ds.Results, func(a, b *domain.ExecutionResult) int {
		return b.EndTime.Compare(a.EndTime)
	})

	return ds
}

func (g *Generator) drawOutcome(successRate float64) domain.Outcome {
	if g.rng.Float64() < successRate {
		return domain.OutcomeSuccess
	}
	if g.rng.Float64() > 0.5 {
		return domain.OutcomePartial
	}
	return domain.OutcomeFailure
}

func (g *Generator) pickContext(title string) string {
	options, ok := executionContexts[title]
	if !ok {
		return "Standard execution"
	}
	return options[g.rng.IntN(len(options))]
}

func buildSteps(outcome domain.Outcome, durationSeconds int) []domain.StepResult {
	primary := domain.StepStatusSuccess
	post := domain.StepStatusSuccess
	if outcome == domain.OutcomeFailure {
		primary = domain.StepStatusFailure
		post = domain.StepStatusSkipped
	}
	return []domain.StepResult{
		{StepID: "step_1", Description: "Pre-check validation", Status: domain.StepStatusSuccess, Duration: "2s"},
		{StepID: "step_2", Description: "Execute primary action", Status: primary, Duration: fmt.Sprintf("%ds", durationSeconds*6/10)},
		{StepID: "step_3", Description: "Post-check validation", Status: post, Duration: "3s"},
	}
}

func lower(o domain.Outcome) string {
	switch o {
	case domain.OutcomeSuccess:
		return "success"
	case domain.OutcomePartial:
		return "partial"
	default:
		return "failure"
	}
}
