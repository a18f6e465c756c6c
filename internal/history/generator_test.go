package history

import (
	"testing"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- f.now
	return ch
}

func newTestClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
}

func totalFrequency() int {
	total := 0
	for _, a := range Archetypes() {
		total += a.Frequency
	}
	return total
}

func TestGenerate_Deterministic(t *testing.T) {
	clk := newTestClock()

	first := NewGenerator(clk, 42).Generate()
	second := NewGenerator(clk, 42).Generate()

	assert.Equal(t, first.AuditLog, second.AuditLog)
	assert.Equal(t, first.Results, second.Results)
}

func TestGenerate_Counts(t *testing.T) {
	ds := NewGenerator(newTestClock(), 42).Generate()

	expected := totalFrequency()
	assert.Len(t, ds.Results, expected)
	assert.Len(t, ds.AuditLog, expected+15)
}

func TestGenerate_SortedDescending(t *testing.T) {
	ds := NewGenerator(newTestClock(), 42).Generate()

	for i := 1; i < len(ds.AuditLog); i++ {
		assert.False(t, ds.AuditLog[i-1].Timestamp.Before(ds.AuditLog[i].Timestamp),
			"audit log out of order at %d", i)
	}
	for i := 1; i < len(ds.Results); i++ {
		assert.False(t, ds.Results[i-1].EndTime.Before(ds.Results[i].EndTime),
			"results out of order at %d", i)
	}
}

func TestGenerate_StagingEntriesAreAuditOnly(t *testing.T) {
	ds := NewGenerator(newTestClock(), 42).Generate()

	staging := 0
	for _, e := range ds.AuditLog {
		if e.Environment == domain.EnvironmentStaging {
			staging++
			assert.Equal(t, domain.OutcomeSuccess, e.Outcome)
		}
	}
	assert.Equal(t, 15, staging)

	for _, r := range ds.Results {
		assert.Equal(t, domain.EnvironmentProduction, r.Environment)
	}
}

func TestGenerate_ResultShape(t *testing.T) {
	clk := newTestClock()
	ds := NewGenerator(clk, 42).Generate()

	windowStart := clk.now.Add(-30 * 24 * time.Hour)

	for _, r := range ds.Results {
		elapsed := r.EndTime.Sub(r.StartTime)
		assert.GreaterOrEqual(t, elapsed, 30*time.Second)
		assert.Less(t, elapsed, 150*time.Second)

		assert.False(t, r.StartTime.Before(windowStart), "start before window")
		assert.False(t, r.EndTime.After(clk.now.Add(150*time.Second)), "end past window")

		require.Len(t, r.StepsExecuted, 3)
		assert.Equal(t, domain.StepStatusSuccess, r.StepsExecuted[0].Status)
		if r.Outcome == domain.OutcomeFailure {
			assert.Equal(t, domain.StepStatusFailure, r.StepsExecuted[1].Status)
			assert.Equal(t, domain.StepStatusSkipped, r.StepsExecuted[2].Status)
		} else {
			assert.Equal(t, domain.StepStatusSuccess, r.StepsExecuted[1].Status)
			assert.Equal(t, domain.StepStatusSuccess, r.StepsExecuted[2].Status)
		}

		require.Len(t, r.TargetServers, 1)
		assert.Contains(t, productionServers, r.TargetServers[0])
		assert.Contains(t, approvers, r.ApprovedBy)
		assert.Contains(t, executors, r.ExecutedBy)
		assert.NotEmpty(t, r.ExecutionContext)
	}
}

func TestGenerate_AuditLinksResults(t *testing.T) {
	ds := NewGenerator(newTestClock(), 42).Generate()

	results := make(map[string]*domain.ExecutionResult, len(ds.Results))
	for _, r := range ds.Results {
		results[r.ID] = r
	}

	for _, e := range ds.AuditLog {
		if e.Environment != domain.EnvironmentProduction {
			continue
		}
		r, ok := results[e.ExecutionID]
		require.True(t, ok, "audit entry %s has no result", e.ID)
		assert.Equal(t, r.EndTime, e.Timestamp)
		assert.Equal(t, r.Outcome, e.Outcome)
		assert.Equal(t, r.IncidentID, e.IncidentID)
	}
}
