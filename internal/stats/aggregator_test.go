package stats

import (
	"testing"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/history"
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

func generatedStats(t *testing.T) *DashboardStats {
	t.Helper()
	clk := newTestClock()
	ds := history.NewGenerator(clk, 42).Generate()
	return NewAggregator(ds, clk).Dashboard()
}

func TestDashboard_Totals(t *testing.T) {
	stats := generatedStats(t)

	total := 0
	for _, a := range history.Archetypes() {
		total += a.Frequency
	}

	// Staging entries are excluded.
	assert.Equal(t, total, stats.TotalIncidents)
	assert.Equal(t, total, stats.SuccessfulExecutions+stats.PartialExecutions+stats.FailedExecutions)
	assert.Equal(t, 113, stats.AvgMTTR)
	assert.Equal(t, 258, stats.TimeSavedHours) // round(122 * 127 / 60)
}

func TestDashboard_RunbookUsageSortedDescending(t *testing.T) {
	stats := generatedStats(t)

	require.Len(t, stats.RunbookUsage, 6)
	assert.Equal(t, "Disk Cleanup", stats.RunbookUsage[0].Name)
	assert.Equal(t, 34, stats.RunbookUsage[0].Executions)
	for i := 1; i < len(stats.RunbookUsage); i++ {
		assert.GreaterOrEqual(t, stats.RunbookUsage[i-1].Executions, stats.RunbookUsage[i].Executions)
	}
}

func TestDashboard_TrendCoversThirtyDays(t *testing.T) {
	clk := newTestClock()
	ds := history.NewGenerator(clk, 42).Generate()
	stats := NewAggregator(ds, clk).Dashboard()

	require.Len(t, stats.IncidentTrend, 30)
	assert.Equal(t, clk.now.UTC().Format(time.DateOnly), stats.IncidentTrend[29].Date)
	assert.Equal(t, clk.now.Add(-29*24*time.Hour).UTC().Format(time.DateOnly), stats.IncidentTrend[0].Date)

	counted := 0
	for _, p := range stats.IncidentTrend {
		assert.GreaterOrEqual(t, p.Count, 0)
		counted += p.Count
	}
	assert.Positive(t, counted)
	assert.LessOrEqual(t, counted, stats.TotalIncidents)
}

func TestDashboard_SeverityAndGovernance(t *testing.T) {
	stats := generatedStats(t)

	total := stats.TotalIncidents
	assert.Equal(t, total*15/100, stats.IncidentsBySeverity.Critical)
	assert.Equal(t, total*35/100, stats.IncidentsBySeverity.High)
	assert.Equal(t, total*50/100, stats.IncidentsBySeverity.Medium)

	assert.Equal(t, 100, stats.ApprovalCompliance)
	assert.Equal(t, 3, stats.BlockedByPolicy)
	assert.Equal(t, 7, stats.HighRiskExecutions)
}

func TestDashboard_TopIncidentTypes(t *testing.T) {
	stats := generatedStats(t)

	require.Len(t, stats.TopIncidentTypes, 3)
	assert.Equal(t, "Disk Usage Critical", stats.TopIncidentTypes[0].Type)
	assert.Equal(t, 34, stats.TopIncidentTypes[0].Count)
	assert.Equal(t, "Service Unresponsive", stats.TopIncidentTypes[1].Type)
	assert.Equal(t, "High Memory Usage", stats.TopIncidentTypes[2].Type)
}

func TestDashboard_AllSuccessYieldsFullRate(t *testing.T) {
	clk := newTestClock()

	ds := &history.Dataset{}
	for i := 0; i < 10; i++ {
		ds.AuditLog = append(ds.AuditLog, &domain.AuditLogEntry{
			ID:          "AUDIT-1",
			Timestamp:   clk.now.Add(-time.Duration(i) * 24 * time.Hour),
			Environment: domain.EnvironmentProduction,
			Outcome:     domain.OutcomeSuccess,
		})
	}

	stats := NewAggregator(ds, clk).Dashboard()

	assert.Equal(t, 100, stats.SuccessRate)
	assert.Equal(t, 10, stats.SuccessfulExecutions)
	assert.Zero(t, stats.FailedExecutions)
}

func TestDashboard_EmptyDataset(t *testing.T) {
	clk := newTestClock()
	stats := NewAggregator(&history.Dataset{}, clk).Dashboard()

	assert.Zero(t, stats.TotalIncidents)
	assert.Zero(t, stats.SuccessRate)
	assert.Zero(t, stats.TimeSavedHours)
	require.Len(t, stats.IncidentTrend, 30)
	for _, p := range stats.IncidentTrend {
		assert.Zero(t, p.Count)
	}
}
