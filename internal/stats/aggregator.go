// Package stats computes dashboard metrics by reducing over the
// production subset of the historical audit log. Everything is recomputed
// on every read; there is no cache to invalidate.
package stats

import (
	"math"
	"slices"
	"time"

	"github.com/bissquit/runbook-ops/internal/domain"
	"github.com/bissquit/runbook-ops/internal/history"
	"github.com/bissquit/runbook-ops/internal/pkg/clock"
)

// avgMTTRMinutes is a presentation constant, not derived from data.
const avgMTTRMinutes = 113

// minutesSavedPerExecution estimates automated versus manual handling.
const minutesSavedPerExecution = 127

// RunbookUsage reports how often one runbook ran and how reliably.
type RunbookUsage struct {
	Name        string  `json:"name"`
	Executions  int     `json:"executions"`
	SuccessRate float64 `json:"success_rate"`
}

// TrendPoint is the incident count for one calendar day.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SeverityBreakdown splits total incidents across severity buckets.
type SeverityBreakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
}

// IncidentTypeCount is one entry of the top recurring incident types.
type IncidentTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DashboardStats is the full dashboard payload.
type DashboardStats struct {
	TotalIncidents       int                 `json:"total_incidents"`
	AvgMTTR              int                 `json:"avg_mttr"`
	SuccessRate          int                 `json:"success_rate"`
	TimeSavedHours       int                 `json:"time_saved_hours"`
	SuccessfulExecutions int                 `json:"successful_executions"`
	PartialExecutions    int                 `json:"partial_executions"`
	FailedExecutions     int                 `json:"failed_executions"`
	RunbookUsage         []RunbookUsage      `json:"runbook_usage"`
	IncidentTrend        []TrendPoint        `json:"incident_trend"`
	IncidentsBySeverity  SeverityBreakdown   `json:"incidents_by_severity"`
	TopIncidentTypes     []IncidentTypeCount `json:"top_incident_types"`
	ApprovalCompliance   int                 `json:"approval_compliance"`
	BlockedByPolicy      int                 `json:"blocked_by_policy"`
	HighRiskExecutions   int                 `json:"high_risk_executions"`
}

// Aggregator reduces a historical dataset into dashboard metrics.
type Aggregator struct {
	dataset *history.Dataset
	clock   clock.Clock
}

// NewAggregator creates an aggregator over the given dataset.
func NewAggregator(ds *history.Dataset, clk clock.Clock) *Aggregator {
	return &Aggregator{dataset: ds, clock: clk}
}

// Dashboard computes the full dashboard payload from the production
// audit entries.
func (a *Aggregator) Dashboard() *DashboardStats {
	var prod []*domain.AuditLogEntry
	for _, e := range a.dataset.AuditLog {
		if e.Environment == domain.EnvironmentProduction {
			prod = append(prod, e)
		}
	}

	total := len(prod)
	var successful, partial, failed int
	for _, e := range prod {
		switch e.Outcome {
		case domain.OutcomeSuccess:
			successful++
		case domain.OutcomePartial:
			partial++
		case domain.OutcomeFailure:
			failed++
		}
	}

	successRate := 0
	if total > 0 {
		successRate = int(math.Round(float64(successful) / float64(total) * 100))
	}

	return &DashboardStats{
		TotalIncidents:       total,
		AvgMTTR:              avgMTTRMinutes,
		SuccessRate:          successRate,
		TimeSavedHours:       int(math.Round(float64(total*minutesSavedPerExecution) / 60)),
		SuccessfulExecutions: successful,
		PartialExecutions:    partial,
		FailedExecutions:     failed,
		RunbookUsage:         runbookUsage(),
		IncidentTrend:        a.incidentTrend(prod),
		IncidentsBySeverity: SeverityBreakdown{
			Critical: total * 15 / 100,
			High:     total * 35 / 100,
			Medium:   total * 50 / 100,
		},
		TopIncidentTypes:   topIncidentTypes(),
		ApprovalCompliance: 100,
		BlockedByPolicy:    3,
		HighRiskExecutions: 7,
	}
}

func runbookUsage() []RunbookUsage {
	var usage []RunbookUsage
	for _, a := range history.Archetypes() {
		usage = append(usage, RunbookUsage{
			Name:        a.RunbookName,
			Executions:  a.Frequency,
			SuccessRate: a.SuccessRate,
		})
	}
	slices.SortFunc(usage, func(a, b RunbookUsage) int {
		return b.Executions - a.Executions
	})
	return usage
}

// incidentTrend counts production entries per calendar day over the
// trailing thirty days. Days with no entries report zero.
func (a *Aggregator) incidentTrend(prod []*domain.AuditLogEntry) []TrendPoint {
	now := a.clock.Now()

	byDay := make(map[string]int)
	for _, e := range prod {
		byDay[e.Timestamp.UTC().Format(time.DateOnly)]++
	}

	trend := make([]TrendPoint, 0, 30)
	for i := 29; i >= 0; i-- {
		date := now.Add(-time.Duration(i) * 24 * time.Hour).UTC().Format(time.DateOnly)
		trend = append(trend, TrendPoint{Date: date, Count: byDay[date]})
	}
	return trend
}

func topIncidentTypes() []IncidentTypeCount {
	archetypes := history.Archetypes()
	top := make([]IncidentTypeCount, 0, 3)
	for _, a := range archetypes[:3] {
		top = append(top, IncidentTypeCount{Type: a.Title, Count: a.Frequency})
	}
	return top
}
