package orchestration

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "runbookops"

var (
	executionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orchestration",
			Name:      "executions_total",
			Help:      "Total runbook executions by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)

	executionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orchestration",
			Name:      "execution_duration_seconds",
			Help:      "Wall-clock time of a pipeline run including the simulated wait",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"trigger"},
	)

	executionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "orchestration",
			Name:      "executions_in_flight",
			Help:      "Number of pipeline runs currently in the simulated wait",
		},
	)
)

// recordExecution records a completed pipeline run.
func recordExecution(trigger, outcome string, elapsed time.Duration) {
	executionsTotal.WithLabelValues(trigger, outcome).Inc()
	executionDuration.WithLabelValues(trigger).Observe(elapsed.Seconds())
}
