// Package metrics exposes prometheus collectors for workflow execution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts workflow executions by terminal status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "muse",
		Subsystem: "workflow",
		Name:      "requests_total",
		Help:      "Workflow executions by terminal status.",
	}, []string{"status"})

	// StageDuration observes wall time per stage subgraph run.
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "muse",
		Subsystem: "workflow",
		Name:      "stage_duration_seconds",
		Help:      "Wall time per stage subgraph run.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	// RetryAttempts counts retries scheduled by the retry runner.
	RetryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "muse",
		Subsystem: "workflow",
		Name:      "retry_attempts_total",
		Help:      "Worker retries scheduled after a classified failure.",
	}, []string{"stage"})

	// StageFailures counts terminal stage failures by fault type.
	StageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "muse",
		Subsystem: "workflow",
		Name:      "stage_failures_total",
		Help:      "Stage subgraph failures by classified fault type.",
	}, []string{"stage", "fault_type"})
)
