// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OpportunitiesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opportunities_generated_total",
			Help: "Total number of opportunities generated by category",
		},
		[]string{"category"},
	)

	PipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of generation pipeline runs",
		},
		[]string{"status"},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "pipeline_duration_seconds",
			Help: "Duration of generation pipeline runs in seconds",
		},
	)

	SignalsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signals_loaded_total",
			Help: "Total number of signals loaded from storage by kind",
		},
		[]string{"kind"},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "opportunity_persist_failures_total",
			Help: "Total number of failed persistence attempts",
		},
	)

	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opportunity_alerts_sent_total",
			Help: "Total number of high-value opportunity alerts sent by channel",
		},
		[]string{"channel"},
	)
)
