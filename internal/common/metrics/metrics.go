// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	AssessmentsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_assessments_completed_total",
			Help: "Total number of risk assessments completed, by verdict tier",
		},
		[]string{"risk_level"},
	)

	AssessmentsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_assessments_failed_total",
			Help: "Total number of risk assessments that returned an error",
		},
		[]string{"error_code"},
	)

	AssessmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "risk_assessment_duration_seconds",
			Help:    "Duration of a single risk assessment in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	VerdictCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verdict_cache_requests_total",
			Help: "Verdict cache lookups, by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)

	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "risk_alerts_sent_total",
			Help: "Total number of risk alerts delivered, by channel",
		},
		[]string{"channel"},
	)
)
