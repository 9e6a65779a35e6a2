package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MatchingMetrics holds the prometheus instruments for matching runs.
type MatchingMetrics struct {
	RunsTotal               prometheus.CounterVec
	RunDuration             prometheus.Histogram
	MatchesTotal            prometheus.CounterVec
	FundsAllocatedTotal     prometheus.CounterVec
	FundsReclaimedTotal     prometheus.Counter
	AllocationsExpiredTotal prometheus.Counter
	PatientsSkippedTotal    prometheus.CounterVec
	GroupErrorsTotal        prometheus.CounterVec
}

func NewMatchingMetrics() *MatchingMetrics {
	return &MatchingMetrics{
		RunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matching_runs_total",
				Help: "Total matching runs by final status",
			},
			[]string{"status"},
		),

		RunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "matching_run_duration_seconds",
				Help:    "Wall time of one matching run",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),

		MatchesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matching_matches_total",
				Help: "Successful allocations by screening type",
			},
			[]string{"screening_type"},
		),

		FundsAllocatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matching_funds_allocated_total",
				Help: "Funds reserved for matched patients by screening type",
			},
			[]string{"screening_type"},
		),

		FundsReclaimedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "matching_funds_reclaimed_total",
				Help: "Funds returned to campaigns by allocation expiry",
			},
		),

		AllocationsExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "matching_allocations_expired_total",
				Help: "Allocations reverted to EXPIRED",
			},
		),

		PatientsSkippedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matching_patients_skipped_total",
				Help: "Patients skipped during eligibility filtering by reason",
			},
			[]string{"reason"},
		),

		GroupErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matching_group_errors_total",
				Help: "Screening-type groups that failed to commit",
			},
			[]string{"screening_type"},
		),
	}
}
