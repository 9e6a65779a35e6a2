package matching

import (
	matchingdto "github.com/carepool/screening-matching-service/internal/usecase/dto/matching"
)

// RunMetrics accumulates the counters of one run. Components return their
// deltas and the orchestrator merges them; nothing here outlives a run.
type RunMetrics struct {
	ScreeningTypesProcessed int
	PatientsEvaluated       int
	SuccessfulMatches       int
	FundsAllocated          float64
	FundsReclaimed          float64
	ExpiredAllocations      int
	SkippedDueToLimits      int
	SkippedAlreadyMatched   int
	SkippedNoFunding        int

	Errors   []string
	Warnings []string
}

func (m *RunMetrics) Merge(other RunMetrics) {
	m.ScreeningTypesProcessed += other.ScreeningTypesProcessed
	m.PatientsEvaluated += other.PatientsEvaluated
	m.SuccessfulMatches += other.SuccessfulMatches
	m.FundsAllocated += other.FundsAllocated
	m.FundsReclaimed += other.FundsReclaimed
	m.ExpiredAllocations += other.ExpiredAllocations
	m.SkippedDueToLimits += other.SkippedDueToLimits
	m.SkippedAlreadyMatched += other.SkippedAlreadyMatched
	m.SkippedNoFunding += other.SkippedNoFunding
	m.Errors = append(m.Errors, other.Errors...)
	m.Warnings = append(m.Warnings, other.Warnings...)
}

func (m *RunMetrics) AddError(msg string) {
	m.Errors = append(m.Errors, msg)
}

func (m *RunMetrics) AddWarning(msg string) {
	m.Warnings = append(m.Warnings, msg)
}

func (m *RunMetrics) Summary() matchingdto.MetricsSummary {
	return matchingdto.MetricsSummary{
		ScreeningTypesProcessed: m.ScreeningTypesProcessed,
		PatientsEvaluated:       m.PatientsEvaluated,
		SuccessfulMatches:       m.SuccessfulMatches,
		FundsAllocated:          m.FundsAllocated,
		FundsReclaimed:          m.FundsReclaimed,
		ExpiredAllocations:      m.ExpiredAllocations,
		SkippedDueToLimits:      m.SkippedDueToLimits,
		SkippedAlreadyMatched:   m.SkippedAlreadyMatched,
		SkippedNoFunding:        m.SkippedNoFunding,
		Errors:                  len(m.Errors),
		Warnings:                len(m.Warnings),
	}
}
