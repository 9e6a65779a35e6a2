package matchingdto

import (
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
)

// ExecutionResponse is the API shape of one matching run's audit record.
type ExecutionResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`

	ScreeningTypesProcessed int     `json:"screening_types_processed"`
	PatientsEvaluated       int     `json:"patients_evaluated"`
	SuccessfulMatches       int     `json:"successful_matches"`
	FundsAllocated          float64 `json:"funds_allocated"`
	FundsReclaimed          float64 `json:"funds_reclaimed"`
	ExpiredAllocations      int     `json:"expired_allocations"`
	SkippedDueToLimits      int     `json:"skipped_due_to_limits"`
	SkippedAlreadyMatched   int     `json:"skipped_already_matched"`
	SkippedNoFunding        int     `json:"skipped_no_funding"`

	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func FromDomainExecution(execution *domain.MatchingExecution) ExecutionResponse {
	return ExecutionResponse{
		ID:                      execution.ID,
		Reference:               execution.Reference,
		Status:                  string(execution.Status),
		ScreeningTypesProcessed: execution.ScreeningTypesProcessed,
		PatientsEvaluated:       execution.PatientsEvaluated,
		SuccessfulMatches:       execution.SuccessfulMatches,
		FundsAllocated:          execution.FundsAllocated,
		FundsReclaimed:          execution.FundsReclaimed,
		ExpiredAllocations:      execution.ExpiredAllocations,
		SkippedDueToLimits:      execution.SkippedDueToLimits,
		SkippedAlreadyMatched:   execution.SkippedAlreadyMatched,
		SkippedNoFunding:        execution.SkippedNoFunding,
		Errors:                  execution.Errors,
		Warnings:                execution.Warnings,
		StartedAt:               execution.StartedAt,
		FinishedAt:              execution.FinishedAt,
	}
}
