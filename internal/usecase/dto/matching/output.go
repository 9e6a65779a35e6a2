package matchingdto

// MetricsSummary is the aggregate outcome of one matching run.
type MetricsSummary struct {
	ScreeningTypesProcessed int     `json:"screening_types_processed"`
	PatientsEvaluated       int     `json:"patients_evaluated"`
	SuccessfulMatches       int     `json:"successful_matches"`
	FundsAllocated          float64 `json:"funds_allocated"`
	FundsReclaimed          float64 `json:"funds_reclaimed"`
	ExpiredAllocations      int     `json:"expired_allocations"`
	SkippedDueToLimits      int     `json:"skipped_due_to_limits"`
	SkippedAlreadyMatched   int     `json:"skipped_already_matched"`
	SkippedNoFunding        int     `json:"skipped_no_funding"`
	Errors                  int     `json:"errors"`
	Warnings                int     `json:"warnings"`
}

// RunMatchingOutput is the structured result returned to the trigger
// surface. Success is false only for infrastructure-level failures.
type RunMatchingOutput struct {
	Success            bool           `json:"success"`
	ExecutionReference string         `json:"execution_reference,omitempty"`
	Error              string         `json:"error,omitempty"`
	Metrics            MetricsSummary `json:"metrics"`
}
