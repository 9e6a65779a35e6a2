package matchingdto

// RunMatchingInput carries caller-supplied config overrides for one run.
// Nil fields fall back to the defaults.
type RunMatchingInput struct {
	BatchSizePerScreeningType   *int  `json:"batch_size_per_screening_type,omitempty"`
	MaxPatientsPerRun           *int  `json:"max_patients_per_run,omitempty"`
	ParallelProcessing          *bool `json:"parallel_processing,omitempty"`
	MaxConcurrentScreeningTypes *int  `json:"max_concurrent_screening_types,omitempty"`
	DemographicTargeting        *bool `json:"demographic_targeting,omitempty"`
	GeographicTargeting         *bool `json:"geographic_targeting,omitempty"`
	AllocationExpiryDays        *int  `json:"allocation_expiry_days,omitempty"`
}
