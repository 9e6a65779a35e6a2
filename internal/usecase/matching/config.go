package matching

import (
	matchingdto "github.com/carepool/screening-matching-service/internal/usecase/dto/matching"
)

// RunConfig is the effective configuration of one matching run after
// merging caller overrides onto the defaults.
type RunConfig struct {
	BatchSizePerScreeningType   int  `json:"batch_size_per_screening_type"`
	MaxPatientsPerRun           int  `json:"max_patients_per_run"`
	ParallelProcessing          bool `json:"parallel_processing"`
	MaxConcurrentScreeningTypes int  `json:"max_concurrent_screening_types"`
	DemographicTargeting        bool `json:"demographic_targeting"`
	GeographicTargeting         bool `json:"geographic_targeting"`
	AllocationExpiryDays        int  `json:"allocation_expiry_days"`
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		BatchSizePerScreeningType:   50,
		MaxPatientsPerRun:           500,
		ParallelProcessing:          false,
		MaxConcurrentScreeningTypes: 5,
		DemographicTargeting:        true,
		GeographicTargeting:         true,
		AllocationExpiryDays:        30,
	}
}

// Merge returns a copy of the config with non-nil overrides applied.
// Non-positive numeric overrides are ignored.
func (c RunConfig) Merge(in *matchingdto.RunMatchingInput) RunConfig {
	if in == nil {
		return c
	}
	if in.BatchSizePerScreeningType != nil && *in.BatchSizePerScreeningType > 0 {
		c.BatchSizePerScreeningType = *in.BatchSizePerScreeningType
	}
	if in.MaxPatientsPerRun != nil && *in.MaxPatientsPerRun > 0 {
		c.MaxPatientsPerRun = *in.MaxPatientsPerRun
	}
	if in.ParallelProcessing != nil {
		c.ParallelProcessing = *in.ParallelProcessing
	}
	if in.MaxConcurrentScreeningTypes != nil && *in.MaxConcurrentScreeningTypes > 0 {
		c.MaxConcurrentScreeningTypes = *in.MaxConcurrentScreeningTypes
	}
	if in.DemographicTargeting != nil {
		c.DemographicTargeting = *in.DemographicTargeting
	}
	if in.GeographicTargeting != nil {
		c.GeographicTargeting = *in.GeographicTargeting
	}
	if in.AllocationExpiryDays != nil && *in.AllocationExpiryDays > 0 {
		c.AllocationExpiryDays = *in.AllocationExpiryDays
	}
	return c
}

// Toggles extracts the targeting switches used by the evaluator.
func (c RunConfig) Toggles() TargetingToggles {
	return TargetingToggles{
		Demographic: c.DemographicTargeting,
		Geographic:  c.GeographicTargeting,
	}
}
