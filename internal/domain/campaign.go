package domain

import (
	"strconv"
	"strings"
	"time"
)

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "ACTIVE"
	CampaignCompleted CampaignStatus = "COMPLETED"
	CampaignPending   CampaignStatus = "PENDING"
	CampaignSuspended CampaignStatus = "SUSPENDED"
	CampaignDeleted   CampaignStatus = "DELETED"
)

// TargetingCriteria restricts a campaign to a demographic/geographic
// audience. A nil or empty field means the dimension is unconstrained.
type TargetingCriteria struct {
	// AgeRange is the combined "min-max" form, e.g. "18-45". MinAge/MaxAge
	// are the split form; campaigns may carry either.
	AgeRange  string
	MinAge    *int
	MaxAge    *int
	Gender    string
	States    []string
	LGAs      []string
	MinIncome *float64
	MaxIncome *float64
}

// AgeBounds resolves the effective age constraint from whichever form the
// campaign carries. ok is false when no age constraint is configured.
func (t *TargetingCriteria) AgeBounds() (min, max int, ok bool) {
	if t.AgeRange != "" {
		parts := strings.SplitN(t.AgeRange, "-", 2)
		if len(parts) == 2 {
			lo, loErr := strconv.Atoi(strings.TrimSpace(parts[0]))
			hi, hiErr := strconv.Atoi(strings.TrimSpace(parts[1]))
			if loErr == nil && hiErr == nil {
				return lo, hi, true
			}
		}
	}
	if t.MinAge == nil && t.MaxAge == nil {
		return 0, 0, false
	}
	min = 0
	max = int(^uint(0) >> 1)
	if t.MinAge != nil {
		min = *t.MinAge
	}
	if t.MaxAge != nil {
		max = *t.MaxAge
	}
	return min, max, true
}

// Campaign is a donor-funded pool of money, optionally restricted to a
// target audience and a set of screening types. Funds move
// available -> reserved on match and reserved -> available on expiry,
// always inside the same transaction as the allocation change.
type Campaign struct {
	ID               string
	DonorID          string
	Title            string
	InitialAmount    float64
	AvailableAmount  float64
	ReservedAmount   float64
	Status           CampaignStatus
	IsGeneralPool    bool
	Targeting        *TargetingCriteria
	ScreeningTypeIDs []string
	CreatedAt        time.Time
}

// FundsScreeningType reports whether the campaign is earmarked for the
// given screening type. The general pool funds every type.
func (c *Campaign) FundsScreeningType(screeningTypeID string) bool {
	if c.IsGeneralPool {
		return true
	}
	for _, id := range c.ScreeningTypeIDs {
		if id == screeningTypeID {
			return true
		}
	}
	return false
}
