package matching

import (
	"strings"
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
)

// TargetingToggles gate the two criteria families. Demographic covers age,
// gender and income; geographic covers state and LGA.
type TargetingToggles struct {
	Demographic bool
	Geographic  bool
}

// Targeting score bonuses per satisfied dimension.
const (
	scoreAge    = 10
	scoreGender = 15
	scoreState  = 20
	scoreLGA    = 25
	scoreIncome = 10
)

// MatchesTargeting reports whether the patient falls inside the campaign's
// target audience. Every configured criterion must pass independently; an
// unconfigured criterion always passes. Age criteria are skipped, not
// failed, when the patient's age cannot be determined.
func MatchesTargeting(patient *domain.PatientProfile, campaign *domain.Campaign, toggles TargetingToggles) bool {
	if !toggles.Demographic && !toggles.Geographic {
		return true
	}
	t := campaign.Targeting
	if t == nil {
		return true
	}

	if toggles.Demographic {
		if min, max, ok := t.AgeBounds(); ok {
			if age, known := patient.AgeAt(time.Now()); known {
				if age < min || age > max {
					return false
				}
			}
		}
		if t.Gender != "" && !strings.EqualFold(t.Gender, patient.Gender) {
			return false
		}
		if t.MinIncome != nil || t.MaxIncome != nil {
			if patient.MonthlyIncome != nil {
				income := *patient.MonthlyIncome
				if t.MinIncome != nil && income < *t.MinIncome {
					return false
				}
				if t.MaxIncome != nil && income > *t.MaxIncome {
					return false
				}
			}
		}
	}

	if toggles.Geographic {
		if len(t.States) > 0 && !containsFold(t.States, patient.State) {
			return false
		}
		if len(t.LGAs) > 0 && !containsFold(t.LGAs, patient.LGA) {
			return false
		}
	}

	return true
}

// TargetingScore ranks how specifically the campaign's configured criteria
// fit the patient, 0..80. Used only to order campaigns that already passed
// MatchesTargeting, never to decide eligibility.
func TargetingScore(campaign *domain.Campaign, patient *domain.PatientProfile) int {
	t := campaign.Targeting
	if t == nil {
		return 0
	}
	score := 0
	if min, max, ok := t.AgeBounds(); ok {
		if age, known := patient.AgeAt(time.Now()); known && age >= min && age <= max {
			score += scoreAge
		}
	}
	if t.Gender != "" && strings.EqualFold(t.Gender, patient.Gender) {
		score += scoreGender
	}
	if len(t.States) > 0 && containsFold(t.States, patient.State) {
		score += scoreState
	}
	if len(t.LGAs) > 0 && containsFold(t.LGAs, patient.LGA) {
		score += scoreLGA
	}
	if (t.MinIncome != nil || t.MaxIncome != nil) && patient.MonthlyIncome != nil {
		income := *patient.MonthlyIncome
		inRange := true
		if t.MinIncome != nil && income < *t.MinIncome {
			inRange = false
		}
		if t.MaxIncome != nil && income > *t.MaxIncome {
			inRange = false
		}
		if inRange {
			score += scoreIncome
		}
	}
	return score
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
