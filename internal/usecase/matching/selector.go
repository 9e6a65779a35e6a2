package matching

import (
	"sort"

	"github.com/carepool/screening-matching-service/internal/domain"
)

// SelectCampaign picks the single best funder for one patient's screening,
// or the general pool, or nil when no funding is available. Candidates are
// ranked by targeting score, then specificity (fewer funded screening
// types first), then available funds, then campaign age.
func SelectCampaign(
	patient *domain.PatientProfile,
	screening *domain.ScreeningType,
	candidates []*domain.Campaign,
	generalPool *domain.Campaign,
	toggles TargetingToggles,
) *domain.Campaign {
	eligible := make([]*domain.Campaign, 0, len(candidates))
	for _, campaign := range candidates {
		if campaign.Status != domain.CampaignActive || campaign.IsGeneralPool {
			continue
		}
		if !campaign.FundsScreeningType(screening.ID) {
			continue
		}
		if campaign.AvailableAmount < screening.Price {
			continue
		}
		if !MatchesTargeting(patient, campaign, toggles) {
			continue
		}
		eligible = append(eligible, campaign)
	}

	if len(eligible) > 0 {
		scores := make(map[string]int, len(eligible))
		for _, campaign := range eligible {
			scores[campaign.ID] = TargetingScore(campaign, patient)
		}
		sort.SliceStable(eligible, func(i, j int) bool {
			a, b := eligible[i], eligible[j]
			if scores[a.ID] != scores[b.ID] {
				return scores[a.ID] > scores[b.ID]
			}
			if len(a.ScreeningTypeIDs) != len(b.ScreeningTypeIDs) {
				return len(a.ScreeningTypeIDs) < len(b.ScreeningTypeIDs)
			}
			if a.AvailableAmount != b.AvailableAmount {
				return a.AvailableAmount > b.AvailableAmount
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
		return eligible[0]
	}

	if generalPool != nil &&
		generalPool.Status == domain.CampaignActive &&
		generalPool.AvailableAmount >= screening.Price {
		return generalPool
	}

	return nil
}
