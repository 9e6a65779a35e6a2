package mappers

import (
	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
)

func ToDomainCampaign(model *models.CampaignModel) *domain.Campaign {
	campaign := &domain.Campaign{
		ID:              model.ID,
		DonorID:         model.DonorID,
		Title:           model.Title,
		InitialAmount:   model.InitialAmount,
		AvailableAmount: model.AvailableAmount,
		ReservedAmount:  model.ReservedAmount,
		Status:          model.Status,
		IsGeneralPool:   model.IsGeneralPool,
		CreatedAt:       model.CreatedAt,
	}

	for _, screeningType := range model.ScreeningTypes {
		campaign.ScreeningTypeIDs = append(campaign.ScreeningTypeIDs, screeningType.ID)
	}

	if hasTargeting(model) {
		campaign.Targeting = &domain.TargetingCriteria{
			AgeRange:  model.TargetAgeRange,
			MinAge:    model.TargetMinAge,
			MaxAge:    model.TargetMaxAge,
			Gender:    model.TargetGender,
			States:    model.TargetStates,
			LGAs:      model.TargetLGAs,
			MinIncome: model.TargetMinIncome,
			MaxIncome: model.TargetMaxIncome,
		}
	}

	return campaign
}

func hasTargeting(model *models.CampaignModel) bool {
	return model.TargetAgeRange != "" ||
		model.TargetMinAge != nil ||
		model.TargetMaxAge != nil ||
		model.TargetGender != "" ||
		len(model.TargetStates) > 0 ||
		len(model.TargetLGAs) > 0 ||
		model.TargetMinIncome != nil ||
		model.TargetMaxIncome != nil
}
