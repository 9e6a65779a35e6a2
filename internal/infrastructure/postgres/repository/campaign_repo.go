package repository

import (
	"context"
	"errors"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/mappers"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCampaignRepository struct {
	DB *gorm.DB
}

func NewDefaultCampaignRepository(db *gorm.DB) *DefaultCampaignRepository {
	return &DefaultCampaignRepository{DB: db}
}

func (r *DefaultCampaignRepository) FindActiveByScreeningTypes(ctx context.Context, screeningTypeIDs []string) (map[string][]*domain.Campaign, error) {
	result := make(map[string][]*domain.Campaign, len(screeningTypeIDs))
	if len(screeningTypeIDs) == 0 {
		return result, nil
	}

	var campaignModels []models.CampaignModel
	if err := r.DB.WithContext(ctx).
		Preload("ScreeningTypes").
		Joins("JOIN campaign_screening_types ON campaign_screening_types.campaign_id = campaigns.id").
		Where("campaign_screening_types.screening_type_id IN ?", screeningTypeIDs).
		Where("campaigns.status = ?", domain.CampaignActive).
		Where("campaigns.is_general_pool = ?", false).
		Distinct("campaigns.*").
		Find(&campaignModels).Error; err != nil {
		return nil, err
	}

	for i := range campaignModels {
		campaign := mappers.ToDomainCampaign(&campaignModels[i])
		for _, screeningTypeID := range screeningTypeIDs {
			if campaign.FundsScreeningType(screeningTypeID) {
				result[screeningTypeID] = append(result[screeningTypeID], campaign)
			}
		}
	}

	return result, nil
}

func (r *DefaultCampaignRepository) GetGeneralPool(ctx context.Context) (*domain.Campaign, error) {
	var campaignModel models.CampaignModel
	if err := r.DB.WithContext(ctx).
		Where("is_general_pool = ?", true).
		First(&campaignModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGeneralPoolNotFound
		}
		return nil, err
	}

	return mappers.ToDomainCampaign(&campaignModel), nil
}
