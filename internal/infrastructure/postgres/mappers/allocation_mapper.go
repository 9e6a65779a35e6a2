package mappers

import (
	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
)

func ToDomainAllocation(model *models.AllocationModel) *domain.Allocation {
	return &domain.Allocation{
		ID:              model.ID,
		WaitlistEntryID: model.WaitlistEntryID,
		CampaignID:      model.CampaignID,
		ExecutionID:     model.ExecutionID,
		Amount:          model.Amount,
		CreatedAt:       model.CreatedAt,
		ClaimedAt:       model.ClaimedAt,
	}
}
