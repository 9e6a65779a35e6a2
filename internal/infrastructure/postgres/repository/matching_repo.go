package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/mappers"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultMatchingRepository owns the atomic write sequences of the
// matcher: fund movement, waitlist status flips and allocation rows always
// change together inside one transaction.
type DefaultMatchingRepository struct {
	DB *gorm.DB
}

func NewDefaultMatchingRepository(db *gorm.DB) *DefaultMatchingRepository {
	return &DefaultMatchingRepository{DB: db}
}

// CommitMatchBatch applies one screening-type group's staged matches.
// Campaign rows are locked FOR UPDATE and the available-funds precondition
// re-checked under the lock, so two concurrently committing groups cannot
// both spend the same funds. Any failure rolls back the whole batch.
func (r *DefaultMatchingRepository) CommitMatchBatch(ctx context.Context, executionID string, matches []*domain.StagedMatch) error {
	if len(matches) == 0 {
		return nil
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, match := range matches {
			var campaign models.CampaignModel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&campaign, "id = ?", match.CampaignID).Error; err != nil {
				return fmt.Errorf("failed to lock campaign %s: %w", match.CampaignID, err)
			}

			if campaign.Status != domain.CampaignActive {
				return fmt.Errorf("campaign %s is %s: %w", campaign.ID, campaign.Status, domain.ErrInsufficientCampaignFunds)
			}
			if campaign.AvailableAmount < match.Amount {
				return fmt.Errorf("campaign %s has %.2f available, needs %.2f: %w",
					campaign.ID, campaign.AvailableAmount, match.Amount, domain.ErrInsufficientCampaignFunds)
			}

			if err := tx.Model(&models.CampaignModel{}).
				Where("id = ?", campaign.ID).
				Updates(map[string]interface{}{
					"available_amount": gorm.Expr("available_amount - ?", match.Amount),
					"reserved_amount":  gorm.Expr("reserved_amount + ?", match.Amount),
				}).Error; err != nil {
				return fmt.Errorf("failed to reserve campaign funds: %w", err)
			}

			flip := tx.Model(&models.WaitlistEntryModel{}).
				Where("id = ? AND status = ?", match.WaitlistEntryID, domain.WaitlistPending).
				Updates(map[string]interface{}{
					"status":     domain.WaitlistMatched,
					"matched_at": now,
				})
			if flip.Error != nil {
				return fmt.Errorf("failed to update waitlist entry %s: %w", match.WaitlistEntryID, flip.Error)
			}
			if flip.RowsAffected != 1 {
				return fmt.Errorf("waitlist entry %s is not PENDING: %w", match.WaitlistEntryID, domain.ErrInvalidWaitlistStatus)
			}

			allocation := models.AllocationModel{
				ID:              uuid.New().String(),
				WaitlistEntryID: match.WaitlistEntryID,
				CampaignID:      match.CampaignID,
				ExecutionID:     executionID,
				Amount:          match.Amount,
				CreatedAt:       now,
			}
			if err := tx.Create(&allocation).Error; err != nil {
				return fmt.Errorf("failed to create allocation: %w", err)
			}
		}
		return nil
	})
}

// ReverseExpiredAllocation flips one MATCHED entry to EXPIRED and returns
// the reserved funds to the source campaign. The allocation row stays as
// the audit trail.
func (r *DefaultMatchingRepository) ReverseExpiredAllocation(ctx context.Context, waitlistEntryID string) (*domain.Allocation, error) {
	var reversed *domain.Allocation

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.WaitlistEntryModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entry, "id = ?", waitlistEntryID).Error; err != nil {
			return fmt.Errorf("failed to lock waitlist entry %s: %w", waitlistEntryID, err)
		}
		if entry.Status != domain.WaitlistMatched {
			return fmt.Errorf("waitlist entry %s is %s: %w", entry.ID, entry.Status, domain.ErrInvalidWaitlistStatus)
		}

		var allocation models.AllocationModel
		if err := tx.First(&allocation, "waitlist_entry_id = ?", waitlistEntryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAllocationNotFound
			}
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&models.CampaignModel{}, "id = ?", allocation.CampaignID).Error; err != nil {
			return fmt.Errorf("failed to lock campaign %s: %w", allocation.CampaignID, err)
		}
		if err := tx.Model(&models.CampaignModel{}).
			Where("id = ?", allocation.CampaignID).
			Updates(map[string]interface{}{
				"available_amount": gorm.Expr("available_amount + ?", allocation.Amount),
				"reserved_amount":  gorm.Expr("reserved_amount - ?", allocation.Amount),
			}).Error; err != nil {
			return fmt.Errorf("failed to return campaign funds: %w", err)
		}

		if err := tx.Model(&models.WaitlistEntryModel{}).
			Where("id = ?", entry.ID).
			Update("status", domain.WaitlistExpired).Error; err != nil {
			return fmt.Errorf("failed to expire waitlist entry %s: %w", entry.ID, err)
		}

		reversed = mappers.ToDomainAllocation(&allocation)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reversed, nil
}
