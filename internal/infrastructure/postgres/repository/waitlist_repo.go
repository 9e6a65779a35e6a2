package repository

import (
	"context"
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/mappers"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultWaitlistRepository struct {
	DB *gorm.DB
}

func NewDefaultWaitlistRepository(db *gorm.DB) *DefaultWaitlistRepository {
	return &DefaultWaitlistRepository{DB: db}
}

func (r *DefaultWaitlistRepository) FindPendingEntries(ctx context.Context, limit int) ([]*domain.WaitlistEntry, error) {
	var entryModels []models.WaitlistEntryModel
	query := r.DB.WithContext(ctx).
		Preload("Patient").
		Preload("ScreeningType").
		Where("status = ?", domain.WaitlistPending).
		Order("joined_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*domain.WaitlistEntry, len(entryModels))
	for i, entryModel := range entryModels {
		entries[i] = mappers.ToDomainWaitlistEntry(&entryModel)
	}

	return entries, nil
}

func (r *DefaultWaitlistRepository) FindExpiredMatches(ctx context.Context, olderThan time.Time) ([]*domain.WaitlistEntry, error) {
	var entryModels []models.WaitlistEntryModel
	if err := r.DB.WithContext(ctx).
		Preload("Patient").
		Preload("ScreeningType").
		Where("status = ?", domain.WaitlistMatched).
		Where("joined_at < ?", olderThan).
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*domain.WaitlistEntry, len(entryModels))
	for i, entryModel := range entryModels {
		entries[i] = mappers.ToDomainWaitlistEntry(&entryModel)
	}

	return entries, nil
}
