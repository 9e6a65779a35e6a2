package repository

import (
	"context"
	"errors"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/mappers"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAllocationRepository struct {
	DB *gorm.DB
}

func NewDefaultAllocationRepository(db *gorm.DB) *DefaultAllocationRepository {
	return &DefaultAllocationRepository{DB: db}
}

func (r *DefaultAllocationRepository) CountActiveByPatients(ctx context.Context, patientIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(patientIDs))
	if len(patientIDs) == 0 {
		return counts, nil
	}

	type patientCount struct {
		PatientID string
		Total     int
	}

	var rows []patientCount
	if err := r.DB.WithContext(ctx).
		Table("allocations").
		Select("waitlist_entries.patient_id AS patient_id, COUNT(*) AS total").
		Joins("JOIN waitlist_entries ON waitlist_entries.id = allocations.waitlist_entry_id").
		Where("allocations.claimed_at IS NULL").
		Where("waitlist_entries.status <> ?", domain.WaitlistExpired).
		Where("waitlist_entries.patient_id IN ?", patientIDs).
		Group("waitlist_entries.patient_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.PatientID] = row.Total
	}

	return counts, nil
}

func (r *DefaultAllocationRepository) GetByWaitlistEntryID(ctx context.Context, waitlistEntryID string) (*domain.Allocation, error) {
	var allocationModel models.AllocationModel
	if err := r.DB.WithContext(ctx).
		First(&allocationModel, "waitlist_entry_id = ?", waitlistEntryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAllocationNotFound
		}
		return nil, err
	}

	return mappers.ToDomainAllocation(&allocationModel), nil
}
