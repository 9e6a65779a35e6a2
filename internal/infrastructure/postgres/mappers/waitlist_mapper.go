package mappers

import (
	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
)

func ToDomainWaitlistEntry(model *models.WaitlistEntryModel) *domain.WaitlistEntry {
	entry := &domain.WaitlistEntry{
		ID:              model.ID,
		PatientID:       model.PatientID,
		ScreeningTypeID: model.ScreeningTypeID,
		Status:          model.Status,
		JoinedAt:        model.JoinedAt,
		MatchedAt:       model.MatchedAt,
		ClaimedAt:       model.ClaimedAt,
	}
	if model.Patient.UserID != "" {
		entry.Patient = ToDomainPatientProfile(&model.Patient)
	}
	if model.ScreeningType.ID != "" {
		entry.ScreeningType = ToDomainScreeningType(&model.ScreeningType)
	}
	return entry
}

func ToDomainPatientProfile(model *models.PatientProfileModel) *domain.PatientProfile {
	return &domain.PatientProfile{
		UserID:        model.UserID,
		DateOfBirth:   model.DateOfBirth,
		Gender:        model.Gender,
		State:         model.State,
		LGA:           model.LGA,
		MonthlyIncome: model.MonthlyIncome,
	}
}

func ToDomainScreeningType(model *models.ScreeningTypeModel) *domain.ScreeningType {
	return &domain.ScreeningType{
		ID:    model.ID,
		Name:  model.Name,
		Price: model.Price,
	}
}
