package models

import (
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
)

type WaitlistEntryModel struct {
	ID              string                `gorm:"primaryKey;type:uuid"`
	PatientID       string                `gorm:"type:uuid;index:idx_waitlist_patient"`
	ScreeningTypeID string                `gorm:"type:uuid;index"`
	Status          domain.WaitlistStatus `gorm:"index:idx_waitlist_status_joined"`
	JoinedAt        time.Time             `gorm:"index:idx_waitlist_status_joined"`
	MatchedAt       *time.Time
	ClaimedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Patient       PatientProfileModel `gorm:"foreignKey:PatientID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	ScreeningType ScreeningTypeModel  `gorm:"foreignKey:ScreeningTypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (WaitlistEntryModel) TableName() string {
	return "waitlist_entries"
}
