package models

import (
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/lib/pq"
)

type CampaignModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	DonorID         string `gorm:"type:uuid;index"`
	Title           string
	InitialAmount   float64
	AvailableAmount float64
	ReservedAmount  float64
	Status          domain.CampaignStatus `gorm:"index"`
	IsGeneralPool   bool                  `gorm:"index"`

	TargetAgeRange  string
	TargetMinAge    *int
	TargetMaxAge    *int
	TargetGender    string
	TargetStates    pq.StringArray `gorm:"type:text[]"`
	TargetLGAs      pq.StringArray `gorm:"column:target_lgas;type:text[]"`
	TargetMinIncome *float64
	TargetMaxIncome *float64

	CreatedAt time.Time
	UpdatedAt time.Time

	ScreeningTypes []ScreeningTypeModel `gorm:"many2many:campaign_screening_types;joinForeignKey:CampaignID;joinReferences:ScreeningTypeID"`
}

func (CampaignModel) TableName() string {
	return "campaigns"
}
