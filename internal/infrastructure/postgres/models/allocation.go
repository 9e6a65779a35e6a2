package models

import "time"

type AllocationModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	WaitlistEntryID string `gorm:"type:uuid;uniqueIndex"`
	CampaignID      string `gorm:"type:uuid;index"`
	ExecutionID     string `gorm:"type:uuid;index"`
	Amount          float64
	ClaimedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	WaitlistEntry WaitlistEntryModel `gorm:"foreignKey:WaitlistEntryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Campaign      CampaignModel      `gorm:"foreignKey:CampaignID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (AllocationModel) TableName() string {
	return "allocations"
}
