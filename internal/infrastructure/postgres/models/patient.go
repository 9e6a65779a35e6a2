package models

import "time"

type PatientProfileModel struct {
	UserID        string `gorm:"primaryKey;type:uuid"`
	DateOfBirth   *time.Time
	Gender        string
	State         string `gorm:"index"`
	LGA           string `gorm:"column:lga"`
	MonthlyIncome *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PatientProfileModel) TableName() string {
	return "patient_profiles"
}
