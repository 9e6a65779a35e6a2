package models

import "time"

type ScreeningTypeModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Name      string `gorm:"uniqueIndex"`
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ScreeningTypeModel) TableName() string {
	return "screening_types"
}
