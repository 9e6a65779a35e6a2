package models

import (
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
)

type MatchingExecutionModel struct {
	ID         string                 `gorm:"primaryKey;type:uuid"`
	Reference  string                 `gorm:"uniqueIndex"`
	Status     domain.ExecutionStatus `gorm:"index"`
	ConfigJSON string                 `gorm:"column:config_json;type:jsonb"`

	ScreeningTypesProcessed int
	PatientsEvaluated       int
	SuccessfulMatches       int
	FundsAllocated          float64
	FundsReclaimed          float64
	ExpiredAllocations      int
	SkippedDueToLimits      int
	SkippedAlreadyMatched   int
	SkippedNoFunding        int

	// JSON-encoded string lists.
	Errors   string `gorm:"type:jsonb"`
	Warnings string `gorm:"type:jsonb"`

	StartedAt  time.Time `gorm:"index"`
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (MatchingExecutionModel) TableName() string {
	return "matching_executions"
}

type ScreeningTypeResultModel struct {
	ID                string `gorm:"primaryKey;type:uuid"`
	ExecutionID       string `gorm:"type:uuid;index"`
	ScreeningTypeID   string `gorm:"type:uuid;index"`
	ScreeningTypeName string

	PatientsEvaluated     int
	Matched               int
	FundsAllocated        float64
	SkippedDueToLimits    int
	SkippedAlreadyMatched int
	SkippedNoFunding      int
	Error                 string

	StartedAt  time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ScreeningTypeResultModel) TableName() string {
	return "screening_type_results"
}

type ExecutionLogEntryModel struct {
	ID              uint   `gorm:"primaryKey"`
	ExecutionID     string `gorm:"type:uuid;index"`
	Level           domain.LogLevel
	Message         string
	PatientID       string
	CampaignID      string
	WaitlistEntryID string
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (ExecutionLogEntryModel) TableName() string {
	return "execution_log_entries"
}
