package logger

import (
	"context"
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// PGExecutionLogger persists run audit lines in Postgres alongside the
// execution records they belong to.
type PGExecutionLogger struct {
	db *gorm.DB
}

func NewPGExecutionLogger(db *gorm.DB) *PGExecutionLogger {
	return &PGExecutionLogger{db: db}
}

func (l *PGExecutionLogger) Append(ctx context.Context, entry *domain.ExecutionLogEntry) error {
	record := models.ExecutionLogEntryModel{
		ExecutionID:     entry.ExecutionID,
		Level:           entry.Level,
		Message:         entry.Message,
		PatientID:       entry.PatientID,
		CampaignID:      entry.CampaignID,
		WaitlistEntryID: entry.WaitlistEntryID,
		CreatedAt:       time.Now(),
	}
	return l.db.WithContext(ctx).Create(&record).Error
}
