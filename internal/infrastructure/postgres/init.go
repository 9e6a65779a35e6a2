package postgres

import (
	"log"

	"github.com/carepool/screening-matching-service/internal/config"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.MatchingConfig) *gorm.DB {
	dsn := cfg.MatchingDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.PatientProfileModel{},
		&models.ScreeningTypeModel{},
		&models.CampaignModel{},
		&models.WaitlistEntryModel{},
		&models.AllocationModel{},
		&models.MatchingExecutionModel{},
		&models.ScreeningTypeResultModel{},
		&models.ExecutionLogEntryModel{},
	)

	return db
}
