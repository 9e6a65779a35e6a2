package repository

import (
	"context"
	"errors"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/mappers"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultExecutionRepository struct {
	DB *gorm.DB
}

func NewDefaultExecutionRepository(db *gorm.DB) *DefaultExecutionRepository {
	return &DefaultExecutionRepository{DB: db}
}

func (r *DefaultExecutionRepository) CreateExecution(ctx context.Context, execution *domain.MatchingExecution) error {
	executionModel := mappers.ToGORMExecution(execution)
	return r.DB.WithContext(ctx).Create(executionModel).Error
}

func (r *DefaultExecutionRepository) UpdateExecution(ctx context.Context, execution *domain.MatchingExecution) error {
	executionModel := mappers.ToGORMExecution(execution)
	return r.DB.WithContext(ctx).
		Model(&models.MatchingExecutionModel{}).
		Where("id = ?", execution.ID).
		Updates(executionModel).Error
}

func (r *DefaultExecutionRepository) GetExecutionByReference(ctx context.Context, reference string) (*domain.MatchingExecution, error) {
	var executionModel models.MatchingExecutionModel
	if err := r.DB.WithContext(ctx).
		First(&executionModel, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExecutionNotFound
		}
		return nil, err
	}

	return mappers.ToDomainExecution(&executionModel), nil
}

func (r *DefaultExecutionRepository) CreateScreeningTypeResult(ctx context.Context, result *domain.ScreeningTypeResult) error {
	resultModel := mappers.ToGORMScreeningTypeResult(result)
	return r.DB.WithContext(ctx).Create(resultModel).Error
}

func (r *DefaultExecutionRepository) UpdateScreeningTypeResult(ctx context.Context, result *domain.ScreeningTypeResult) error {
	resultModel := mappers.ToGORMScreeningTypeResult(result)
	return r.DB.WithContext(ctx).
		Model(&models.ScreeningTypeResultModel{}).
		Where("id = ?", result.ID).
		Updates(resultModel).Error
}
