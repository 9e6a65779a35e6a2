package mappers

import (
	"encoding/json"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/postgres/models"
)

func ToGORMExecution(execution *domain.MatchingExecution) *models.MatchingExecutionModel {
	return &models.MatchingExecutionModel{
		ID:                      execution.ID,
		Reference:               execution.Reference,
		Status:                  execution.Status,
		ConfigJSON:              execution.ConfigJSON,
		ScreeningTypesProcessed: execution.ScreeningTypesProcessed,
		PatientsEvaluated:       execution.PatientsEvaluated,
		SuccessfulMatches:       execution.SuccessfulMatches,
		FundsAllocated:          execution.FundsAllocated,
		FundsReclaimed:          execution.FundsReclaimed,
		ExpiredAllocations:      execution.ExpiredAllocations,
		SkippedDueToLimits:      execution.SkippedDueToLimits,
		SkippedAlreadyMatched:   execution.SkippedAlreadyMatched,
		SkippedNoFunding:        execution.SkippedNoFunding,
		Errors:                  encodeStringList(execution.Errors),
		Warnings:                encodeStringList(execution.Warnings),
		StartedAt:               execution.StartedAt,
		FinishedAt:              execution.FinishedAt,
	}
}

func ToDomainExecution(model *models.MatchingExecutionModel) *domain.MatchingExecution {
	return &domain.MatchingExecution{
		ID:                      model.ID,
		Reference:               model.Reference,
		Status:                  model.Status,
		ConfigJSON:              model.ConfigJSON,
		ScreeningTypesProcessed: model.ScreeningTypesProcessed,
		PatientsEvaluated:       model.PatientsEvaluated,
		SuccessfulMatches:       model.SuccessfulMatches,
		FundsAllocated:          model.FundsAllocated,
		FundsReclaimed:          model.FundsReclaimed,
		ExpiredAllocations:      model.ExpiredAllocations,
		SkippedDueToLimits:      model.SkippedDueToLimits,
		SkippedAlreadyMatched:   model.SkippedAlreadyMatched,
		SkippedNoFunding:        model.SkippedNoFunding,
		Errors:                  decodeStringList(model.Errors),
		Warnings:                decodeStringList(model.Warnings),
		StartedAt:               model.StartedAt,
		FinishedAt:              model.FinishedAt,
	}
}

func ToGORMScreeningTypeResult(result *domain.ScreeningTypeResult) *models.ScreeningTypeResultModel {
	return &models.ScreeningTypeResultModel{
		ID:                    result.ID,
		ExecutionID:           result.ExecutionID,
		ScreeningTypeID:       result.ScreeningTypeID,
		ScreeningTypeName:     result.ScreeningTypeName,
		PatientsEvaluated:     result.PatientsEvaluated,
		Matched:               result.Matched,
		FundsAllocated:        result.FundsAllocated,
		SkippedDueToLimits:    result.SkippedDueToLimits,
		SkippedAlreadyMatched: result.SkippedAlreadyMatched,
		SkippedNoFunding:      result.SkippedNoFunding,
		Error:                 result.Error,
		StartedAt:             result.StartedAt,
		FinishedAt:            result.FinishedAt,
	}
}

func encodeStringList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func decodeStringList(encoded string) []string {
	if encoded == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(encoded), &list); err != nil {
		return nil
	}
	return list
}
