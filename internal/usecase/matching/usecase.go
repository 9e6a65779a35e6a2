package matching

import (
	"context"
	"log/slog"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/metrics"
	matchingdto "github.com/carepool/screening-matching-service/internal/usecase/dto/matching"
	"github.com/jaevor/go-nanoid"
)

type MatchingUsecase interface {
	RunMatching(ctx context.Context, input *matchingdto.RunMatchingInput) *matchingdto.RunMatchingOutput
	GetExecutionByReference(ctx context.Context, reference string) (*domain.MatchingExecution, error)
}

type DefaultMatchingUsecase struct {
	waitlistRepo   domain.WaitlistRepository
	campaignRepo   domain.CampaignRepository
	allocationRepo domain.AllocationRepository
	matchingRepo   domain.MatchingRepository
	executionRepo  domain.ExecutionRepository
	execLogger     domain.ExecutionLogger
	notifier       domain.Notifier
	Metrics        *metrics.MatchingMetrics
}

func NewDefaultMatchingUsecase(
	waitlistRepo domain.WaitlistRepository,
	campaignRepo domain.CampaignRepository,
	allocationRepo domain.AllocationRepository,
	matchingRepo domain.MatchingRepository,
	executionRepo domain.ExecutionRepository,
	execLogger domain.ExecutionLogger,
	notifier domain.Notifier,
) *DefaultMatchingUsecase {
	return &DefaultMatchingUsecase{
		waitlistRepo:   waitlistRepo,
		campaignRepo:   campaignRepo,
		allocationRepo: allocationRepo,
		matchingRepo:   matchingRepo,
		executionRepo:  executionRepo,
		execLogger:     execLogger,
		notifier:       notifier,
	}
}

func (uc *DefaultMatchingUsecase) GetExecutionByReference(ctx context.Context, reference string) (*domain.MatchingExecution, error) {
	return uc.executionRepo.GetExecutionByReference(ctx, reference)
}

// newReference produces the human-opaque execution reference returned to
// callers.
func (uc *DefaultMatchingUsecase) newReference() string {
	generate, err := nanoid.Standard(15)
	if err != nil {
		// nanoid.Standard only fails on invalid length
		return "mx_fallback"
	}
	return "mx_" + generate()
}

// appendLog writes an audit line, logging but never propagating failures:
// the execution log is best-effort relative to the run itself.
func (uc *DefaultMatchingUsecase) appendLog(ctx context.Context, entry *domain.ExecutionLogEntry) {
	if uc.execLogger == nil {
		return
	}
	if err := uc.execLogger.Append(ctx, entry); err != nil {
		slog.Error("failed to append execution log entry",
			"execution_id", entry.ExecutionID, "error", err.Error())
	}
}

// notifyAsync dispatches a notification fire-and-forget: delivery failures
// are logged and never reach the caller.
func (uc *DefaultMatchingUsecase) notifyAsync(notification domain.Notification) {
	if uc.notifier == nil {
		return
	}
	go func(n domain.Notification) {
		if err := uc.notifier.Notify(context.Background(), n); err != nil {
			slog.Error("failed to dispatch notification",
				"type", string(n.Type), "error", err.Error())
		}
	}(notification)
}
