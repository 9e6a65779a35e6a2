package background

import (
	"context"
	"log/slog"
	"time"

	matchingdto "github.com/carepool/screening-matching-service/internal/usecase/dto/matching"
	"github.com/carepool/screening-matching-service/internal/usecase/matching"
)

// BackgroundTasks drives scheduled matching runs when the scheduler is
// enabled in config.
type BackgroundTasks struct {
	MatchingUsecase matching.MatchingUsecase
	Interval        time.Duration
}

func NewBackgroundTasks(matchingUC matching.MatchingUsecase, interval time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		MatchingUsecase: matchingUC,
		Interval:        interval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startScheduledMatching(ctx)
}

func (bt *BackgroundTasks) startScheduledMatching(ctx context.Context) {
	ticker := time.NewTicker(bt.Interval)
	defer ticker.Stop()

	slog.Info("scheduled matching enabled", "interval", bt.Interval.String())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			output := bt.MatchingUsecase.RunMatching(ctx, &matchingdto.RunMatchingInput{})
			if !output.Success {
				slog.Error("scheduled matching run failed",
					"reference", output.ExecutionReference, "error", output.Error)
				continue
			}
			slog.Info("scheduled matching run completed",
				"reference", output.ExecutionReference,
				"matches", output.Metrics.SuccessfulMatches,
				"funds_allocated", output.Metrics.FundsAllocated)
		}
	}
}
