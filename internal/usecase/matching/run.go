package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
	matchingdto "github.com/carepool/screening-matching-service/internal/usecase/dto/matching"
	"github.com/google/uuid"
)

// screeningGroup is one screening type's slice of the pending waitlist.
type screeningGroup struct {
	screening *domain.ScreeningType
	entries   []*domain.WaitlistEntry
}

// RunMatching is the single entry point of the matching engine. It always
// returns a structured result: infrastructure failures surface as
// Success=false, everything below that is isolated, logged and counted.
func (uc *DefaultMatchingUsecase) RunMatching(ctx context.Context, input *matchingdto.RunMatchingInput) (out *matchingdto.RunMatchingOutput) {
	start := time.Now()
	cfg := DefaultRunConfig().Merge(input)

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		cfgJSON = []byte("{}")
	}

	execution := &domain.MatchingExecution{
		ID:         uuid.New().String(),
		Reference:  uc.newReference(),
		Status:     domain.ExecutionRunning,
		ConfigJSON: string(cfgJSON),
		StartedAt:  start,
	}

	// A panic anywhere below must not escape the orchestrator boundary.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("matching run panicked", "execution_id", execution.ID, "panic", fmt.Sprint(r))
			out = uc.failRun(ctx, execution, fmt.Errorf("matching run panicked: %v", r), nil)
		}
		if uc.Metrics != nil {
			uc.Metrics.RunDuration.Observe(time.Since(start).Seconds())
		}
	}()

	if err := uc.executionRepo.CreateExecution(ctx, execution); err != nil {
		// Cannot track an untracked run.
		slog.Error("failed to create matching execution", "error", err.Error())
		if uc.Metrics != nil {
			uc.Metrics.RunsTotal.WithLabelValues("failed").Inc()
		}
		return &matchingdto.RunMatchingOutput{
			Success: false,
			Error:   fmt.Sprintf("failed to create matching execution: %v", err),
		}
	}

	slog.Info("matching run started", "execution_id", execution.ID, "reference", execution.Reference)
	uc.appendLog(ctx, &domain.ExecutionLogEntry{
		ExecutionID: execution.ID,
		Level:       domain.LogInfo,
		Message:     fmt.Sprintf("matching run started with config %s", execution.ConfigJSON),
	})

	var runMetrics RunMetrics
	runMetrics.Merge(uc.reclaimExpired(ctx, execution.ID, cfg.AllocationExpiryDays))

	// One comprehensive load: pending entries with joined profiles and
	// screening types, active allocation counts, candidate campaigns and
	// the general pool.
	entries, err := uc.waitlistRepo.FindPendingEntries(ctx, cfg.MaxPatientsPerRun)
	if err != nil {
		return uc.failRun(ctx, execution, fmt.Errorf("failed to load pending waitlist entries: %w", err), &runMetrics)
	}

	patientIDs := uniquePatientIDs(entries)
	activeCounts, err := uc.allocationRepo.CountActiveByPatients(ctx, patientIDs)
	if err != nil {
		return uc.failRun(ctx, execution, fmt.Errorf("failed to load active allocation counts: %w", err), &runMetrics)
	}

	groups := groupByScreeningType(entries)
	screeningTypeIDs := make([]string, 0, len(groups))
	for _, group := range groups {
		screeningTypeIDs = append(screeningTypeIDs, group.screening.ID)
	}

	campaignsByType, err := uc.campaignRepo.FindActiveByScreeningTypes(ctx, screeningTypeIDs)
	if err != nil {
		return uc.failRun(ctx, execution, fmt.Errorf("failed to load candidate campaigns: %w", err), &runMetrics)
	}

	generalPool, err := uc.campaignRepo.GetGeneralPool(ctx)
	if err != nil {
		// Matching can proceed on targeted campaigns alone.
		runMetrics.AddWarning(fmt.Sprintf("general pool unavailable: %v", err))
		generalPool = nil
	}

	state := &runState{
		activeCounts:   activeCounts,
		alreadyMatched: make(map[string]struct{}),
		fundsUsed:      make(map[string]float64),
	}

	if cfg.ParallelProcessing && len(groups) > 1 {
		uc.processGroupsParallel(ctx, execution.ID, groups, campaignsByType, generalPool, cfg, state, &runMetrics)
	} else {
		for _, group := range groups {
			if ctx.Err() != nil {
				runMetrics.AddWarning(fmt.Sprintf("run cancelled before processing %s", group.screening.Name))
				break
			}
			delta := uc.processScreeningGroup(ctx, execution.ID, group.screening, group.entries,
				campaignsByType[group.screening.ID], generalPool, cfg, state)
			runMetrics.Merge(delta)
		}
	}

	return uc.completeRun(ctx, execution, &runMetrics)
}

// processGroupsParallel runs screening-type groups in chunks of at most
// MaxConcurrentScreeningTypes. Groups never share a (patient, screening
// type) pair; campaign funds contention is resolved by the commit
// transaction's row locks.
func (uc *DefaultMatchingUsecase) processGroupsParallel(
	ctx context.Context,
	executionID string,
	groups []*screeningGroup,
	campaignsByType map[string][]*domain.Campaign,
	generalPool *domain.Campaign,
	cfg RunConfig,
	state *runState,
	runMetrics *RunMetrics,
) {
	var metricsMu sync.Mutex

	for offset := 0; offset < len(groups); offset += cfg.MaxConcurrentScreeningTypes {
		if ctx.Err() != nil {
			metricsMu.Lock()
			runMetrics.AddWarning("run cancelled, remaining screening types not processed")
			metricsMu.Unlock()
			return
		}

		end := offset + cfg.MaxConcurrentScreeningTypes
		if end > len(groups) {
			end = len(groups)
		}

		var wg sync.WaitGroup
		for _, group := range groups[offset:end] {
			wg.Add(1)
			go func(group *screeningGroup) {
				defer wg.Done()
				delta := uc.processScreeningGroup(ctx, executionID, group.screening, group.entries,
					campaignsByType[group.screening.ID], generalPool, cfg, state)
				metricsMu.Lock()
				runMetrics.Merge(delta)
				metricsMu.Unlock()
			}(group)
		}
		wg.Wait()
	}
}

// completeRun finalizes the audit record as COMPLETED. Partial runs (e.g.
// after cancellation) are still COMPLETED with whatever subset was
// processed.
func (uc *DefaultMatchingUsecase) completeRun(ctx context.Context, execution *domain.MatchingExecution, m *RunMetrics) *matchingdto.RunMatchingOutput {
	applyMetrics(execution, m)
	execution.Status = domain.ExecutionCompleted
	finished := time.Now()
	execution.FinishedAt = &finished

	if err := uc.executionRepo.UpdateExecution(ctx, execution); err != nil {
		slog.Error("failed to finalize matching execution",
			"execution_id", execution.ID, "error", err.Error())
		if uc.Metrics != nil {
			uc.Metrics.RunsTotal.WithLabelValues("failed").Inc()
		}
		return &matchingdto.RunMatchingOutput{
			Success:            false,
			ExecutionReference: execution.Reference,
			Error:              fmt.Sprintf("failed to finalize matching execution: %v", err),
			Metrics:            m.Summary(),
		}
	}

	if uc.Metrics != nil {
		uc.Metrics.RunsTotal.WithLabelValues("completed").Inc()
	}

	slog.Info("matching run completed",
		"execution_id", execution.ID,
		"reference", execution.Reference,
		"matches", execution.SuccessfulMatches,
		"funds_allocated", execution.FundsAllocated,
		"funds_reclaimed", execution.FundsReclaimed)

	uc.appendLog(ctx, &domain.ExecutionLogEntry{
		ExecutionID: execution.ID,
		Level:       domain.LogInfo,
		Message: fmt.Sprintf("matching run completed: %d matched, %.2f allocated, %.2f reclaimed",
			execution.SuccessfulMatches, execution.FundsAllocated, execution.FundsReclaimed),
	})

	return &matchingdto.RunMatchingOutput{
		Success:            true,
		ExecutionReference: execution.Reference,
		Metrics:            m.Summary(),
	}
}

// failRun marks the audit record FAILED after an infrastructure-level
// error and returns the structured failure result.
func (uc *DefaultMatchingUsecase) failRun(ctx context.Context, execution *domain.MatchingExecution, cause error, m *RunMetrics) *matchingdto.RunMatchingOutput {
	slog.Error("matching run failed", "execution_id", execution.ID, "error", cause.Error())

	summary := matchingdto.MetricsSummary{}
	if m != nil {
		m.AddError(cause.Error())
		applyMetrics(execution, m)
		summary = m.Summary()
	} else {
		execution.Errors = append(execution.Errors, cause.Error())
	}

	execution.Status = domain.ExecutionFailed
	finished := time.Now()
	execution.FinishedAt = &finished
	if err := uc.executionRepo.UpdateExecution(ctx, execution); err != nil {
		slog.Error("failed to mark matching execution as failed",
			"execution_id", execution.ID, "error", err.Error())
	}

	uc.appendLog(ctx, &domain.ExecutionLogEntry{
		ExecutionID: execution.ID,
		Level:       domain.LogError,
		Message:     fmt.Sprintf("matching run failed: %v", cause),
	})

	if uc.Metrics != nil {
		uc.Metrics.RunsTotal.WithLabelValues("failed").Inc()
	}

	return &matchingdto.RunMatchingOutput{
		Success:            false,
		ExecutionReference: execution.Reference,
		Error:              cause.Error(),
		Metrics:            summary,
	}
}

func applyMetrics(execution *domain.MatchingExecution, m *RunMetrics) {
	execution.ScreeningTypesProcessed = m.ScreeningTypesProcessed
	execution.PatientsEvaluated = m.PatientsEvaluated
	execution.SuccessfulMatches = m.SuccessfulMatches
	execution.FundsAllocated = m.FundsAllocated
	execution.FundsReclaimed = m.FundsReclaimed
	execution.ExpiredAllocations = m.ExpiredAllocations
	execution.SkippedDueToLimits = m.SkippedDueToLimits
	execution.SkippedAlreadyMatched = m.SkippedAlreadyMatched
	execution.SkippedNoFunding = m.SkippedNoFunding
	execution.Errors = m.Errors
	execution.Warnings = m.Warnings
}

// groupByScreeningType partitions entries preserving the joined-at order
// of the underlying load.
func groupByScreeningType(entries []*domain.WaitlistEntry) []*screeningGroup {
	byType := make(map[string]*screeningGroup)
	order := make([]*screeningGroup, 0)
	for _, entry := range entries {
		if entry.ScreeningType == nil {
			continue
		}
		group, ok := byType[entry.ScreeningTypeID]
		if !ok {
			group = &screeningGroup{screening: entry.ScreeningType}
			byType[entry.ScreeningTypeID] = group
			order = append(order, group)
		}
		group.entries = append(group.entries, entry)
	}
	return order
}

func uniquePatientIDs(entries []*domain.WaitlistEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.PatientID]; ok {
			continue
		}
		seen[entry.PatientID] = struct{}{}
		ids = append(ids, entry.PatientID)
	}
	return ids
}
