package matching

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
)

// reclaimExpired reverts MATCHED entries older than the expiry window back
// to available campaign funds. Runs before new matching in every
// invocation. Per-entry failures are logged and skipped; an aggregate
// delta is returned for the run metrics.
func (uc *DefaultMatchingUsecase) reclaimExpired(ctx context.Context, executionID string, expiryDays int) RunMetrics {
	var m RunMetrics

	cutoff := time.Now().AddDate(0, 0, -expiryDays)
	entries, err := uc.waitlistRepo.FindExpiredMatches(ctx, cutoff)
	if err != nil {
		msg := fmt.Sprintf("expiry scan failed: %v", err)
		slog.Error("expiry scan failed", "execution_id", executionID, "error", err.Error())
		m.AddWarning(msg)
		uc.appendLog(ctx, &domain.ExecutionLogEntry{
			ExecutionID: executionID,
			Level:       domain.LogWarning,
			Message:     msg,
		})
		return m
	}

	for _, entry := range entries {
		allocation, err := uc.matchingRepo.ReverseExpiredAllocation(ctx, entry.ID)
		if err != nil {
			msg := fmt.Sprintf("failed to expire allocation for waitlist entry %s: %v", entry.ID, err)
			slog.Error("allocation expiry failed",
				"execution_id", executionID, "waitlist_entry_id", entry.ID, "error", err.Error())
			m.AddWarning(msg)
			uc.appendLog(ctx, &domain.ExecutionLogEntry{
				ExecutionID:     executionID,
				Level:           domain.LogWarning,
				Message:         msg,
				PatientID:       entry.PatientID,
				WaitlistEntryID: entry.ID,
			})
			continue
		}

		m.ExpiredAllocations++
		m.FundsReclaimed += allocation.Amount

		uc.appendLog(ctx, &domain.ExecutionLogEntry{
			ExecutionID:     executionID,
			Level:           domain.LogInfo,
			Message:         fmt.Sprintf("allocation %s expired, %.2f returned to campaign", allocation.ID, allocation.Amount),
			PatientID:       entry.PatientID,
			CampaignID:      allocation.CampaignID,
			WaitlistEntryID: entry.ID,
		})

		screeningName := ""
		if entry.ScreeningType != nil {
			screeningName = entry.ScreeningType.Name
		}
		uc.notifyAsync(domain.Notification{
			Type:             domain.NotificationAllocationExpired,
			Title:            "Screening allocation expired",
			Message:          fmt.Sprintf("Your funding reservation for %s was not claimed in time and has expired. You can rejoin the waitlist.", screeningName),
			RecipientUserIDs: []string{entry.PatientID},
			Data: map[string]string{
				"waitlist_entry_id": entry.ID,
				"allocation_id":     allocation.ID,
			},
			SendEmail: true,
		})
	}

	if uc.Metrics != nil {
		uc.Metrics.AllocationsExpiredTotal.Add(float64(m.ExpiredAllocations))
		uc.Metrics.FundsReclaimedTotal.Add(m.FundsReclaimed)
	}

	return m
}
