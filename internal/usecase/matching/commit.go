package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/google/uuid"
)

// runState is the per-run shared accumulator consulted by concurrent
// groups: active allocation counts per patient, (patient, screening type)
// pairs already matched this run, and funds already committed per campaign.
type runState struct {
	mu             sync.Mutex
	activeCounts   map[string]int
	alreadyMatched map[string]struct{}
	fundsUsed      map[string]float64
}

// releaseReservations returns cap reservations taken at selection time for
// entries that did not end up committed.
func (s *runState) releaseReservations(patientIDs []string) {
	if len(patientIDs) == 0 {
		return
	}
	s.mu.Lock()
	for _, id := range patientIDs {
		s.activeCounts[id]--
	}
	s.mu.Unlock()
}

// processScreeningGroup drives one screening-type group through the
// eligibility filter, per-patient campaign selection and the batch commit.
// Group-level failures are recorded in the returned delta, never
// propagated: sibling groups must not be affected.
func (uc *DefaultMatchingUsecase) processScreeningGroup(
	ctx context.Context,
	executionID string,
	screening *domain.ScreeningType,
	entries []*domain.WaitlistEntry,
	campaigns []*domain.Campaign,
	generalPool *domain.Campaign,
	cfg RunConfig,
	state *runState,
) RunMetrics {
	var m RunMetrics
	start := time.Now()

	result := &domain.ScreeningTypeResult{
		ID:                uuid.New().String(),
		ExecutionID:       executionID,
		ScreeningTypeID:   screening.ID,
		ScreeningTypeName: screening.Name,
		StartedAt:         start,
	}
	if err := uc.executionRepo.CreateScreeningTypeResult(ctx, result); err != nil {
		msg := fmt.Sprintf("failed to create result record for %s: %v", screening.Name, err)
		slog.Error("screening group aborted", "screening_type", screening.Name, "error", err.Error())
		m.AddError(msg)
		return m
	}

	state.mu.Lock()
	selection := SelectBatch(entries, state.activeCounts, state.alreadyMatched, cfg.BatchSizePerScreeningType)
	// Reserve the cap for every admitted entry while still holding the
	// lock, so a concurrent group cannot admit the same patient past the
	// limit. Reservations for entries that do not commit are released below.
	for _, entry := range selection.Batch {
		state.activeCounts[entry.PatientID]++
	}
	// Local copies net of funds other groups already committed: staging
	// decrements available funds provisionally so one campaign is not
	// over-selected within the group. The transaction re-checks the real
	// balances under row locks.
	localCampaigns := cloneCampaigns(campaigns, state.fundsUsed)
	localPool := cloneCampaign(generalPool, state.fundsUsed)
	state.mu.Unlock()

	m.SkippedDueToLimits += selection.SkippedDueToLimits
	m.SkippedAlreadyMatched += selection.SkippedAlreadyMatched
	if uc.Metrics != nil {
		uc.Metrics.PatientsSkippedTotal.WithLabelValues("limit_exceeded").Add(float64(selection.SkippedDueToLimits))
		uc.Metrics.PatientsSkippedTotal.WithLabelValues("already_matched").Add(float64(selection.SkippedAlreadyMatched))
	}

	staged := make([]*domain.StagedMatch, 0, len(selection.Batch))
	released := make([]string, 0)
	for _, entry := range selection.Batch {
		if entry.Patient == nil {
			m.AddWarning(fmt.Sprintf("waitlist entry %s has no patient profile, skipped", entry.ID))
			released = append(released, entry.PatientID)
			continue
		}
		m.PatientsEvaluated++

		campaign, err := uc.selectCampaignSafe(entry.Patient, screening, localCampaigns, localPool, cfg.Toggles())
		if err != nil {
			msg := fmt.Sprintf("selection failed for patient %s: %v", entry.PatientID, err)
			m.AddWarning(msg)
			uc.appendLog(ctx, &domain.ExecutionLogEntry{
				ExecutionID:     executionID,
				Level:           domain.LogWarning,
				Message:         msg,
				PatientID:       entry.PatientID,
				WaitlistEntryID: entry.ID,
			})
			released = append(released, entry.PatientID)
			continue
		}
		if campaign == nil {
			m.SkippedNoFunding++
			if uc.Metrics != nil {
				uc.Metrics.PatientsSkippedTotal.WithLabelValues("no_funding").Inc()
			}
			released = append(released, entry.PatientID)
			continue
		}

		campaign.AvailableAmount -= screening.Price
		staged = append(staged, &domain.StagedMatch{
			WaitlistEntryID: entry.ID,
			PatientID:       entry.PatientID,
			CampaignID:      campaign.ID,
			DonorID:         campaign.DonorID,
			Amount:          screening.Price,
		})
	}

	state.releaseReservations(released)

	result.PatientsEvaluated = m.PatientsEvaluated
	result.SkippedDueToLimits = selection.SkippedDueToLimits
	result.SkippedAlreadyMatched = selection.SkippedAlreadyMatched
	result.SkippedNoFunding = m.SkippedNoFunding

	if len(staged) > 0 {
		if err := uc.matchingRepo.CommitMatchBatch(ctx, executionID, staged); err != nil {
			msg := fmt.Sprintf("batch commit failed for %s: %v", screening.Name, err)
			slog.Error("batch commit failed", "screening_type", screening.Name, "error", err.Error())
			m.AddError(msg)
			result.Error = msg
			if uc.Metrics != nil {
				uc.Metrics.GroupErrorsTotal.WithLabelValues(screening.Name).Inc()
			}
			uc.appendLog(ctx, &domain.ExecutionLogEntry{
				ExecutionID: executionID,
				Level:       domain.LogError,
				Message:     msg,
			})

			rolledBack := make([]string, 0, len(staged))
			for _, match := range staged {
				rolledBack = append(rolledBack, match.PatientID)
			}
			state.releaseReservations(rolledBack)
		} else {
			m.SuccessfulMatches = len(staged)
			for _, match := range staged {
				m.FundsAllocated += match.Amount
			}

			// Cap reservations were taken at selection time; only the pair
			// markers and committed funds remain to record.
			state.mu.Lock()
			for _, match := range staged {
				state.alreadyMatched[MatchKey(match.PatientID, screening.ID)] = struct{}{}
				state.fundsUsed[match.CampaignID] += match.Amount
			}
			state.mu.Unlock()

			if uc.Metrics != nil {
				uc.Metrics.MatchesTotal.WithLabelValues(screening.Name).Add(float64(len(staged)))
				uc.Metrics.FundsAllocatedTotal.WithLabelValues(screening.Name).Add(m.FundsAllocated)
			}

			uc.sendMatchNotifications(ctx, executionID, screening, staged)
		}
	}

	result.Matched = m.SuccessfulMatches
	result.FundsAllocated = m.FundsAllocated
	finished := time.Now()
	result.FinishedAt = &finished
	if err := uc.executionRepo.UpdateScreeningTypeResult(ctx, result); err != nil {
		m.AddWarning(fmt.Sprintf("failed to finalize result record for %s: %v", screening.Name, err))
	}

	m.ScreeningTypesProcessed++
	slog.Info("screening group processed",
		"screening_type", screening.Name,
		"evaluated", m.PatientsEvaluated,
		"matched", m.SuccessfulMatches,
		"elapsed", time.Since(start))

	return m
}

// selectCampaignSafe isolates a single patient's selection: a panic while
// scoring one patient must not take down the group.
func (uc *DefaultMatchingUsecase) selectCampaignSafe(
	patient *domain.PatientProfile,
	screening *domain.ScreeningType,
	candidates []*domain.Campaign,
	generalPool *domain.Campaign,
	toggles TargetingToggles,
) (campaign *domain.Campaign, err error) {
	defer func() {
		if r := recover(); r != nil {
			campaign = nil
			err = fmt.Errorf("panic during campaign selection: %v", r)
		}
	}()
	return SelectCampaign(patient, screening, candidates, generalPool, toggles), nil
}

func (uc *DefaultMatchingUsecase) sendMatchNotifications(
	ctx context.Context,
	executionID string,
	screening *domain.ScreeningType,
	matches []*domain.StagedMatch,
) {
	for _, match := range matches {
		uc.appendLog(ctx, &domain.ExecutionLogEntry{
			ExecutionID:     executionID,
			Level:           domain.LogInfo,
			Message:         fmt.Sprintf("patient matched to campaign %s for %.2f", match.CampaignID, match.Amount),
			PatientID:       match.PatientID,
			CampaignID:      match.CampaignID,
			WaitlistEntryID: match.WaitlistEntryID,
		})

		uc.notifyAsync(domain.Notification{
			Type:             domain.NotificationScreeningMatched,
			Title:            "You have been matched for a free screening",
			Message:          fmt.Sprintf("Funding has been reserved for your %s. Claim your slot to book an appointment.", screening.Name),
			RecipientUserIDs: []string{match.PatientID},
			Data: map[string]string{
				"waitlist_entry_id": match.WaitlistEntryID,
				"campaign_id":       match.CampaignID,
				"screening_type_id": screening.ID,
			},
			SendEmail: true,
		})

		if match.DonorID != "" {
			uc.notifyAsync(domain.Notification{
				Type:             domain.NotificationCampaignMatched,
				Title:            "Your campaign funded a patient",
				Message:          fmt.Sprintf("Your campaign reserved %.2f for a patient's %s.", match.Amount, screening.Name),
				RecipientUserIDs: []string{match.DonorID},
				Data: map[string]string{
					"campaign_id":       match.CampaignID,
					"screening_type_id": screening.ID,
				},
			})
		}
	}
}

func cloneCampaigns(campaigns []*domain.Campaign, fundsUsed map[string]float64) []*domain.Campaign {
	cloned := make([]*domain.Campaign, len(campaigns))
	for i, campaign := range campaigns {
		cloned[i] = cloneCampaign(campaign, fundsUsed)
	}
	return cloned
}

// cloneCampaign copies a campaign with its balance net of funds the run has
// already committed, so a group never stages against money a sibling group
// spent after the run-start snapshot.
func cloneCampaign(campaign *domain.Campaign, fundsUsed map[string]float64) *domain.Campaign {
	if campaign == nil {
		return nil
	}
	clone := *campaign
	clone.AvailableAmount -= fundsUsed[campaign.ID]
	return &clone
}
