package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
	matchingdto "github.com/carepool/screening-matching-service/internal/usecase/dto/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMatching_AllocatesFromTargetedCampaign(t *testing.T) {
	f := newFixture()
	st := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	f.waitlist.pending = []*domain.WaitlistEntry{pendingEntry("w1", "p1", st, time.Now())}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
	}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.NotEmpty(t, output.ExecutionReference)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 5000.0, output.Metrics.FundsAllocated)

	require.Len(t, f.matching.committed, 1)
	assert.Equal(t, "c1", f.matching.committed[0].CampaignID)
	assert.Equal(t, "w1", f.matching.committed[0].WaitlistEntryID)
	assert.Equal(t, 5000.0, f.matching.committed[0].Amount)

	require.NotNil(t, f.executions.updated)
	assert.Equal(t, domain.ExecutionCompleted, f.executions.updated.Status)
	assert.Equal(t, 1, f.executions.updated.SuccessfulMatches)
	assert.NotNil(t, f.executions.updated.FinishedAt)

	require.Eventually(t, func() bool { return f.notifier.count() >= 2 },
		time.Second, 10*time.Millisecond, "patient and donor notifications expected")
}

func TestRunMatching_FallsBackToGeneralPool(t *testing.T) {
	f := newFixture()
	st := &domain.ScreeningType{ID: "st-1", Name: "Prostate Screening", Price: 3000}
	f.waitlist.pending = []*domain.WaitlistEntry{pendingEntry("w1", "p1", st, time.Now())}
	f.campaigns.pool = &domain.Campaign{
		ID: "pool", Status: domain.CampaignActive, IsGeneralPool: true, AvailableAmount: 3000,
	}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	require.Len(t, f.matching.committed, 1)
	assert.Equal(t, "pool", f.matching.committed[0].CampaignID)
}

func TestRunMatching_SkipsPatientAtAllocationLimit(t *testing.T) {
	f := newFixture()
	st := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	f.waitlist.pending = []*domain.WaitlistEntry{pendingEntry("w1", "p1", st, time.Now())}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
	}
	f.alloc.counts = map[string]int{"p1": domain.MaxActiveAllocationsPerPatient}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 0, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 1, output.Metrics.SkippedDueToLimits)
	assert.Empty(t, f.matching.committed)
}

func TestRunMatching_FundsLimitEnforcedFirstComeFirstServed(t *testing.T) {
	f := newFixture()
	st := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	base := time.Now()
	f.waitlist.pending = []*domain.WaitlistEntry{
		pendingEntry("w-late", "p2", st, base.Add(time.Hour)),
		pendingEntry("w-early", "p1", st, base),
	}
	// One screening's worth of funds: only the earliest joiner gets it.
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 5000, "st-1")},
	}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 1, output.Metrics.SkippedNoFunding)
	require.Len(t, f.matching.committed, 1)
	assert.Equal(t, "w-early", f.matching.committed[0].WaitlistEntryID)
}

func TestRunMatching_ReclaimsExpiredAllocationsBeforeMatching(t *testing.T) {
	f := newFixture()
	st := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 2000}
	expired := pendingEntry("w-old", "p9", st, time.Now().AddDate(0, 0, -40))
	expired.Status = domain.WaitlistMatched
	f.waitlist.expired = []*domain.WaitlistEntry{expired}
	f.matching.reversals = map[string]*domain.Allocation{
		"w-old": {ID: "a1", WaitlistEntryID: "w-old", CampaignID: "c1", Amount: 2000},
	}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.ExpiredAllocations)
	assert.Equal(t, 2000.0, output.Metrics.FundsReclaimed)
	assert.Equal(t, []string{"w-old"}, f.matching.reversed)

	require.Eventually(t, func() bool { return f.notifier.count() >= 1 },
		time.Second, 10*time.Millisecond, "expiry notification expected")
}

func TestRunMatching_ExpiryFailureIsWarningNotFailure(t *testing.T) {
	f := newFixture()
	st := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 2000}
	expired := pendingEntry("w-old", "p9", st, time.Now().AddDate(0, 0, -40))
	expired.Status = domain.WaitlistMatched
	f.waitlist.expired = []*domain.WaitlistEntry{expired}
	f.matching.reverseErr = errors.New("deadlock detected")
	f.campaigns.pool = &domain.Campaign{
		ID: "pool", Status: domain.CampaignActive, IsGeneralPool: true, AvailableAmount: 100000,
	}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 0, output.Metrics.ExpiredAllocations)
	assert.Equal(t, 1, output.Metrics.Warnings)
}

func TestRunMatching_NoDuplicateMatchForSamePatientAndType(t *testing.T) {
	f := newFixture()
	st := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	base := time.Now()
	f.waitlist.pending = []*domain.WaitlistEntry{
		pendingEntry("w1", "p1", st, base),
		pendingEntry("w2", "p1", st, base.Add(time.Minute)),
	}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 100000, "st-1")},
	}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	require.Len(t, f.matching.committed, 1)
	assert.Equal(t, "w1", f.matching.committed[0].WaitlistEntryID)
}

func TestRunMatching_GroupCommitFailureIsIsolated(t *testing.T) {
	f := newFixture()
	st := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	f.waitlist.pending = []*domain.WaitlistEntry{pendingEntry("w1", "p1", st, time.Now())}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
	}
	f.matching.commitErr = domain.ErrInsufficientCampaignFunds

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	// The run completes; the group failure is recorded, not propagated.
	require.True(t, output.Success)
	assert.Equal(t, 0, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 1, output.Metrics.Errors)
	require.NotNil(t, f.executions.updated)
	assert.Equal(t, domain.ExecutionCompleted, f.executions.updated.Status)
	require.Len(t, f.executions.results, 1)
	assert.NotEmpty(t, f.executions.results[0].Error)
}

func TestRunMatching_InfrastructureFailureMarksRunFailed(t *testing.T) {
	f := newFixture()
	f.waitlist.pendingErr = errors.New("connection refused")

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.False(t, output.Success)
	assert.NotEmpty(t, output.Error)
	require.NotNil(t, f.executions.updated)
	assert.Equal(t, domain.ExecutionFailed, f.executions.updated.Status)
}

func TestRunMatching_CreateExecutionFailure(t *testing.T) {
	f := newFixture()
	f.executions.createErr = errors.New("connection refused")

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.False(t, output.Success)
	assert.Empty(t, output.ExecutionReference)
}

func TestRunMatching_MissingGeneralPoolIsWarning(t *testing.T) {
	f := newFixture()
	st := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	f.waitlist.pending = []*domain.WaitlistEntry{pendingEntry("w1", "p1", st, time.Now())}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
	}
	f.campaigns.poolErr = domain.ErrGeneralPoolNotFound

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 1, output.Metrics.Warnings)
}

func TestRunMatching_ParallelProcessingMatchesAllGroups(t *testing.T) {
	f := newFixture()
	st1 := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	st2 := &domain.ScreeningType{ID: "st-2", Name: "Prostate Screening", Price: 3000}
	st3 := &domain.ScreeningType{ID: "st-3", Name: "Breast Screening", Price: 4000}
	base := time.Now()
	f.waitlist.pending = []*domain.WaitlistEntry{
		pendingEntry("w1", "p1", st1, base),
		pendingEntry("w2", "p2", st2, base),
		pendingEntry("w3", "p3", st3, base),
	}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
		"st-2": {activeCampaign("c2", 10000, "st-2")},
		"st-3": {activeCampaign("c3", 10000, "st-3")},
	}
	parallel := true
	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{
		ParallelProcessing:          &parallel,
		MaxConcurrentScreeningTypes: intPtr(2),
	})

	require.True(t, output.Success)
	assert.Equal(t, 3, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 3, output.Metrics.ScreeningTypesProcessed)
	assert.Equal(t, 12000.0, output.Metrics.FundsAllocated)
	assert.Len(t, f.matching.committed, 3)
}

func TestRunMatching_PatientLimitAppliesAcrossGroups(t *testing.T) {
	f := newFixture()
	st1 := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	st2 := &domain.ScreeningType{ID: "st-2", Name: "Prostate Screening", Price: 3000}
	base := time.Now()
	f.waitlist.pending = []*domain.WaitlistEntry{
		pendingEntry("w1", "p1", st1, base),
		pendingEntry("w2", "p1", st2, base.Add(time.Minute)),
	}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
		"st-2": {activeCampaign("c2", 10000, "st-2")},
	}
	// One more match puts the patient at the cap.
	f.alloc.counts = map[string]int{"p1": domain.MaxActiveAllocationsPerPatient - 1}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 1, output.Metrics.SkippedDueToLimits)
	require.Len(t, f.matching.committed, 1)
	assert.Equal(t, "w1", f.matching.committed[0].WaitlistEntryID)
}

func TestRunMatching_CapEnforcedAcrossParallelGroups(t *testing.T) {
	f := newFixture()
	st1 := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	st2 := &domain.ScreeningType{ID: "st-2", Name: "Prostate Screening", Price: 3000}
	base := time.Now()
	f.waitlist.pending = []*domain.WaitlistEntry{
		pendingEntry("w1", "p1", st1, base),
		pendingEntry("w2", "p1", st2, base.Add(time.Minute)),
	}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
		"st-2": {activeCampaign("c2", 10000, "st-2")},
	}
	// One more match puts the patient at the cap; the slow commit keeps
	// both groups in flight at once.
	f.alloc.counts = map[string]int{"p1": domain.MaxActiveAllocationsPerPatient - 1}
	f.matching.commitDelay = 50 * time.Millisecond

	parallel := true
	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{
		ParallelProcessing:          &parallel,
		MaxConcurrentScreeningTypes: intPtr(2),
	})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 1, output.Metrics.SkippedDueToLimits)
	assert.Len(t, f.matching.committed, 1)
}

func TestRunMatching_CommitFailureReleasesCapReservation(t *testing.T) {
	f := newFixture()
	st1 := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	st2 := &domain.ScreeningType{ID: "st-2", Name: "Prostate Screening", Price: 3000}
	base := time.Now()
	f.waitlist.pending = []*domain.WaitlistEntry{
		pendingEntry("w1", "p1", st1, base),
		pendingEntry("w2", "p1", st2, base.Add(time.Minute)),
	}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
		"st-2": {activeCampaign("c2", 10000, "st-2")},
	}
	f.alloc.counts = map[string]int{"p1": domain.MaxActiveAllocationsPerPatient - 1}
	// First group's commit fails; its reservation must not count against
	// the patient when the second group runs.
	f.matching.commitErr = domain.ErrInsufficientCampaignFunds
	f.matching.onCommit = func() {
		f.matching.mu.Lock()
		f.matching.commitErr = nil
		f.matching.mu.Unlock()
	}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 0, output.Metrics.SkippedDueToLimits)
	require.Len(t, f.matching.committed, 1)
	assert.Equal(t, "w2", f.matching.committed[0].WaitlistEntryID)
}

func TestRunMatching_PoolBalanceCarriesAcrossSequentialGroups(t *testing.T) {
	f := newFixture()
	st1 := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	st2 := &domain.ScreeningType{ID: "st-2", Name: "Prostate Screening", Price: 5000}
	base := time.Now()
	f.waitlist.pending = []*domain.WaitlistEntry{
		pendingEntry("w1", "p1", st1, base),
		pendingEntry("w2", "p2", st2, base.Add(time.Minute)),
	}
	// One screening's worth of pool money: the second group must see the
	// depleted balance and skip, not stage and fail its whole commit.
	f.campaigns.pool = &domain.Campaign{
		ID: "pool", Status: domain.CampaignActive, IsGeneralPool: true, AvailableAmount: 5000,
	}

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 1, output.Metrics.SkippedNoFunding)
	assert.Equal(t, 0, output.Metrics.Errors)
	require.Len(t, f.matching.committed, 1)
	assert.Equal(t, "w1", f.matching.committed[0].WaitlistEntryID)
}

func TestRunMatching_CancellationFinishesPartialRunAsCompleted(t *testing.T) {
	f := newFixture()
	st1 := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	st2 := &domain.ScreeningType{ID: "st-2", Name: "Prostate Screening", Price: 3000}
	base := time.Now()
	f.waitlist.pending = []*domain.WaitlistEntry{
		pendingEntry("w1", "p1", st1, base),
		pendingEntry("w2", "p2", st2, base.Add(time.Minute)),
	}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
		"st-2": {activeCampaign("c2", 10000, "st-2")},
	}
	f.campaigns.pool = &domain.Campaign{
		ID: "pool", Status: domain.CampaignActive, IsGeneralPool: true, AvailableAmount: 100000,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.matching.onCommit = cancel

	output := f.usecase.RunMatching(ctx, &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 1, output.Metrics.ScreeningTypesProcessed)
	assert.Equal(t, 1, output.Metrics.Warnings)
	require.Len(t, f.matching.committed, 1)
	assert.Equal(t, "w1", f.matching.committed[0].WaitlistEntryID)
	require.NotNil(t, f.executions.updated)
	assert.Equal(t, domain.ExecutionCompleted, f.executions.updated.Status)
}

func TestRunMatching_CancellationStopsRemainingParallelChunks(t *testing.T) {
	f := newFixture()
	st1 := &domain.ScreeningType{ID: "st-1", Name: "Cervical Screening", Price: 5000}
	st2 := &domain.ScreeningType{ID: "st-2", Name: "Prostate Screening", Price: 3000}
	base := time.Now()
	f.waitlist.pending = []*domain.WaitlistEntry{
		pendingEntry("w1", "p1", st1, base),
		pendingEntry("w2", "p2", st2, base.Add(time.Minute)),
	}
	f.campaigns.byType = map[string][]*domain.Campaign{
		"st-1": {activeCampaign("c1", 10000, "st-1")},
		"st-2": {activeCampaign("c2", 10000, "st-2")},
	}
	f.campaigns.pool = &domain.Campaign{
		ID: "pool", Status: domain.CampaignActive, IsGeneralPool: true, AvailableAmount: 100000,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.matching.onCommit = cancel

	parallel := true
	output := f.usecase.RunMatching(ctx, &matchingdto.RunMatchingInput{
		ParallelProcessing:          &parallel,
		MaxConcurrentScreeningTypes: intPtr(1),
	})

	require.True(t, output.Success)
	assert.Equal(t, 1, output.Metrics.SuccessfulMatches)
	assert.Equal(t, 1, output.Metrics.Warnings)
	require.NotNil(t, f.executions.updated)
	assert.Equal(t, domain.ExecutionCompleted, f.executions.updated.Status)
}

func TestRunMatching_EmptyWaitlistCompletesCleanly(t *testing.T) {
	f := newFixture()

	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})

	require.True(t, output.Success)
	assert.Equal(t, 0, output.Metrics.SuccessfulMatches)
	require.NotNil(t, f.executions.updated)
	assert.Equal(t, domain.ExecutionCompleted, f.executions.updated.Status)
}

func TestGetExecutionByReference(t *testing.T) {
	f := newFixture()
	output := f.usecase.RunMatching(context.Background(), &matchingdto.RunMatchingInput{})
	require.True(t, output.Success)

	execution, err := f.usecase.GetExecutionByReference(context.Background(), output.ExecutionReference)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionCompleted, execution.Status)

	_, err = f.usecase.GetExecutionByReference(context.Background(), "mx_unknown")
	assert.ErrorIs(t, err, domain.ErrExecutionNotFound)
}
