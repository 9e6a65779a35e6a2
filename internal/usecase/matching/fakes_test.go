package matching

import (
	"context"
	"sync"
	"time"

	"github.com/carepool/screening-matching-service/internal/domain"
)

type fakeWaitlistRepo struct {
	pending    []*domain.WaitlistEntry
	expired    []*domain.WaitlistEntry
	pendingErr error
}

func (f *fakeWaitlistRepo) FindPendingEntries(_ context.Context, limit int) ([]*domain.WaitlistEntry, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeWaitlistRepo) FindExpiredMatches(_ context.Context, _ time.Time) ([]*domain.WaitlistEntry, error) {
	return f.expired, nil
}

type fakeCampaignRepo struct {
	byType  map[string][]*domain.Campaign
	pool    *domain.Campaign
	poolErr error
}

func (f *fakeCampaignRepo) FindActiveByScreeningTypes(_ context.Context, _ []string) (map[string][]*domain.Campaign, error) {
	if f.byType == nil {
		return map[string][]*domain.Campaign{}, nil
	}
	return f.byType, nil
}

func (f *fakeCampaignRepo) GetGeneralPool(_ context.Context) (*domain.Campaign, error) {
	if f.poolErr != nil {
		return nil, f.poolErr
	}
	if f.pool == nil {
		return nil, domain.ErrGeneralPoolNotFound
	}
	return f.pool, nil
}

type fakeAllocationRepo struct {
	counts map[string]int
}

func (f *fakeAllocationRepo) CountActiveByPatients(_ context.Context, _ []string) (map[string]int, error) {
	if f.counts == nil {
		return map[string]int{}, nil
	}
	return f.counts, nil
}

func (f *fakeAllocationRepo) GetByWaitlistEntryID(_ context.Context, _ string) (*domain.Allocation, error) {
	return nil, domain.ErrAllocationNotFound
}

type fakeMatchingRepo struct {
	mu          sync.Mutex
	committed   []*domain.StagedMatch
	commitErr   error
	commitDelay time.Duration
	onCommit    func()

	reversals  map[string]*domain.Allocation
	reverseErr error
	reversed   []string
}

func (f *fakeMatchingRepo) CommitMatchBatch(_ context.Context, _ string, matches []*domain.StagedMatch) error {
	f.mu.Lock()
	err := f.commitErr
	f.mu.Unlock()
	if f.onCommit != nil {
		f.onCommit()
	}
	if f.commitDelay > 0 {
		time.Sleep(f.commitDelay)
	}
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, matches...)
	return nil
}

func (f *fakeMatchingRepo) ReverseExpiredAllocation(_ context.Context, waitlistEntryID string) (*domain.Allocation, error) {
	if f.reverseErr != nil {
		return nil, f.reverseErr
	}
	allocation, ok := f.reversals[waitlistEntryID]
	if !ok {
		return nil, domain.ErrAllocationNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reversed = append(f.reversed, waitlistEntryID)
	return allocation, nil
}

type fakeExecutionRepo struct {
	mu        sync.Mutex
	created   *domain.MatchingExecution
	updated   *domain.MatchingExecution
	results   []*domain.ScreeningTypeResult
	createErr error
	updateErr error
}

func (f *fakeExecutionRepo) CreateExecution(_ context.Context, execution *domain.MatchingExecution) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := *execution
	f.created = &snapshot
	return nil
}

func (f *fakeExecutionRepo) UpdateExecution(_ context.Context, execution *domain.MatchingExecution) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := *execution
	f.updated = &snapshot
	return nil
}

func (f *fakeExecutionRepo) GetExecutionByReference(_ context.Context, reference string) (*domain.MatchingExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated != nil && f.updated.Reference == reference {
		return f.updated, nil
	}
	if f.created != nil && f.created.Reference == reference {
		return f.created, nil
	}
	return nil, domain.ErrExecutionNotFound
}

func (f *fakeExecutionRepo) CreateScreeningTypeResult(_ context.Context, result *domain.ScreeningTypeResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := *result
	f.results = append(f.results, &snapshot)
	return nil
}

func (f *fakeExecutionRepo) UpdateScreeningTypeResult(_ context.Context, result *domain.ScreeningTypeResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.results {
		if existing.ID == result.ID {
			snapshot := *result
			f.results[i] = &snapshot
			return nil
		}
	}
	snapshot := *result
	f.results = append(f.results, &snapshot)
	return nil
}

type fakeExecLogger struct {
	mu      sync.Mutex
	entries []*domain.ExecutionLogEntry
}

func (f *fakeExecLogger) Append(_ context.Context, entry *domain.ExecutionLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, notification domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notifications)
}

type fixture struct {
	waitlist   *fakeWaitlistRepo
	campaigns  *fakeCampaignRepo
	alloc      *fakeAllocationRepo
	matching   *fakeMatchingRepo
	executions *fakeExecutionRepo
	execLogger *fakeExecLogger
	notifier   *fakeNotifier
	usecase    *DefaultMatchingUsecase
}

func newFixture() *fixture {
	f := &fixture{
		waitlist:   &fakeWaitlistRepo{},
		campaigns:  &fakeCampaignRepo{},
		alloc:      &fakeAllocationRepo{},
		matching:   &fakeMatchingRepo{},
		executions: &fakeExecutionRepo{},
		execLogger: &fakeExecLogger{},
		notifier:   &fakeNotifier{},
	}
	f.usecase = NewDefaultMatchingUsecase(
		f.waitlist, f.campaigns, f.alloc, f.matching, f.executions, f.execLogger, f.notifier,
	)
	return f
}

func pendingEntry(id, patientID string, screening *domain.ScreeningType, joinedAt time.Time) *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		ID:              id,
		PatientID:       patientID,
		ScreeningTypeID: screening.ID,
		Status:          domain.WaitlistPending,
		JoinedAt:        joinedAt,
		Patient:         &domain.PatientProfile{UserID: patientID},
		ScreeningType:   screening,
	}
}

func activeCampaign(id string, available float64, screeningTypeIDs ...string) *domain.Campaign {
	return &domain.Campaign{
		ID:               id,
		DonorID:          "donor-" + id,
		Status:           domain.CampaignActive,
		AvailableAmount:  available,
		ScreeningTypeIDs: screeningTypeIDs,
	}
}
