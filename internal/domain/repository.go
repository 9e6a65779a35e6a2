package domain

import (
	"context"
	"time"
)

// StagedMatch is one funding decision produced by the campaign selector,
// waiting to be committed as part of a screening-type batch.
type StagedMatch struct {
	WaitlistEntryID string
	PatientID       string
	CampaignID      string
	DonorID         string
	Amount          float64
}

type WaitlistRepository interface {
	// FindPendingEntries returns PENDING entries with their patient profile
	// and screening type joined, ordered by joined_at ascending, capped at
	// limit.
	FindPendingEntries(ctx context.Context, limit int) ([]*WaitlistEntry, error)
	// FindExpiredMatches returns MATCHED entries whose joined_at is older
	// than the cutoff.
	FindExpiredMatches(ctx context.Context, olderThan time.Time) ([]*WaitlistEntry, error)
}

type CampaignRepository interface {
	// FindActiveByScreeningTypes returns ACTIVE non-pool campaigns keyed by
	// each screening type they fund, restricted to the given types.
	FindActiveByScreeningTypes(ctx context.Context, screeningTypeIDs []string) (map[string][]*Campaign, error)
	GetGeneralPool(ctx context.Context) (*Campaign, error)
}

type AllocationRepository interface {
	// CountActiveByPatients counts, per patient, allocations with a null
	// claimed_at whose waitlist entry is not EXPIRED.
	CountActiveByPatients(ctx context.Context, patientIDs []string) (map[string]int, error)
	GetByWaitlistEntryID(ctx context.Context, waitlistEntryID string) (*Allocation, error)
}

// MatchingRepository owns the write sequences that must be atomic: a fund
// decrement, a waitlist status flip and an allocation insert never happen
// across independent calls.
type MatchingRepository interface {
	// CommitMatchBatch applies all staged matches of one screening-type
	// group in a single transaction. Campaign rows are locked and the
	// available-funds precondition re-checked inside the transaction; any
	// failure rolls back the whole batch.
	CommitMatchBatch(ctx context.Context, executionID string, matches []*StagedMatch) error
	// ReverseExpiredAllocation flips one MATCHED entry to EXPIRED and
	// returns the reserved funds to the source campaign in its own
	// transaction. The allocation row is kept and returned for auditing.
	ReverseExpiredAllocation(ctx context.Context, waitlistEntryID string) (*Allocation, error)
}

type ExecutionRepository interface {
	CreateExecution(ctx context.Context, execution *MatchingExecution) error
	UpdateExecution(ctx context.Context, execution *MatchingExecution) error
	GetExecutionByReference(ctx context.Context, reference string) (*MatchingExecution, error)
	CreateScreeningTypeResult(ctx context.Context, result *ScreeningTypeResult) error
	UpdateScreeningTypeResult(ctx context.Context, result *ScreeningTypeResult) error
}

// ExecutionLogger appends structured audit lines for a run. Append-only.
type ExecutionLogger interface {
	Append(ctx context.Context, entry *ExecutionLogEntry) error
}
