package domain

import "time"

// Allocation links one waitlist entry to the campaign funding it. Never
// hard-deleted: expiry flips the waitlist entry to EXPIRED and reverses the
// funds while the allocation stays as the audit trail.
type Allocation struct {
	ID              string
	WaitlistEntryID string
	CampaignID      string
	ExecutionID     string
	Amount          float64
	CreatedAt       time.Time
	ClaimedAt       *time.Time
}

// MaxActiveAllocationsPerPatient bounds a patient's simultaneous unclaimed
// commitments across screening types.
const MaxActiveAllocationsPerPatient = 3
