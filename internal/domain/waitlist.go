package domain

import "time"

type WaitlistStatus string

const (
	WaitlistPending WaitlistStatus = "PENDING"
	WaitlistMatched WaitlistStatus = "MATCHED"
	WaitlistClaimed WaitlistStatus = "CLAIMED"
	WaitlistExpired WaitlistStatus = "EXPIRED"
)

// WaitlistEntry is a patient's request to be matched with funding for a
// specific screening type. At most one PENDING or MATCHED entry may exist
// per (patient, screening type) pair.
type WaitlistEntry struct {
	ID              string
	PatientID       string
	ScreeningTypeID string
	Status          WaitlistStatus
	JoinedAt        time.Time
	MatchedAt       *time.Time
	ClaimedAt       *time.Time

	Patient       *PatientProfile
	ScreeningType *ScreeningType
}

// Active reports whether the entry still occupies the patient's slot for
// its screening type.
func (e *WaitlistEntry) Active() bool {
	return e.Status == WaitlistPending || e.Status == WaitlistMatched
}
