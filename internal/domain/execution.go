package domain

import "time"

type ExecutionStatus string

const (
	ExecutionRunning   ExecutionStatus = "RUNNING"
	ExecutionCompleted ExecutionStatus = "COMPLETED"
	ExecutionFailed    ExecutionStatus = "FAILED"
)

// MatchingExecution is the audit record for one matching run. Created with
// status RUNNING before any work starts; immutable once COMPLETED or FAILED.
type MatchingExecution struct {
	ID         string
	Reference  string
	Status     ExecutionStatus
	ConfigJSON string

	ScreeningTypesProcessed int
	PatientsEvaluated       int
	SuccessfulMatches       int
	FundsAllocated          float64
	FundsReclaimed          float64
	ExpiredAllocations      int
	SkippedDueToLimits      int
	SkippedAlreadyMatched   int
	SkippedNoFunding        int

	Errors   []string
	Warnings []string

	StartedAt  time.Time
	FinishedAt *time.Time
}

// ScreeningTypeResult records the outcome of one screening-type group
// within a run.
type ScreeningTypeResult struct {
	ID                string
	ExecutionID       string
	ScreeningTypeID   string
	ScreeningTypeName string

	PatientsEvaluated     int
	Matched               int
	FundsAllocated        float64
	SkippedDueToLimits    int
	SkippedAlreadyMatched int
	SkippedNoFunding      int
	Error                 string

	StartedAt  time.Time
	FinishedAt *time.Time
}

type LogLevel string

const (
	LogInfo    LogLevel = "INFO"
	LogWarning LogLevel = "WARNING"
	LogError   LogLevel = "ERROR"
)

// ExecutionLogEntry is one append-only audit line tied to a run, optionally
// referencing the patient, campaign or waitlist entry it concerns.
type ExecutionLogEntry struct {
	ID              uint
	ExecutionID     string
	Level           LogLevel
	Message         string
	PatientID       string
	CampaignID      string
	WaitlistEntryID string
	CreatedAt       time.Time
}
