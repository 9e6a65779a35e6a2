package domain

import "context"

type NotificationType string

const (
	NotificationScreeningMatched  NotificationType = "SCREENING_MATCHED"
	NotificationCampaignMatched   NotificationType = "CAMPAIGN_PATIENT_MATCHED"
	NotificationAllocationExpired NotificationType = "ALLOCATION_EXPIRED"
)

type Notification struct {
	Type             NotificationType
	Title            string
	Message          string
	RecipientUserIDs []string
	Data             map[string]string
	SendEmail        bool
}

// Notifier delivers notifications best-effort. Callers treat failures as
// log-and-continue; delivery never participates in a transaction.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}
