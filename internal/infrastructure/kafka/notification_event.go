package kafka

// NotificationEvent is the wire shape consumed by the notification service.
type NotificationEvent struct {
	Type             string            `json:"type"`
	Title            string            `json:"title"`
	Message          string            `json:"message"`
	RecipientUserIDs []string          `json:"recipient_user_ids"`
	Data             map[string]string `json:"data,omitempty"`
	SendEmail        bool              `json:"send_email"`
}
