package notifier

import (
	"context"

	"github.com/carepool/screening-matching-service/internal/domain"
	"github.com/carepool/screening-matching-service/internal/infrastructure/kafka"
)

// KafkaNotifier forwards notifications to the notification-events topic.
type KafkaNotifier struct {
	publisher *kafka.KafkaPublisher
}

func NewKafkaNotifier(publisher *kafka.KafkaPublisher) *KafkaNotifier {
	return &KafkaNotifier{publisher: publisher}
}

func (n *KafkaNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	return n.publisher.PublishNotification(ctx, kafka.NotificationEvent{
		Type:             string(notification.Type),
		Title:            notification.Title,
		Message:          notification.Message,
		RecipientUserIDs: notification.RecipientUserIDs,
		Data:             notification.Data,
		SendEmail:        notification.SendEmail,
	})
}
