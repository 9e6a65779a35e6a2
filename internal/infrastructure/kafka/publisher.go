package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *KafkaPublisher) PublishNotification(ctx context.Context, event NotificationEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := event.Type
	if len(event.RecipientUserIDs) > 0 {
		key = event.RecipientUserIDs[0]
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: msg,
		Time:  time.Now(),
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
