package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Kafka publishes tracking events to a single topic, keyed by user so a
// user's events stay ordered within a partition.
type Kafka struct {
	writer *kafka.Writer
}

// NewKafka creates a Kafka notifier for the given brokers and topic.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		},
	}
}

// NotifyStarted publishes a tracking.started event.
func (k *Kafka) NotifyStarted(ctx context.Context, userID, activityID uuid.UUID, at time.Time) error {
	return k.publish(ctx, TrackingEvent{
		Kind:       KindStarted,
		UserID:     userID,
		ActivityID: activityID,
		Timestamp:  at,
	})
}

// NotifyStopped publishes a tracking.stopped event.
func (k *Kafka) NotifyStopped(ctx context.Context, userID uuid.UUID) error {
	return k.publish(ctx, TrackingEvent{
		Kind:      KindStopped,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	})
}

func (k *Kafka) publish(ctx context.Context, event TrackingEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal tracking event: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID.String()),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish tracking event: %w", err)
	}

	return nil
}

// Close releases the underlying writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
