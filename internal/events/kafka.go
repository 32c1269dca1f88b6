package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"vehicle-rental-backend/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes each event as JSON to "<prefix><event name>".
type KafkaSink struct {
	writer      messageWriter
	topicPrefix string
}

func NewKafkaSink(brokers []string, topicPrefix string) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka sink requires at least one broker")
	}
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		topicPrefix: topicPrefix,
	}, nil
}

func (s *KafkaSink) Name() string { return "kafka" }

type envelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// Deliver writes the whole batch with a single WriteMessages call.
func (s *KafkaSink) Deliver(ctx context.Context, msgs []Message) error {
	out := make([]kafka.Message, 0, len(msgs))
	now := time.Now().UTC()
	for _, msg := range msgs {
		key, at, payload := describe(msg)
		value, err := json.Marshal(envelope{Event: msg.Event.EventName(), OccurredAt: at, Payload: payload})
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", msg.Event.EventName(), err)
		}
		out = append(out, kafka.Message{
			Topic: s.topicPrefix + msg.Event.EventName(),
			Key:   []byte(key),
			Value: value,
			Time:  now,
		})
	}
	if len(out) == 0 {
		return nil
	}
	return s.writer.WriteMessages(ctx, out...)
}

func describe(msg Message) (key string, at time.Time, payload any) {
	switch e := msg.Event.(type) {
	case domain.BookingChanged:
		return strconv.FormatInt(e.Key(), 10), e.At, e
	case domain.ActivityRecorded:
		return e.Activity.Entity + ":" + e.Activity.EntityID, e.Activity.Timestamp, e.Activity
	case domain.NotificationRequested:
		if msg.Notification != nil {
			return strconv.FormatInt(msg.Notification.UserID, 10), e.At, msg.Notification
		}
		return "", e.At, e
	}
	return "", time.Now().UTC(), msg.Event
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
