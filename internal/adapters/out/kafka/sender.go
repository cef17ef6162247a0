// Package kafka publishes committed notifications to a Kafka topic, one JSON message
// per notification keyed by order id so the events of one order stay in one partition.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/ports"

	kafkago "github.com/segmentio/kafka-go"
)

var ErrBrokersAreRequired = errors.New("at least one kafka broker is required")

// Message is the wire form of a notification.
type Message struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	OrderID        string    `json:"order_id"`
	Kind           string    `json:"kind"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Urgency        string    `json:"urgency"`
	Channel        string    `json:"channel"`
	CreatedAt      time.Time `json:"created_at"`
}

func newMessage(e notification.Envelope) Message {
	return Message{
		NotificationID: e.NotificationID.String(),
		UserID:         e.UserID.String(),
		OrderID:        e.OrderID.String(),
		Kind:           e.Kind.String(),
		Title:          e.Title,
		Message:        e.Message,
		Urgency:        e.Urgency.String(),
		Channel:        string(e.Channel),
		CreatedAt:      e.CreatedAt,
	}
}

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Sender implements ports.NotificationSender on a kafka-go writer.
type Sender struct {
	writer writer
	logger *slog.Logger
}

var _ ports.NotificationSender = (*Sender)(nil)

// NewSender creates an asynchronous writer for topic. Send returns once the message is
// queued; delivery failures are logged by the writer's completion callback.
func NewSender(brokers []string, topic string, logger *slog.Logger) (*Sender, error) {
	if len(brokers) == 0 {
		return nil, ErrBrokersAreRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "kafka_sender", "topic", topic)

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafkago.Message, err error) {
			if err == nil {
				return
			}
			for _, m := range messages {
				logger.Error("failed to deliver notification", "key", string(m.Key), "error", err)
			}
		},
	}
	return newSender(w, logger), nil
}

func newSender(w writer, logger *slog.Logger) *Sender {
	return &Sender{writer: w, logger: logger}
}

func (s *Sender) Send(ctx context.Context, envelope notification.Envelope) error {
	value, err := json.Marshal(newMessage(envelope))
	if err != nil {
		return err
	}

	return s.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(envelope.OrderID.String()),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(envelope.Kind.String())},
		},
	})
}

// Close flushes queued messages.
func (s *Sender) Close() error {
	return s.writer.Close()
}
