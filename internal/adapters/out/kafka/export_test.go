package kafka

import (
	"context"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

func NewSenderWithWriter(w Writer, logger *slog.Logger) *Sender {
	return newSender(w, logger)
}
