// Package notifylog is the notification transport used when no broker is configured.
// It writes every notification to a structured logger.
package notifylog

import (
	"context"
	"log/slog"

	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/ports"
)

type Sender struct {
	logger *slog.Logger
}

var _ ports.NotificationSender = (*Sender)(nil)

func NewSender(logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{logger: logger.With("component", "notification_log")}
}

func (s *Sender) Send(ctx context.Context, e notification.Envelope) error {
	s.logger.InfoContext(ctx, "notification",
		"notification_id", e.NotificationID.String(),
		"user_id", e.UserID.String(),
		"order_id", e.OrderID.String(),
		"kind", e.Kind.String(),
		"urgency", e.Urgency.String(),
		"channel", string(e.Channel),
		"title", e.Title,
	)
	return nil
}
