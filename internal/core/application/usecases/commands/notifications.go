package commands

import (
	"context"
	"log/slog"

	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"
)

// Outbox hands committed notifications to the transport. A failed send is logged and
// dropped: the state change it reports is already committed and is never rolled back
// because of delivery.
type Outbox struct {
	sender ports.NotificationSender
	logger *slog.Logger
}

func NewOutbox(sender ports.NotificationSender, logger *slog.Logger) Outbox {
	if logger == nil {
		logger = slog.Default()
	}
	return Outbox{
		sender: sender,
		logger: logger.With("component", "notification_outbox"),
	}
}

// Publish sends every notification. It must only be called after Commit.
func (o Outbox) Publish(ctx context.Context, notifications []*notification.Notification) {
	if o.sender == nil {
		return
	}
	for _, n := range notifications {
		envelope := n.Envelope()
		if err := o.sender.Send(ctx, envelope); err != nil {
			o.logger.WarnContext(ctx, "failed to send notification",
				"notification_id", envelope.NotificationID.String(),
				"order_id", envelope.OrderID.String(),
				"kind", envelope.Kind.String(),
				"error", err,
			)
		}
	}
}

// storeNotifications composes the notifications of a transition and adds them to the
// inbox of the current unit of work.
func storeNotifications(
	ctx context.Context,
	repo ports.NotificationRepository,
	dispatcher notification.Dispatcher,
	tr order.Transition,
) ([]*notification.Notification, error) {
	out, err := dispatcher.Compose(tr)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	if err = repo.Add(ctx, out...); err != nil {
		return nil, err
	}
	return out, nil
}
