package ports

import (
	"context"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
)

// NotificationRepository stores the notification inbox.
type NotificationRepository interface {
	Add(ctx context.Context, notifications ...*notification.Notification) error

	Update(ctx context.Context, aggregate *notification.Notification) error

	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// ListByUser returns the notifications of userID, newest first.
	ListByUser(ctx context.Context, userID kernel.UUID, unreadOnly bool) ([]*notification.Notification, error)
}
