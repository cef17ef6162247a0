package ports

import (
	"context"
	"time"

	"pharmacy/internal/core/domain/model/notification"
)

// NotificationSender hands a committed notification to a transport. Implementations
// must not block on the network.
type NotificationSender interface {
	Send(ctx context.Context, envelope notification.Envelope) error
}

// Clock is the injectable time source.
type Clock interface {
	Now() time.Time
}
