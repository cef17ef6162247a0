package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh unit of work per business operation.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork groups the writes of one operation into a single atomic change over
// orders, couriers and notifications.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	// Rollback discards uncommitted writes. Handlers defer it right after Begin.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	CourierRepository() CourierRepository

	NotificationRepository() NotificationRepository
}
