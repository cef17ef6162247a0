package ports

import (
	"context"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract for order aggregates.
type OrderRepository interface {
	// Add stores a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update stores the new state of aggregate as a compare-and-swap against the
	// status and version it was read with. A concurrent change yields
	// errs.StaleStateError and writes nothing.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order with its ledger. Unknown ids yield errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByStatuses returns orders in any of statuses, oldest first.
	ListByStatuses(ctx context.Context, statuses []order.Status) ([]*order.Order, error)

	// ListOffersBefore returns orders awaiting courier acceptance offered at or before t.
	ListOffersBefore(ctx context.Context, t time.Time) ([]*order.Order, error)

	// ListUnflaggedArrivalsBefore returns arrived orders with no dispute flag whose
	// courier confirmed arrival at or before t.
	ListUnflaggedArrivalsBefore(ctx context.Context, t time.Time) ([]*order.Order, error)
}
