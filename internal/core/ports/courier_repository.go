package ports

import (
	"context"

	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"
)

// CourierRepository is the persistence contract for courier aggregates.
type CourierRepository interface {
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update is a compare-and-swap on the version the courier was read with. A
	// concurrent change yields errs.StaleStateError.
	Update(ctx context.Context, aggregate *courier.Courier) error

	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// ListAvailable returns couriers holding no order, by name.
	ListAvailable(ctx context.Context) ([]*courier.Courier, error)
}
