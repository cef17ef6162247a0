package queries

import (
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/guard"
)

var ErrListAvailableCouriersQueryIsNotConstructed = errors.New(
	"ListAvailableCouriersQuery must be created via NewListAvailableCouriersQuery constructor",
)

// ListAvailableCouriersQuery retrieves the couriers a pharmacist can offer an order to.
// This is a parameterless query.
type ListAvailableCouriersQuery struct {
	guard guard.ConstructorGuard
}

func NewListAvailableCouriersQuery() ListAvailableCouriersQuery {
	return ListAvailableCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrListAvailableCouriersQueryIsNotConstructed if validation fails.
func (q ListAvailableCouriersQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableCouriersQueryIsNotConstructed)
}

// ListAvailableCouriersQueryResponse represents a free courier.
type ListAvailableCouriersQueryResponse struct {
	ID   kernel.UUID
	Name string
}
