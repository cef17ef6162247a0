package queries

import (
	"context"

	"pharmacy/internal/core/ports"
)

// ListAvailableCouriersQueryHandler lists couriers holding no order, sorted by name.
//
// Example:
//
//	handler := NewListAvailableCouriersQueryHandler(factory.Create().CourierRepository())
//
//	couriers, err := handler.Handle(ctx, NewListAvailableCouriersQuery())
//	if err != nil {
//	    return err
//	}
//	for _, c := range couriers {
//	    fmt.Printf("%s (%s)\n", c.Name, c.ID)
//	}
type ListAvailableCouriersQueryHandler struct {
	couriers ports.CourierRepository
}

func NewListAvailableCouriersQueryHandler(couriers ports.CourierRepository) ListAvailableCouriersQueryHandler {
	return ListAvailableCouriersQueryHandler{couriers: couriers}
}

func (h ListAvailableCouriersQueryHandler) Handle(
	ctx context.Context,
	query ListAvailableCouriersQuery,
) ([]ListAvailableCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	list, err := h.couriers.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	couriers := make([]ListAvailableCouriersQueryResponse, 0, len(list))
	for _, c := range list {
		couriers = append(couriers, ListAvailableCouriersQueryResponse{
			ID:   c.ID(),
			Name: c.Name(),
		})
	}
	return couriers, nil
}
