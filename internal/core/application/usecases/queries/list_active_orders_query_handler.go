package queries

import (
	"context"

	"pharmacy/internal/core/ports"
)

// ListActiveOrdersQueryHandler returns dashboard rows oldest first.
type ListActiveOrdersQueryHandler struct {
	orders ports.OrderRepository
}

func NewListActiveOrdersQueryHandler(orders ports.OrderRepository) ListActiveOrdersQueryHandler {
	return ListActiveOrdersQueryHandler{orders: orders}
}

func (h ListActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListActiveOrdersQuery,
) ([]ListActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	list, err := h.orders.ListByStatuses(ctx, query.Statuses())
	if err != nil {
		return nil, err
	}

	rows := make([]ListActiveOrdersQueryResponse, 0, len(list))
	for _, o := range list {
		rows = append(rows, ListActiveOrdersQueryResponse{
			ID:              o.ID(),
			PatientID:       o.PatientID(),
			PharmacyID:      o.PharmacyID(),
			CourierID:       o.Courier(),
			Status:          o.Status().String(),
			Total:           o.Total(),
			DeliveryAddress: o.DeliveryAddress(),
			Disputed:        o.DisputeFlaggedAt() != nil,
			CreatedAt:       o.CreatedAt(),
			UpdatedAt:       o.UpdatedAt(),
		})
	}
	return rows, nil
}
