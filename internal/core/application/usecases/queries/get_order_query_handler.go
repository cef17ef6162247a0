package queries

import (
	"context"

	"pharmacy/internal/core/ports"
)

// GetOrderQueryHandler loads one order from the order repository.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(factory.Create().OrderRepository())
//	query, _ := NewGetOrderQuery(orderID)
//
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("order %s is %s, total %s\n", view.ID, view.Status, view.Total.Decimal)
type GetOrderQueryHandler struct {
	orders ports.OrderRepository
}

func NewGetOrderQueryHandler(orders ports.OrderRepository) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return newGetOrderQueryResponse(o), nil
}
