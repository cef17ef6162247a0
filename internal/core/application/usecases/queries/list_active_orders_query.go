package queries

import (
	"errors"
	"fmt"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrListActiveOrdersQueryIsNotConstructed = errors.New(
	"ListActiveOrdersQuery must be created via NewListActiveOrdersQuery constructor",
)

// ListActiveOrdersQuery lists orders in the given statuses for a dashboard. With no
// statuses it lists every non-terminal order.
//
// Example:
//
//	query, err := NewListActiveOrdersQuery(order.ReadyForDelivery, order.AssignedPendingAcceptance)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type ListActiveOrdersQuery struct {
	statuses []order.Status

	guard guard.ConstructorGuard
}

func NewListActiveOrdersQuery(statuses ...order.Status) (ListActiveOrdersQuery, error) {
	var errList []error
	for i, s := range statuses {
		if err := s.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("statuses[%d]: %w", i, err))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return ListActiveOrdersQuery{}, err
	}

	if len(statuses) == 0 {
		statuses = order.ActiveStatuses()
	}
	return ListActiveOrdersQuery{
		statuses: statuses,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q ListActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListActiveOrdersQueryIsNotConstructed)
}

func (q ListActiveOrdersQuery) Statuses() []order.Status {
	return q.statuses
}

// ListActiveOrdersQueryResponse is the dashboard row of an order.
type ListActiveOrdersQueryResponse struct {
	ID              kernel.UUID
	PatientID       kernel.UUID
	PharmacyID      kernel.UUID
	CourierID       *kernel.UUID
	Status          string
	Total           decimal.NullDecimal
	DeliveryAddress string
	Disputed        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
