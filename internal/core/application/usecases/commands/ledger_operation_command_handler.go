package commands

import (
	"context"

	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"

	"github.com/shopspring/decimal"
)

// LedgerResult is the ledger after a successful edit. Total is invalid while no
// medication has been priced.
type LedgerResult struct {
	Items []order.LineItem
	Total decimal.NullDecimal
}

// LedgerOperationCommandHandler applies a ledger edit and stores the order with the
// same compare-and-swap as a lifecycle transition.
type LedgerOperationCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewLedgerOperationCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) LedgerOperationCommandHandler {
	return LedgerOperationCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h LedgerOperationCommandHandler) Handle(ctx context.Context, cmd LedgerOperationCommand) (LedgerResult, error) {
	if err := cmd.Validate(); err != nil {
		return LedgerResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return LedgerResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return LedgerResult{}, err
	}

	now := h.clock.Now()
	p := cmd.Payload()
	switch cmd.Operation() {
	case order.LedgerAddPatientItem:
		err = o.AddPatientItem(cmd.Actor(), p.Name, p.SurBon, now)
	case order.LedgerSetPricing:
		err = o.SetPharmacistPricing(cmd.Actor(), p.Index, p.Price, p.Available, p.SurBon, now)
	case order.LedgerAddPharmacistItem:
		err = o.AddPharmacistItem(cmd.Actor(), p.Name, p.Price, p.Available, p.SurBon, now)
	}
	if err != nil {
		return LedgerResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return LedgerResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return LedgerResult{}, err
	}

	return LedgerResult{
		Items: o.Items(),
		Total: o.ComputeTotal(),
	}, nil
}
