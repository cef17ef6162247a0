package commands

import (
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrLedgerOperationCommandIsNotConstructed = errors.New(
	"LedgerOperationCommand must be created via NewLedgerOperationCommand constructor",
)

// LedgerPayload carries the arguments of a ledger operation. Index is used by
// set_pharmacist_pricing only; Price is ignored for add_patient_item.
type LedgerPayload struct {
	Index     int
	Name      string
	Price     decimal.Decimal
	Available bool
	SurBon    bool
}

// LedgerOperationCommand edits the medication ledger of an order.
type LedgerOperationCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actor     kernel.Actor
	operation order.LedgerOperation
	payload   LedgerPayload

	guard guard.ConstructorGuard
}

func NewLedgerOperationCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	operation order.LedgerOperation,
	payload LedgerPayload,
) (LedgerOperationCommand, error) {
	cmd := LedgerOperationCommand{
		orderID:   orderID,
		actor:     actor,
		operation: operation,
		payload:   payload,
		guard:     guard.NewConstructorGuard(),
	}

	_, opErr := order.ParseLedgerOperation(operation.String())
	if err := errors.Join(
		requiredID(orderID, "orderId"),
		requiredActor(actor),
		opErr,
	); err != nil {
		return LedgerOperationCommand{}, err
	}

	return cmd, nil
}

func (c LedgerOperationCommand) Validate() error {
	return c.guard.Validate(ErrLedgerOperationCommandIsNotConstructed)
}

func (c LedgerOperationCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c LedgerOperationCommand) Actor() kernel.Actor {
	return c.actor
}

func (c LedgerOperationCommand) Operation() order.LedgerOperation {
	return c.operation
}

func (c LedgerOperationCommand) Payload() LedgerPayload {
	return c.payload
}

func requiredID(id kernel.UUID, name string) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}

func requiredActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actor", err)
	}
	return nil
}
