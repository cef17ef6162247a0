package commands

import (
	"errors"
	"fmt"
	"strings"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// ApplyTransitionCommand asks to move an order along its lifecycle on behalf of an actor.
//
// Example:
//
//	cmd, err := NewApplyTransitionCommand(orderID, pharmacist, order.ActionOffer,
//	    order.Payload{CourierID: courierID})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd.WithExpectedStatus(order.ReadyForDelivery))
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	actor          kernel.Actor
	action         order.Action
	payload        order.Payload
	expectedStatus order.Status

	guard guard.ConstructorGuard
}

func NewApplyTransitionCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	action order.Action,
	payload order.Payload,
) (ApplyTransitionCommand, error) {
	cmd := ApplyTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setAction(action, payload),
	); err != nil {
		return ApplyTransitionCommand{}, err
	}

	return cmd, nil
}

// WithExpectedStatus makes the command fail with errs.StaleStateError unless the
// order is still in status when it is applied.
func (c ApplyTransitionCommand) WithExpectedStatus(status order.Status) ApplyTransitionCommand {
	c.expectedStatus = status
	return c
}

func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

func (c ApplyTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ApplyTransitionCommand) Actor() kernel.Actor {
	return c.actor
}

func (c ApplyTransitionCommand) Action() order.Action {
	return c.action
}

func (c ApplyTransitionCommand) Payload() order.Payload {
	return c.payload
}

// ExpectedStatus returns the expected pre-state, if one was set.
func (c ApplyTransitionCommand) ExpectedStatus() (order.Status, bool) {
	return c.expectedStatus, c.expectedStatus != order.Unknown
}

func (c *ApplyTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	c.orderID = orderID
	return nil
}

func (c *ApplyTransitionCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actor", err)
	}

	c.actor = actor
	return nil
}

func (c *ApplyTransitionCommand) setAction(action order.Action, payload order.Payload) error {
	switch action {
	case order.ActionUnknown, order.ActionSubmit:
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q cannot be applied", action))
	case order.ActionOffer:
		if err := payload.CourierID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause("courierId", err)
		}
	case order.ActionConfirm, order.ActionReject, order.ActionStartPreparing, order.ActionMarkReady,
		order.ActionAccept, order.ActionDecline, order.ActionExpire, order.ActionArrive,
		order.ActionConfirmReceipt, order.ActionForceConfirm, order.ActionCancel, order.ActionFlagDispute:
	}

	payload.Reason = strings.TrimSpace(payload.Reason)
	c.action = action
	c.payload = payload
	return nil
}
