package commands

import (
	"context"
	"errors"

	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/domain/services"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"
)

// TransitionResult is the committed outcome of a lifecycle action.
type TransitionResult struct {
	OrderID   kernel.UUID
	From      order.Status
	NewStatus order.Status
	Effects   []order.Effect
}

// TransitionHandler applies one lifecycle action. Sweeps depend on it so they can be
// tested without storage.
type TransitionHandler interface {
	Handle(ctx context.Context, cmd ApplyTransitionCommand) (TransitionResult, error)
}

// ApplyTransitionCommandHandler performs a lifecycle action as one compare-and-swap
// over the order, the courier it involves and the notifications it produces.
//
// Courier bookkeeping is delegated to the assignment coordinator and the delivery
// handshake; every other action goes straight to the order aggregate.
//
// Example:
//
//	cmd, _ := NewApplyTransitionCommand(orderID, courierActor, order.ActionAccept, order.Payload{})
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrStaleState):
//	    // reload and retry
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // report to the actor
//	}
type ApplyTransitionCommandHandler struct {
	uowFactory  UoWFactory
	clock       ports.Clock
	coordinator services.AssignmentCoordinator
	handshake   services.DeliveryHandshake
	dispatcher  notification.Dispatcher
	outbox      Outbox
}

func NewApplyTransitionCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	policy order.Policy,
	dispatcher notification.Dispatcher,
	outbox Outbox,
) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory:  uowFactory,
		clock:       clock,
		coordinator: services.NewAssignmentCoordinator(policy),
		handshake:   services.NewDeliveryHandshake(policy),
		dispatcher:  dispatcher,
		outbox:      outbox,
	}
}

// Handle applies the command. A repeated arrival signal or dispute flag commits
// nothing and returns an empty effect list.
func (h ApplyTransitionCommandHandler) Handle(ctx context.Context, cmd ApplyTransitionCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}
	if expected, ok := cmd.ExpectedStatus(); ok && o.Status() != expected {
		return TransitionResult{}, errs.NewStaleStateError("orderId", o.ID(), expected.String())
	}

	c, err := h.involvedCourier(ctx, courierRepo, o, cmd)
	if err != nil {
		return TransitionResult{}, err
	}

	tr, err := h.perform(o, c, cmd)
	if err != nil {
		return TransitionResult{}, err
	}
	result := TransitionResult{
		OrderID:   o.ID(),
		From:      tr.From,
		NewStatus: tr.To,
		Effects:   tr.Effects,
	}
	if tr.IsNoop() {
		return result, nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return TransitionResult{}, err
	}
	if c != nil {
		if err = courierRepo.Update(ctx, c); err != nil {
			return TransitionResult{}, courierConflict(cmd.Action(), c, err)
		}
	}

	notifications, err := storeNotifications(ctx, uow.NotificationRepository(), h.dispatcher, tr)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, courierConflict(cmd.Action(), c, err)
	}

	h.outbox.Publish(ctx, notifications)
	return result, nil
}

// involvedCourier loads the courier record an action changes: the chosen courier
// for an offer, or the courier the order holds for actions that release it.
func (h ApplyTransitionCommandHandler) involvedCourier(
	ctx context.Context,
	repo ports.CourierRepository,
	o *order.Order,
	cmd ApplyTransitionCommand,
) (*courier.Courier, error) {
	if !cmd.Action().RequiresCourierAggregate() {
		return nil, nil
	}
	if cmd.Action() == order.ActionOffer {
		return repo.Get(ctx, cmd.Payload().CourierID)
	}
	if !o.Status().HoldsCourier() || o.Courier() == nil {
		return nil, nil
	}
	return repo.Get(ctx, *o.Courier())
}

func (h ApplyTransitionCommandHandler) perform(
	o *order.Order,
	c *courier.Courier,
	cmd ApplyTransitionCommand,
) (order.Transition, error) {
	now := h.clock.Now()
	actor := cmd.Actor()
	payload := cmd.Payload()

	switch cmd.Action() {
	case order.ActionOffer:
		return h.coordinator.Offer(o, c, actor, now)
	case order.ActionAccept:
		return h.coordinator.Accept(o, actor, now)
	case order.ActionDecline:
		return h.coordinator.Decline(o, c, actor, now)
	case order.ActionExpire:
		return h.coordinator.Expire(o, c, now)
	case order.ActionCancel:
		return h.coordinator.Cancel(o, c, actor, payload.Reason, now)
	case order.ActionArrive:
		return h.handshake.ConfirmArrival(o, actor, now)
	case order.ActionConfirmReceipt:
		return h.handshake.ConfirmReceipt(o, c, actor, now)
	case order.ActionForceConfirm:
		return h.handshake.ForceConfirm(o, c, actor, payload.Reason, now)
	case order.ActionFlagDispute:
		return h.handshake.FlagDispute(o, now)
	case order.ActionUnknown, order.ActionConfirm, order.ActionReject, order.ActionStartPreparing,
		order.ActionMarkReady, order.ActionSubmit:
	}
	return o.Apply(actor, cmd.Action(), payload, now, h.coordinator.Policy())
}

// courierConflict reports a lost race on the courier record during an offer as
// errs.CourierUnavailableError: another offer reserved the courier first.
func courierConflict(action order.Action, c *courier.Courier, err error) error {
	if action != order.ActionOffer || c == nil {
		return err
	}
	var stale *errs.StaleStateError
	if errors.As(err, &stale) && stale.ParamName == "courierId" {
		return errs.NewCourierUnavailableErrorWithCause(c.ID(), err)
	}
	return err
}
