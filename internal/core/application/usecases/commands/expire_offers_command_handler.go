package commands

import (
	"context"
	"errors"
	"fmt"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"
)

// SweepResult counts the orders a sweep changed and the ones it left alone because
// they moved on concurrently.
type SweepResult struct {
	Processed int
	Skipped   int
}

// ExpireOffersCommandHandler expires stale offers. Each order is applied in its own
// unit of work, so one conflict never blocks the rest of the sweep.
type ExpireOffersCommandHandler struct {
	uowFactory  OrderUoWFactory
	transitions TransitionHandler
	clock       ports.Clock
	policy      order.Policy
}

func NewExpireOffersCommandHandler(
	uowFactory OrderUoWFactory,
	transitions TransitionHandler,
	clock ports.Clock,
	policy order.Policy,
) ExpireOffersCommandHandler {
	return ExpireOffersCommandHandler{
		uowFactory:  uowFactory,
		transitions: transitions,
		clock:       clock,
		policy:      policy.WithDefaults(),
	}
}

func (h ExpireOffersCommandHandler) Handle(ctx context.Context, cmd ExpireOffersCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	cutoff := h.clock.Now().Add(-h.policy.OfferTimeout)
	ids, err := dueOrders(ctx, h.uowFactory, func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error) {
		return repo.ListOffersBefore(ctx, cutoff)
	})
	if err != nil {
		return SweepResult{}, err
	}

	return sweep(ctx, h.transitions, ids, order.ActionExpire, order.AssignedPendingAcceptance)
}

// FlagStaleArrivalsCommandHandler raises a dispute on arrivals the patient has not
// confirmed within the grace window. Orders are never completed by the sweep.
type FlagStaleArrivalsCommandHandler struct {
	uowFactory  OrderUoWFactory
	transitions TransitionHandler
	clock       ports.Clock
	policy      order.Policy
}

func NewFlagStaleArrivalsCommandHandler(
	uowFactory OrderUoWFactory,
	transitions TransitionHandler,
	clock ports.Clock,
	policy order.Policy,
) FlagStaleArrivalsCommandHandler {
	return FlagStaleArrivalsCommandHandler{
		uowFactory:  uowFactory,
		transitions: transitions,
		clock:       clock,
		policy:      policy.WithDefaults(),
	}
}

func (h FlagStaleArrivalsCommandHandler) Handle(ctx context.Context, cmd FlagStaleArrivalsCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	cutoff := h.clock.Now().Add(-h.policy.DisputeGrace)
	ids, err := dueOrders(ctx, h.uowFactory, func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error) {
		return repo.ListUnflaggedArrivalsBefore(ctx, cutoff)
	})
	if err != nil {
		return SweepResult{}, err
	}

	return sweep(ctx, h.transitions, ids, order.ActionFlagDispute, order.ArrivedPendingConfirmation)
}

func dueOrders(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	list func(context.Context, ports.OrderRepository) ([]*order.Order, error),
) ([]kernel.UUID, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := list(ctx, uow.OrderRepository())
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

// sweep applies action as the system actor to each order. Orders that changed since
// they were listed are skipped; other failures are joined and returned after the
// whole list has been tried.
func sweep(
	ctx context.Context,
	transitions TransitionHandler,
	ids []kernel.UUID,
	action order.Action,
	expected order.Status,
) (SweepResult, error) {
	var (
		result SweepResult
		failed error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, errors.Join(failed, err)
		}

		cmd, err := NewApplyTransitionCommand(id, kernel.SystemActor(), action, order.Payload{})
		if err != nil {
			failed = errors.Join(failed, err)
			continue
		}

		tr, err := transitions.Handle(ctx, cmd.WithExpectedStatus(expected))
		switch {
		case err == nil && len(tr.Effects) == 0:
			result.Skipped++
		case err == nil:
			result.Processed++
		case errors.Is(err, errs.ErrStaleState), errors.Is(err, errs.ErrInvalidTransition):
			result.Skipped++
		default:
			failed = errors.Join(failed, fmt.Errorf("order %s: %w", id, err))
		}
	}
	return result, failed
}
