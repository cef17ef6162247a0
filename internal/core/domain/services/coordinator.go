package services

import (
	"errors"
	"fmt"
	"time"

	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"
)

var (
	ErrCourierMismatch = errors.New("courier record does not match the order")
	ErrCourierRequired = errors.New("order holds a courier that was not supplied")
)

// AssignmentCoordinator matches a ready order with the courier chosen by the
// pharmacist. It never picks a courier itself; it only enforces that a courier holds
// at most one active order.
type AssignmentCoordinator struct {
	policy order.Policy
}

func NewAssignmentCoordinator(policy order.Policy) AssignmentCoordinator {
	return AssignmentCoordinator{policy: policy.WithDefaults()}
}

func (a AssignmentCoordinator) Policy() order.Policy {
	return a.policy
}

// Offer reserves c for o and moves o to assigned_pending_acceptance.
//
// Returns:
//   - order.Transition: the offer transition
//   - error: errs.CourierUnavailableError if c is busy, errs.InvalidTransitionError if o
//     is not ready or the actor may not offer it
//
// On error neither o nor c is changed.
func (a AssignmentCoordinator) Offer(o *order.Order, c *courier.Courier, actor kernel.Actor, now time.Time) (order.Transition, error) {
	if err := errors.Join(o.Validate(), c.Validate()); err != nil {
		return order.Transition{}, err
	}
	if err := o.CanOffer(actor); err != nil {
		return order.Transition{}, err
	}

	if err := c.Reserve(o.ID()); err != nil {
		return order.Transition{}, err
	}

	tr, err := o.OfferTo(actor, c.ID(), now)
	if err != nil {
		if releaseErr := c.Release(o.ID()); releaseErr != nil {
			return order.Transition{}, errors.Join(err, releaseErr)
		}
		return order.Transition{}, err
	}
	return tr, nil
}

// Accept moves o to in_transit. The courier stays reserved.
func (a AssignmentCoordinator) Accept(o *order.Order, actor kernel.Actor, now time.Time) (order.Transition, error) {
	if err := o.Validate(); err != nil {
		return order.Transition{}, err
	}
	return o.AcceptOffer(actor, now)
}

// Decline returns o to ready_for_delivery and makes c available again.
func (a AssignmentCoordinator) Decline(o *order.Order, c *courier.Courier, actor kernel.Actor, now time.Time) (order.Transition, error) {
	if err := holds(o, c); err != nil {
		return order.Transition{}, err
	}
	tr, err := o.DeclineOffer(actor, now)
	if err != nil {
		return order.Transition{}, err
	}
	return tr, c.Release(o.ID())
}

// Expire times out an unanswered offer once the offer timeout has elapsed.
func (a AssignmentCoordinator) Expire(o *order.Order, c *courier.Courier, now time.Time) (order.Transition, error) {
	if err := holds(o, c); err != nil {
		return order.Transition{}, err
	}
	tr, err := o.ExpireOffer(now, a.policy)
	if err != nil {
		return order.Transition{}, err
	}
	return tr, c.Release(o.ID())
}

// Cancel cancels o and releases the courier it holds. c may be nil when o holds no
// courier.
func (a AssignmentCoordinator) Cancel(
	o *order.Order,
	c *courier.Courier,
	actor kernel.Actor,
	reason string,
	now time.Time,
) (order.Transition, error) {
	if err := o.Validate(); err != nil {
		return order.Transition{}, err
	}
	held := o.Status().HoldsCourier()
	if err := holds(o, c); err != nil {
		return order.Transition{}, err
	}

	tr, err := o.Cancel(actor, reason, now)
	if err != nil {
		return order.Transition{}, err
	}
	if held {
		return tr, c.Release(o.ID())
	}
	return tr, nil
}

// holds checks that o references c and c holds o. Orders whose status holds no
// courier pass, so the order itself reports the invalid transition.
func holds(o *order.Order, c *courier.Courier) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !o.Status().HoldsCourier() {
		return nil
	}
	if c == nil {
		return errs.NewValueIsRequiredErrorWithCause("courier", ErrCourierRequired)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	ref := o.Courier()
	current := c.CurrentOrderID()
	if ref == nil || !ref.IsEqual(c.ID()) || current == nil || !current.IsEqual(o.ID()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"courier",
			fmt.Errorf("%w: order %s, courier %s", ErrCourierMismatch, o.ID(), c.ID()),
		)
	}
	return nil
}
