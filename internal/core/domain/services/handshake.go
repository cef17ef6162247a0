package services

import (
	"time"

	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
)

// DeliveryHandshake closes a delivery from the two independent confirmations of the
// courier and the patient.
type DeliveryHandshake struct {
	policy order.Policy
}

func NewDeliveryHandshake(policy order.Policy) DeliveryHandshake {
	return DeliveryHandshake{policy: policy.WithDefaults()}
}

func (h DeliveryHandshake) Policy() order.Policy {
	return h.policy
}

// ConfirmArrival records the courier's arrival. A repeated call returns a no-op transition.
func (h DeliveryHandshake) ConfirmArrival(o *order.Order, actor kernel.Actor, now time.Time) (order.Transition, error) {
	if err := o.Validate(); err != nil {
		return order.Transition{}, err
	}
	return o.ConfirmArrival(actor, now)
}

// ConfirmReceipt delivers o on the patient's confirmation and frees c.
func (h DeliveryHandshake) ConfirmReceipt(o *order.Order, c *courier.Courier, actor kernel.Actor, now time.Time) (order.Transition, error) {
	if err := holds(o, c); err != nil {
		return order.Transition{}, err
	}
	tr, err := o.ConfirmReceipt(actor, now)
	if err != nil {
		return order.Transition{}, err
	}
	return tr, c.Release(o.ID())
}

// ForceConfirm delivers o without the patient and frees c.
func (h DeliveryHandshake) ForceConfirm(
	o *order.Order,
	c *courier.Courier,
	actor kernel.Actor,
	reason string,
	now time.Time,
) (order.Transition, error) {
	if err := holds(o, c); err != nil {
		return order.Transition{}, err
	}
	tr, err := o.ForceConfirm(actor, reason, now, h.policy)
	if err != nil {
		return order.Transition{}, err
	}
	return tr, c.Release(o.ID())
}

// FlagDispute surfaces an arrival left unconfirmed for longer than the grace window.
// It never completes the order.
func (h DeliveryHandshake) FlagDispute(o *order.Order, now time.Time) (order.Transition, error) {
	if err := o.Validate(); err != nil {
		return order.Transition{}, err
	}
	return o.FlagDispute(now, h.policy)
}
