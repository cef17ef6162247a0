package order

import (
	"time"

	"pharmacy/internal/core/domain/model/kernel"
)

// Event is the kind of notification a transition produces. Every event maps to one
// status or one handshake step.
type Event string

const (
	EventSubmitted        Event = "order_submitted"
	EventConfirmed        Event = "order_confirmed"
	EventRejected         Event = "order_rejected"
	EventPreparing        Event = "order_preparing"
	EventReady            Event = "order_ready"
	EventOffered          Event = "delivery_offered"
	EventOfferAccepted    Event = "offer_accepted"
	EventOfferDeclined    Event = "offer_declined"
	EventOfferExpired     Event = "offer_expired"
	EventInTransit        Event = "order_in_transit"
	EventCourierArrived   Event = "courier_arrived"
	EventDelivered        Event = "order_delivered"
	EventForceConfirmed   Event = "delivery_force_confirmed"
	EventCancelled        Event = "order_cancelled"
	EventDeliveryDisputed Event = "delivery_disputed"
)

// Events returns every event kind.
func Events() []Event {
	return []Event{
		EventSubmitted, EventConfirmed, EventRejected, EventPreparing, EventReady, EventOffered,
		EventOfferAccepted, EventOfferDeclined, EventOfferExpired, EventInTransit, EventCourierArrived,
		EventDelivered, EventForceConfirmed, EventCancelled, EventDeliveryDisputed,
	}
}

func (e Event) String() string {
	return string(e)
}

// EffectType distinguishes the instructions a transition returns.
type EffectType int

const (
	EffectNotify EffectType = iota + 1
	EffectRecomputeTotal
)

func (t EffectType) String() string {
	switch t {
	case EffectNotify:
		return "notify"
	case EffectRecomputeTotal:
		return "recompute_total"
	}
	return "unknown"
}

// Effect is a declarative side effect of a transition. Recipient and Event are set
// only for EffectNotify.
type Effect struct {
	Type      EffectType
	Recipient kernel.UUID
	Event     Event
}

func Notify(recipient kernel.UUID, event Event) Effect {
	return Effect{Type: EffectNotify, Recipient: recipient, Event: event}
}

func RecomputeTotal() Effect {
	return Effect{Type: EffectRecomputeTotal}
}

// Transition is the outcome of a lifecycle action: the status change and the complete
// list of effects it requires.
type Transition struct {
	OrderID kernel.UUID
	Action  Action
	Actor   kernel.Actor
	From    Status
	To      Status
	// CourierID is the courier involved in the action, including a courier that was
	// released by it (decline, expire, cancel).
	CourierID  *kernel.UUID
	Effects    []Effect
	OccurredAt time.Time
}

// IsNoop reports whether the action changed nothing, e.g. a repeated arrival signal.
func (t Transition) IsNoop() bool {
	return t.From == t.To && len(t.Effects) == 0
}

// Notifications returns the notify effects only.
func (t Transition) Notifications() []Effect {
	var out []Effect
	for _, e := range t.Effects {
		if e.Type == EffectNotify {
			out = append(out, e)
		}
	}
	return out
}

// effects accumulates the effect list of one transition. It drops repeated
// (recipient, event) pairs, zero recipients and the acting user.
type effects struct {
	actor kernel.Actor
	list  []Effect
}

func newEffects(actor kernel.Actor) *effects {
	return &effects{actor: actor}
}

func (e *effects) notify(recipient kernel.UUID, event Event) *effects {
	if recipient.IsZero() || recipient.IsEqual(e.actor.ID()) {
		return e
	}
	for _, existing := range e.list {
		if existing.Type == EffectNotify && existing.Event == event && existing.Recipient.IsEqual(recipient) {
			return e
		}
	}
	e.list = append(e.list, Notify(recipient, event))
	return e
}

func (e *effects) recomputeTotal() *effects {
	for _, existing := range e.list {
		if existing.Type == EffectRecomputeTotal {
			return e
		}
	}
	e.list = append(e.list, RecomputeTotal())
	return e
}

func (e *effects) build() []Effect {
	return e.list
}
