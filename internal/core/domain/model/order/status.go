package order

import (
	"fmt"

	"pharmacy/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	pending ──> confirmed ──> preparing ──> ready_for_delivery ──> assigned_pending_acceptance
//	   │                                          ^                        │
//	   └──> rejected                              └── decline / expire ────┤
//	                                                                       v
//	delivered <── arrived_pending_confirmation <──────────────────── in_transit
//	    ^                                                                  │
//	    └───────────────────────── confirm_receipt ────────────────────────┘
//
// cancelled is reachable from every non-terminal status. delivered, cancelled and
// rejected are terminal.
//
// The zero value Unknown is never stored and catches uninitialized values.
type Status int

const (
	Unknown Status = iota
	Pending
	Confirmed
	Preparing
	ReadyForDelivery
	AssignedPendingAcceptance
	InTransit
	ArrivedPendingConfirmation
	Delivered
	Cancelled
	Rejected
)

var statusNames = map[Status]string{
	Unknown:                    "unknown",
	Pending:                    "pending",
	Confirmed:                  "confirmed",
	Preparing:                  "preparing",
	ReadyForDelivery:           "ready_for_delivery",
	AssignedPendingAcceptance:  "assigned_pending_acceptance",
	InTransit:                  "in_transit",
	ArrivedPendingConfirmation: "arrived_pending_confirmation",
	Delivered:                  "delivered",
	Cancelled:                  "cancelled",
	Rejected:                   "rejected",
}

// edges is the complete set of status changes an order may record.
var edges = map[Status][]Status{
	Pending:                    {Confirmed, Rejected, Cancelled},
	Confirmed:                  {Preparing, Cancelled},
	Preparing:                  {ReadyForDelivery, Cancelled},
	ReadyForDelivery:           {AssignedPendingAcceptance, Cancelled},
	AssignedPendingAcceptance:  {InTransit, ReadyForDelivery, Cancelled},
	InTransit:                  {ArrivedPendingConfirmation, Delivered, Cancelled},
	ArrivedPendingConfirmation: {Delivered, Cancelled},
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{
		Pending, Confirmed, Preparing, ReadyForDelivery, AssignedPendingAcceptance,
		InTransit, ArrivedPendingConfirmation, Delivered, Cancelled, Rejected,
	}
}

// ActiveStatuses returns the non-terminal statuses.
func ActiveStatuses() []Status {
	var active []Status
	for _, s := range Statuses() {
		if !s.IsTerminal() {
			active = append(active, s)
		}
	}
	return active
}

// ParseStatus converts the persisted snake_case name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the declared statuses other than Unknown.
func (s Status) Validate() error {
	if s <= Unknown || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	switch s {
	case Delivered, Cancelled, Rejected:
		return true
	case Unknown, Pending, Confirmed, Preparing, ReadyForDelivery,
		AssignedPendingAcceptance, InTransit, ArrivedPendingConfirmation:
		return false
	}
	return false
}

// RequiresCourier reports whether an order in status s must reference a courier.
func (s Status) RequiresCourier() bool {
	switch s {
	case AssignedPendingAcceptance, InTransit, ArrivedPendingConfirmation, Delivered:
		return true
	case Unknown, Pending, Confirmed, Preparing, ReadyForDelivery, Cancelled, Rejected:
		return false
	}
	return false
}

// HoldsCourier reports whether the referenced courier is busy with the order.
// Delivered orders keep the courier reference but no longer hold the courier.
func (s Status) HoldsCourier() bool {
	return s.RequiresCourier() && !s.IsTerminal()
}

// CanTransitionTo reports whether s -> next is an edge of the lifecycle graph.
func (s Status) CanTransitionTo(next Status) bool {
	for _, to := range edges[s] {
		if to == next {
			return true
		}
	}
	return false
}

// ValidateCourier checks the courier reference against the status:
// a courier is set exactly when RequiresCourier holds.
func (s Status) ValidateCourier(hasCourier bool) error {
	if hasCourier && !s.RequiresCourier() {
		return errs.NewValueIsInvalidErrorWithCause(
			"courier",
			fmt.Errorf("%s is not a valid status to have a courier", s),
		)
	}
	if !hasCourier && s.RequiresCourier() {
		return errs.NewValueIsInvalidErrorWithCause(
			"courier",
			fmt.Errorf("%s is not a valid status to have no courier", s),
		)
	}
	return nil
}
