package order

import (
	"fmt"
	"slices"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"
)

// Action is a request to move an order along its lifecycle.
type Action int

const (
	ActionUnknown Action = iota
	ActionConfirm
	ActionReject
	ActionStartPreparing
	ActionMarkReady
	ActionOffer
	ActionAccept
	ActionDecline
	ActionExpire
	ActionArrive
	ActionConfirmReceipt
	ActionForceConfirm
	ActionCancel
	// ActionFlagDispute marks a stale arrival for administrative review. It never
	// changes the status and is only performed by the dispute sweep.
	ActionFlagDispute
	// ActionSubmit is the creation of the order by the patient.
	ActionSubmit
)

var actionNames = map[Action]string{
	ActionUnknown:        "unknown",
	ActionConfirm:        "confirm",
	ActionReject:         "reject",
	ActionStartPreparing: "start_preparing",
	ActionMarkReady:      "mark_ready",
	ActionOffer:          "offer",
	ActionAccept:         "accept",
	ActionDecline:        "decline",
	ActionExpire:         "expire",
	ActionArrive:         "arrive",
	ActionConfirmReceipt: "confirm_receipt",
	ActionForceConfirm:   "force_confirm",
	ActionCancel:         "cancel",
	ActionFlagDispute:    "flag_dispute",
	ActionSubmit:         "submit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return actionNames[ActionUnknown]
}

// ParseAction converts an action name to an Action. Only the status changing
// actions of the transition table can be parsed.
func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if _, ok := rules[a]; ok && name == s {
			return a, nil
		}
	}
	return ActionUnknown, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a valid action", s))
}

// rule is one row of the transition table.
type rule struct {
	from  []Status
	to    Status
	roles []kernel.Role
}

var nonTerminal = []Status{
	Pending, Confirmed, Preparing, ReadyForDelivery,
	AssignedPendingAcceptance, InTransit, ArrivedPendingConfirmation,
}

// rules is the transition table. Ownership (which patient, pharmacy or courier) is
// checked by the Order methods on top of the role check done here.
var rules = map[Action][]rule{
	ActionConfirm: {
		{from: []Status{Pending}, to: Confirmed, roles: []kernel.Role{kernel.RolePharmacist}},
	},
	ActionReject: {
		{from: []Status{Pending}, to: Rejected, roles: []kernel.Role{kernel.RolePharmacist}},
	},
	ActionStartPreparing: {
		{from: []Status{Confirmed}, to: Preparing, roles: []kernel.Role{kernel.RolePharmacist}},
	},
	ActionMarkReady: {
		{from: []Status{Preparing}, to: ReadyForDelivery, roles: []kernel.Role{kernel.RolePharmacist}},
	},
	ActionOffer: {
		{from: []Status{ReadyForDelivery}, to: AssignedPendingAcceptance, roles: []kernel.Role{kernel.RolePharmacist}},
	},
	ActionAccept: {
		{from: []Status{AssignedPendingAcceptance}, to: InTransit, roles: []kernel.Role{kernel.RoleCourier}},
	},
	ActionDecline: {
		{from: []Status{AssignedPendingAcceptance}, to: ReadyForDelivery, roles: []kernel.Role{kernel.RoleCourier}},
	},
	ActionExpire: {
		{from: []Status{AssignedPendingAcceptance}, to: ReadyForDelivery, roles: []kernel.Role{kernel.RoleSystem}},
	},
	ActionArrive: {
		{from: []Status{InTransit}, to: ArrivedPendingConfirmation, roles: []kernel.Role{kernel.RoleCourier}},
	},
	ActionConfirmReceipt: {
		{
			from:  []Status{InTransit, ArrivedPendingConfirmation},
			to:    Delivered,
			roles: []kernel.Role{kernel.RolePatient},
		},
	},
	ActionForceConfirm: {
		{
			from:  []Status{ArrivedPendingConfirmation},
			to:    Delivered,
			roles: []kernel.Role{kernel.RoleCourier, kernel.RoleAdmin},
		},
	},
	ActionCancel: {
		{from: []Status{Pending, Confirmed}, to: Cancelled, roles: []kernel.Role{kernel.RolePatient}},
		{from: nonTerminal, to: Cancelled, roles: []kernel.Role{kernel.RolePharmacist, kernel.RoleAdmin}},
	},
}

// Target returns the status that action leads to when performed by role from status
// from. ok is false when the table has no matching row.
func Target(from Status, action Action, role kernel.Role) (Status, bool) {
	for _, r := range rules[action] {
		if slices.Contains(r.from, from) && slices.Contains(r.roles, role) {
			return r.to, true
		}
	}
	return Unknown, false
}

// Actions returns the status changing actions in table order.
func Actions() []Action {
	return []Action{
		ActionConfirm, ActionReject, ActionStartPreparing, ActionMarkReady, ActionOffer, ActionAccept,
		ActionDecline, ActionExpire, ActionArrive, ActionConfirmReceipt, ActionForceConfirm, ActionCancel,
	}
}

// RequiresCourierAggregate reports whether performing a on an order also touches
// the courier record.
func (a Action) RequiresCourierAggregate() bool {
	switch a {
	case ActionOffer, ActionDecline, ActionExpire, ActionConfirmReceipt, ActionForceConfirm, ActionCancel:
		return true
	case ActionUnknown, ActionConfirm, ActionReject, ActionStartPreparing, ActionMarkReady,
		ActionAccept, ActionArrive, ActionFlagDispute, ActionSubmit:
		return false
	}
	return false
}
