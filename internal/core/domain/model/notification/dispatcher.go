package notification

import (
	"fmt"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"
)

// Dispatcher turns the notify effects of a transition into notifications.
// It decides content only; delivery belongs to a ports.NotificationSender.
type Dispatcher struct {
	newID func() kernel.UUID
}

func NewDispatcher() Dispatcher {
	return Dispatcher{newID: kernel.NewUUID}
}

// NewDispatcherWithIDs uses newID for notification identifiers, for deterministic tests.
func NewDispatcherWithIDs(newID func() kernel.UUID) Dispatcher {
	return Dispatcher{newID: newID}
}

// Compose returns exactly one notification per distinct (recipient, kind) among the
// notify effects of tr. A no-op transition yields nothing.
//
// Example:
//
//	tr, _ := o.Confirm(pharmacist, now)
//	notifications, err := dispatcher.Compose(tr)
func (d Dispatcher) Compose(tr order.Transition) ([]*Notification, error) {
	newID := d.newID
	if newID == nil {
		newID = kernel.NewUUID
	}

	type key struct {
		recipient kernel.UUID
		kind      order.Event
	}
	seen := make(map[key]struct{})

	var out []*Notification
	for _, effect := range tr.Notifications() {
		k := key{recipient: effect.Recipient, kind: effect.Event}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		n, err := NewNotification(newID(), effect.Recipient, tr.OrderID, effect.Event, tr.OccurredAt)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"effect", fmt.Errorf("%s for %s: %w", effect.Event, effect.Recipient, err))
		}
		out = append(out, n)
	}
	return out, nil
}
