package notification

import (
	"errors"
	"fmt"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// Notification is one message addressed to one user about one order.
type Notification struct {
	id        kernel.UUID
	userID    kernel.UUID
	orderID   kernel.UUID
	kind      order.Event
	title     string
	message   string
	urgency   Urgency
	channel   Channel
	isRead    bool
	createdAt time.Time
	readAt    *time.Time
	guard     guard.ConstructorGuard
}

// NewNotification creates an unread notification with the content of kind.
func NewNotification(id, userID, orderID kernel.UUID, kind order.Event, now time.Time) (*Notification, error) {
	tpl, ok := TemplateFor(kind)
	if !ok {
		return nil, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q has no template", kind))
	}

	n := &Notification{
		kind:      kind,
		title:     tpl.Title,
		message:   tpl.Message,
		urgency:   tpl.Urgency,
		channel:   tpl.Channel,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		requireID(&n.id, id, "id"),
		requireID(&n.userID, userID, "userId"),
		requireID(&n.orderID, orderID, "orderId"),
	); err != nil {
		return nil, err
	}
	return n, nil
}

// RestoreParams is the stored form of a notification.
type RestoreParams struct {
	ID        kernel.UUID
	UserID    kernel.UUID
	OrderID   kernel.UUID
	Kind      order.Event
	Title     string
	Message   string
	Urgency   Urgency
	Channel   Channel
	IsRead    bool
	CreatedAt time.Time
	ReadAt    *time.Time
}

// RestoreNotification rebuilds a stored notification keeping its stored content.
func RestoreNotification(p RestoreParams) (*Notification, error) {
	n := &Notification{
		kind:      p.Kind,
		title:     p.Title,
		message:   p.Message,
		urgency:   p.Urgency,
		channel:   p.Channel,
		isRead:    p.IsRead,
		createdAt: p.CreatedAt,
		readAt:    p.ReadAt,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		requireID(&n.id, p.ID, "id"),
		requireID(&n.userID, p.UserID, "userId"),
		requireID(&n.orderID, p.OrderID, "orderId"),
	); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil {
		return ErrNotificationIsNotConstructed
	}
	return n.guard.Validate(ErrNotificationIsNotConstructed)
}

func (n *Notification) ID() kernel.UUID {
	return n.id
}

func (n *Notification) UserID() kernel.UUID {
	return n.userID
}

func (n *Notification) OrderID() kernel.UUID {
	return n.orderID
}

func (n *Notification) Kind() order.Event {
	return n.kind
}

func (n *Notification) Title() string {
	return n.title
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) Urgency() Urgency {
	return n.urgency
}

func (n *Notification) Channel() Channel {
	return n.channel
}

func (n *Notification) IsRead() bool {
	return n.isRead
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) ReadAt() *time.Time {
	return n.readAt
}

// MarkRead marks the notification as read by its recipient. Marking twice keeps the
// first read time. Other users get ObjectNotFoundError so the notification stays hidden.
func (n *Notification) MarkRead(userID kernel.UUID, now time.Time) error {
	if !n.userID.IsEqual(userID) {
		return errs.NewObjectNotFoundError("notificationId", n.id)
	}
	if n.isRead {
		return nil
	}
	n.isRead = true
	n.readAt = &now
	return nil
}

// Envelope is the payload handed to a transport.
type Envelope struct {
	NotificationID kernel.UUID
	UserID         kernel.UUID
	OrderID        kernel.UUID
	Kind           order.Event
	Title          string
	Message        string
	Urgency        Urgency
	Channel        Channel
	CreatedAt      time.Time
}

func (n *Notification) Envelope() Envelope {
	return Envelope{
		NotificationID: n.id,
		UserID:         n.userID,
		OrderID:        n.orderID,
		Kind:           n.kind,
		Title:          n.title,
		Message:        n.message,
		Urgency:        n.urgency,
		Channel:        n.channel,
		CreatedAt:      n.createdAt,
	}
}

func requireID(dst *kernel.UUID, id kernel.UUID, name string) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	*dst = id
	return nil
}
