package queries

import (
	"errors"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"
)

var ErrListNotificationsQueryIsNotConstructed = errors.New(
	"ListNotificationsQuery must be created via NewListNotificationsQuery constructor",
)

// ListNotificationsQuery reads the inbox of one user, newest first.
type ListNotificationsQuery struct {
	userID     kernel.UUID
	unreadOnly bool

	guard guard.ConstructorGuard
}

func NewListNotificationsQuery(userID kernel.UUID, unreadOnly bool) (ListNotificationsQuery, error) {
	if err := userID.Validate(); err != nil {
		return ListNotificationsQuery{}, errs.NewValueIsRequiredErrorWithCause("userId", err)
	}

	return ListNotificationsQuery{
		userID:     userID,
		unreadOnly: unreadOnly,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListNotificationsQueryIsNotConstructed)
}

func (q ListNotificationsQuery) UserID() kernel.UUID {
	return q.userID
}

func (q ListNotificationsQuery) UnreadOnly() bool {
	return q.unreadOnly
}

type ListNotificationsQueryResponse struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Kind      string
	Title     string
	Message   string
	Urgency   string
	Channel   string
	IsRead    bool
	CreatedAt time.Time
	ReadAt    *time.Time
}
