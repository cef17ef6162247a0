package memory

import (
	"cmp"
	"context"
	"maps"
	"math"
	"slices"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/pkg/errs"
)

type notificationRepository struct {
	uow *UnitOfWork
}

func paramsOf(n *notification.Notification) notification.RestoreParams {
	return notification.RestoreParams{
		ID:        n.ID(),
		UserID:    n.UserID(),
		OrderID:   n.OrderID(),
		Kind:      n.Kind(),
		Title:     n.Title(),
		Message:   n.Message(),
		Urgency:   n.Urgency(),
		Channel:   n.Channel(),
		IsRead:    n.IsRead(),
		CreatedAt: n.CreatedAt(),
		ReadAt:    n.ReadAt(),
	}
}

func (r *notificationRepository) Add(_ context.Context, notifications ...*notification.Notification) error {
	for _, n := range notifications {
		if err := n.Validate(); err != nil {
			return err
		}
	}

	return r.uow.stage(func() error {
		for _, n := range notifications {
			id := n.ID()
			if _, staged := r.uow.notifications[id]; staged || r.uow.store.hasNotification(id) {
				return errs.NewValueIsInvalidErrorWithCause("notificationId", ErrDuplicateID)
			}
			r.uow.notifications[id] = stagedNotification{
				record: notificationRecord{params: paramsOf(n)},
				isNew:  true,
			}
		}
		return nil
	})
}

func (r *notificationRepository) Update(_ context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.stage(func() error {
		id := aggregate.ID()
		if prev, ok := r.uow.notifications[id]; ok {
			prev.record.params = paramsOf(aggregate)
			r.uow.notifications[id] = prev
			return nil
		}
		if !r.uow.store.hasNotification(id) {
			return errs.NewObjectNotFoundError("notificationId", id)
		}
		r.uow.notifications[id] = stagedNotification{record: notificationRecord{params: paramsOf(aggregate)}}
		return nil
	})
}

func (r *notificationRepository) Get(_ context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	rec, ok := r.view()[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("notificationId", id)
	}
	return notification.RestoreNotification(rec.params)
}

// ListByUser returns newest first. Notifications staged in this unit of work sort
// after committed ones created at the same instant.
func (r *notificationRepository) ListByUser(
	_ context.Context,
	userID kernel.UUID,
	unreadOnly bool,
) ([]*notification.Notification, error) {
	var matched []notificationRecord
	for _, rec := range r.view() {
		if !rec.params.UserID.IsEqual(userID) || (unreadOnly && rec.params.IsRead) {
			continue
		}
		matched = append(matched, rec)
	}
	slices.SortFunc(matched, func(a, b notificationRecord) int {
		if c := b.params.CreatedAt.Compare(a.params.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(seqOrder(b.seq), seqOrder(a.seq))
	})

	out := make([]*notification.Notification, 0, len(matched))
	for _, rec := range matched {
		n, err := notification.RestoreNotification(rec.params)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *notificationRepository) view() map[kernel.UUID]notificationRecord {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()

	out := r.uow.store.committedNotifications()
	for id, staged := range r.uow.notifications {
		rec := staged.record
		if stored, ok := out[id]; ok {
			rec.seq = stored.seq
		}
		out[id] = rec
	}
	return out
}

// seqOrder ranks uncommitted records (seq 0) as the newest.
func seqOrder(seq int64) int64 {
	if seq == 0 {
		return math.MaxInt64
	}
	return seq
}

func (s *Store) hasNotification(id kernel.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.notifications[id]
	return ok
}

func (s *Store) committedNotifications() map[kernel.UUID]notificationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.notifications)
}
