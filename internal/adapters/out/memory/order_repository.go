package memory

import (
	"context"
	"maps"
	"slices"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.stage(func() error {
		id := aggregate.ID()
		if _, staged := r.uow.orders[id]; staged || r.uow.store.hasOrder(id) {
			return errs.NewValueIsInvalidErrorWithCause("orderId", ErrDuplicateID)
		}
		r.uow.orders[id] = stagedOrder{snapshot: aggregate.Snapshot(), isNew: true}
		return nil
	})
}

// Update stages aggregate. A conflict with committed state is reported right away;
// Commit checks again for writers that commit in between.
func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.stage(func() error {
		id := aggregate.ID()
		snapshot := aggregate.Snapshot()

		if prev, ok := r.uow.orders[id]; ok {
			if prev.snapshot.Version != snapshot.Version {
				return errs.NewStaleStateError("orderId", id, prev.expectedStatus.String())
			}
			prev.snapshot = snapshot
			r.uow.orders[id] = prev
			return nil
		}

		staged := stagedOrder{snapshot: snapshot, expectedStatus: aggregate.PersistedStatus()}
		if err := r.uow.store.verifyOrder(id, staged); err != nil {
			return err
		}
		r.uow.orders[id] = staged
		return nil
	})
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	snapshot, ok := r.view()[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return order.RestoreOrder(snapshot)
}

func (r *orderRepository) ListByStatuses(_ context.Context, statuses []order.Status) ([]*order.Order, error) {
	return r.list(func(s order.Snapshot) bool {
		return slices.Contains(statuses, s.Status)
	})
}

func (r *orderRepository) ListOffersBefore(_ context.Context, t time.Time) ([]*order.Order, error) {
	return r.list(func(s order.Snapshot) bool {
		return s.Status == order.AssignedPendingAcceptance && s.AssignedAt != nil && !s.AssignedAt.After(t)
	})
}

func (r *orderRepository) ListUnflaggedArrivalsBefore(_ context.Context, t time.Time) ([]*order.Order, error) {
	return r.list(func(s order.Snapshot) bool {
		return s.Status == order.ArrivedPendingConfirmation &&
			s.DisputeFlaggedAt == nil &&
			s.CourierConfirmedAt != nil &&
			!s.CourierConfirmedAt.After(t)
	})
}

// list returns the matching orders, oldest first.
func (r *orderRepository) list(match func(order.Snapshot) bool) ([]*order.Order, error) {
	var matched []order.Snapshot
	for _, s := range r.view() {
		if match(s) {
			matched = append(matched, s)
		}
	}
	slices.SortFunc(matched, func(a, b order.Snapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})

	out := make([]*order.Order, 0, len(matched))
	for _, s := range matched {
		o, err := order.RestoreOrder(s)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// view merges the writes staged in this unit of work over committed state.
func (r *orderRepository) view() map[kernel.UUID]order.Snapshot {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()

	out := r.uow.store.committedOrders()
	for id, staged := range r.uow.orders {
		out[id] = staged.snapshot
	}
	return out
}

func (s *Store) hasOrder(id kernel.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.orders[id]
	return ok
}

func (s *Store) verifyOrder(id kernel.UUID, staged stagedOrder) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.checkOrder(id, staged)
}

func (s *Store) committedOrders() map[kernel.UUID]order.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.orders)
}

func compareIDs(a, b kernel.UUID) int {
	av, bv := a.Value(), b.Value()
	return slices.Compare(av[:], bv[:])
}
