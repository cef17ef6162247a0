package memory

import (
	"context"
	"maps"
	"slices"
	"strings"

	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"
)

type courierRepository struct {
	uow *UnitOfWork
}

func recordOf(c *courier.Courier) courierRecord {
	return courierRecord{
		name:           c.Name(),
		currentOrderID: c.CurrentOrderID(),
		version:        c.Version(),
	}
}

func (r *courierRepository) Add(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.stage(func() error {
		id := aggregate.ID()
		if _, staged := r.uow.couriers[id]; staged || r.uow.store.hasCourier(id) {
			return errs.NewValueIsInvalidErrorWithCause("courierId", ErrDuplicateID)
		}
		r.uow.couriers[id] = stagedCourier{record: recordOf(aggregate), isNew: true}
		return nil
	})
}

func (r *courierRepository) Update(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.stage(func() error {
		id := aggregate.ID()
		rec := recordOf(aggregate)

		if prev, ok := r.uow.couriers[id]; ok {
			if prev.record.version != rec.version {
				return errs.NewStaleStateError("courierId", id, "unchanged")
			}
			prev.record = rec
			r.uow.couriers[id] = prev
			return nil
		}

		staged := stagedCourier{record: rec}
		if err := r.uow.store.verifyCourier(id, staged); err != nil {
			return err
		}
		r.uow.couriers[id] = staged
		return nil
	})
}

func (r *courierRepository) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	rec, ok := r.view()[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courierId", id)
	}
	return courier.RestoreCourier(id, rec.name, rec.currentOrderID, rec.version)
}

func (r *courierRepository) ListAvailable(_ context.Context) ([]*courier.Courier, error) {
	view := r.view()
	ids := make([]kernel.UUID, 0, len(view))
	for id, rec := range view {
		if rec.currentOrderID == nil {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b kernel.UUID) int {
		if c := strings.Compare(view[a].name, view[b].name); c != 0 {
			return c
		}
		return compareIDs(a, b)
	})

	out := make([]*courier.Courier, 0, len(ids))
	for _, id := range ids {
		rec := view[id]
		c, err := courier.RestoreCourier(id, rec.name, rec.currentOrderID, rec.version)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *courierRepository) view() map[kernel.UUID]courierRecord {
	r.uow.mu.Lock()
	defer r.uow.mu.Unlock()

	out := r.uow.store.committedCouriers()
	for id, staged := range r.uow.couriers {
		out[id] = staged.record
	}
	return out
}

func (s *Store) hasCourier(id kernel.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.couriers[id]
	return ok
}

func (s *Store) verifyCourier(id kernel.UUID, staged stagedCourier) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.checkCourier(id, staged)
}

func (s *Store) committedCouriers() map[kernel.UUID]courierRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.couriers)
}
