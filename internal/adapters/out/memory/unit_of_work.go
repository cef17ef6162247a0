package memory

import (
	"context"
	"errors"
	"sync"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"
)

var (
	ErrNoActiveTransaction = errors.New("no active transaction")
	ErrDuplicateID         = errors.New("record with this id already exists")
)

type stagedOrder struct {
	snapshot order.Snapshot
	// expectedStatus is the stored status the write was computed against. It is
	// ignored for new orders.
	expectedStatus order.Status
	isNew          bool
}

type stagedNotification struct {
	record notificationRecord
	isNew  bool
}

type stagedCourier struct {
	record courierRecord
	isNew  bool
}

// UnitOfWork stages writes and applies them atomically on Commit.
type UnitOfWork struct {
	store *Store

	mu            sync.Mutex
	active        bool
	orders        map[kernel.UUID]stagedOrder
	couriers      map[kernel.UUID]stagedCourier
	notifications map[kernel.UUID]stagedNotification
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func newUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.active {
		return nil
	}
	uow.active = true
	uow.reset()
	return nil
}

// Commit verifies that no staged order or courier changed since it was read and
// applies all staged writes. On conflict nothing is written and the first conflict
// is returned as errs.StaleStateError.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if !uow.active {
		return ErrNoActiveTransaction
	}
	defer func() {
		uow.active = false
		uow.reset()
	}()

	s := uow.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, staged := range uow.orders {
		if err := s.checkOrder(id, staged); err != nil {
			return err
		}
	}
	for id, staged := range uow.couriers {
		if err := s.checkCourier(id, staged); err != nil {
			return err
		}
	}
	for id, staged := range uow.notifications {
		if _, exists := s.notifications[id]; exists && staged.isNew {
			return errs.NewValueIsInvalidErrorWithCause("notificationId", ErrDuplicateID)
		}
	}

	for id, staged := range uow.orders {
		snapshot := staged.snapshot
		if !staged.isNew {
			snapshot.Version++
		}
		s.orders[id] = snapshot
	}
	for id, staged := range uow.couriers {
		rec := staged.record
		if !staged.isNew {
			rec.version++
		}
		s.couriers[id] = rec
	}
	for id, staged := range uow.notifications {
		rec := staged.record
		if staged.isNew {
			s.seq++
			rec.seq = s.seq
		} else {
			rec.seq = s.notifications[id].seq
		}
		s.notifications[id] = rec
	}
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.active = false
	uow.reset()
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) CourierRepository() ports.CourierRepository {
	return &courierRepository{uow: uow}
}

func (uow *UnitOfWork) NotificationRepository() ports.NotificationRepository {
	return &notificationRepository{uow: uow}
}

func (uow *UnitOfWork) reset() {
	uow.orders = make(map[kernel.UUID]stagedOrder)
	uow.couriers = make(map[kernel.UUID]stagedCourier)
	uow.notifications = make(map[kernel.UUID]stagedNotification)
}

// stage runs fn with the unit of work locked, failing when no transaction is active.
func (uow *UnitOfWork) stage(fn func() error) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if !uow.active {
		return ErrNoActiveTransaction
	}
	return fn()
}

func (s *Store) checkOrder(id kernel.UUID, staged stagedOrder) error {
	stored, exists := s.orders[id]
	if staged.isNew {
		if exists {
			return errs.NewValueIsInvalidErrorWithCause("orderId", ErrDuplicateID)
		}
		return nil
	}
	if !exists {
		return errs.NewObjectNotFoundError("orderId", id)
	}
	if stored.Version != staged.snapshot.Version || stored.Status != staged.expectedStatus {
		return errs.NewStaleStateError("orderId", id, staged.expectedStatus.String())
	}
	return nil
}

func (s *Store) checkCourier(id kernel.UUID, staged stagedCourier) error {
	stored, exists := s.couriers[id]
	if staged.isNew {
		if exists {
			return errs.NewValueIsInvalidErrorWithCause("courierId", ErrDuplicateID)
		}
		return nil
	}
	if !exists {
		return errs.NewObjectNotFoundError("courierId", id)
	}
	if stored.version != staged.record.version {
		return errs.NewStaleStateError("courierId", id, "unchanged")
	}
	return nil
}
