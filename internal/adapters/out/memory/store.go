// Package memory is an in-process implementation of the persistence port. It keeps
// committed state in maps guarded by a single lock and stages the writes of a unit
// of work until Commit, where every staged order and courier is checked against the
// version it was read with.
//
// It backs the memory storage driver and the concurrency tests of the application
// layer. Data does not survive a restart.
package memory

import (
	"sync"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"
)

type courierRecord struct {
	name           string
	currentOrderID *kernel.UUID
	version        int64
}

type notificationRecord struct {
	params notification.RestoreParams
	seq    int64
}

// Store holds the committed state shared by every unit of work it creates.
type Store struct {
	mu            sync.RWMutex
	orders        map[kernel.UUID]order.Snapshot
	couriers      map[kernel.UUID]courierRecord
	notifications map[kernel.UUID]notificationRecord
	seq           int64
}

func NewStore() *Store {
	return &Store{
		orders:        make(map[kernel.UUID]order.Snapshot),
		couriers:      make(map[kernel.UUID]courierRecord),
		notifications: make(map[kernel.UUID]notificationRecord),
	}
}

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create returns a unit of work. Its repositories read committed state until Begin
// is called; writes require an active transaction.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return newUnitOfWork(f.store)
}
