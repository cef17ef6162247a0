package courier

import (
	"errors"
	"fmt"
	"strings"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"
)

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	ErrCourierDoesNotHoldOrder = errors.New("courier does not hold the order")
)

// Courier is the aggregate root for a delivery person.
//
// The availability flag and the current order reference always change together; the
// only mutators are Reserve and Release.
type Courier struct {
	id             kernel.UUID
	name           string
	currentOrderID *kernel.UUID
	version        int64
	guard          guard.ConstructorGuard
}

// NewCourier creates an available courier.
//
// Parameters:
//   - id: courier identifier, also the courier's user id
//   - name: display name, must not be blank
//
// Returns:
//   - *Courier: the available courier
//   - error: joined validation errors
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	c := &Courier{guard: guard.NewConstructorGuard()}

	if err := errors.Join(c.setID(id), c.setName(name)); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier rebuilds a stored courier. currentOrderID is nil for an available courier.
func RestoreCourier(id kernel.UUID, name string, currentOrderID *kernel.UUID, version int64) (*Courier, error) {
	c := &Courier{
		version: version,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setID(id), c.setName(name), c.setCurrentOrder(currentOrderID)); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) IsAvailable() bool {
	return c.currentOrderID == nil
}

// CurrentOrderID is a lookup reference only; the order record is owned elsewhere.
func (c *Courier) CurrentOrderID() *kernel.UUID {
	return c.currentOrderID
}

// Version is the stored version this courier was read from.
func (c *Courier) Version() int64 {
	return c.version
}

// Reserve makes the courier busy with orderID.
//
// Returns:
//   - nil on success
//   - errs.CourierUnavailableError if the courier already holds an order, including orderID
func (c *Courier) Reserve(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	if !c.IsAvailable() {
		return errs.NewCourierUnavailableErrorWithCause(
			c.id.String(),
			fmt.Errorf("holds order %s", c.currentOrderID),
		)
	}
	c.currentOrderID = &orderID
	return nil
}

// Release makes the courier available again. orderID must be the held order.
func (c *Courier) Release(orderID kernel.UUID) error {
	if c.currentOrderID == nil || !c.currentOrderID.IsEqual(orderID) {
		return errs.NewValueIsInvalidErrorWithCause("orderId", ErrCourierDoesNotHoldOrder)
	}
	c.currentOrderID = nil
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setCurrentOrder(orderID *kernel.UUID) error {
	if orderID == nil {
		return nil
	}
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("currentOrderId", err)
	}
	c.currentOrderID = orderID
	return nil
}
