package courier_test

import (
	"testing"

	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourier(t *testing.T) {
	t.Run("should create available courier", func(t *testing.T) {
		id := kernel.NewUUID()

		c, err := courier.NewCourier(id, "  Yacine ")

		require.NoError(t, err)
		assert.NoError(t, c.Validate())
		assert.True(t, c.ID().IsEqual(id))
		assert.Equal(t, "Yacine", c.Name())
		assert.True(t, c.IsAvailable())
		assert.Nil(t, c.CurrentOrderID())
		assert.Zero(t, c.Version())
	})

	t.Run("should return joined errors", func(t *testing.T) {
		_, err := courier.NewCourier(kernel.UUID{}, " ")

		require.Error(t, err)
		assert.ErrorIs(t, err, courier.ErrNameIsRequired)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestRestoreCourier(t *testing.T) {
	orderID := kernel.NewUUID()

	c, err := courier.RestoreCourier(kernel.NewUUID(), "Lina", &orderID, 7)

	require.NoError(t, err)
	assert.False(t, c.IsAvailable())
	assert.True(t, c.CurrentOrderID().IsEqual(orderID))
	assert.Equal(t, int64(7), c.Version())
}

func TestCourier_Validate(t *testing.T) {
	var nilCourier *courier.Courier
	assert.ErrorIs(t, nilCourier.Validate(), courier.ErrCourierIsNotConstructed)
	assert.ErrorIs(t, (&courier.Courier{}).Validate(), courier.ErrCourierIsNotConstructed)
}

func TestCourier_Reserve(t *testing.T) {
	t.Run("should reserve available courier", func(t *testing.T) {
		c, _ := courier.NewCourier(kernel.NewUUID(), "Lina")
		orderID := kernel.NewUUID()

		require.NoError(t, c.Reserve(orderID))

		assert.False(t, c.IsAvailable())
		assert.True(t, c.CurrentOrderID().IsEqual(orderID))
	})

	t.Run("should refuse a busy courier", func(t *testing.T) {
		c, _ := courier.NewCourier(kernel.NewUUID(), "Lina")
		first := kernel.NewUUID()
		require.NoError(t, c.Reserve(first))

		for _, orderID := range []kernel.UUID{kernel.NewUUID(), first} {
			err := c.Reserve(orderID)

			require.ErrorIs(t, err, errs.ErrCourierUnavailable)
			assert.True(t, c.CurrentOrderID().IsEqual(first))
		}
	})

	t.Run("should require order id", func(t *testing.T) {
		c, _ := courier.NewCourier(kernel.NewUUID(), "Lina")

		err := c.Reserve(kernel.UUID{})

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.True(t, c.IsAvailable())
	})
}

func TestCourier_Release(t *testing.T) {
	t.Run("should release held order", func(t *testing.T) {
		c, _ := courier.NewCourier(kernel.NewUUID(), "Lina")
		orderID := kernel.NewUUID()
		require.NoError(t, c.Reserve(orderID))

		require.NoError(t, c.Release(orderID))

		assert.True(t, c.IsAvailable())
		assert.Nil(t, c.CurrentOrderID())
	})

	t.Run("should refuse another order", func(t *testing.T) {
		c, _ := courier.NewCourier(kernel.NewUUID(), "Lina")
		orderID := kernel.NewUUID()
		require.NoError(t, c.Reserve(orderID))

		err := c.Release(kernel.NewUUID())

		require.ErrorIs(t, err, courier.ErrCourierDoesNotHoldOrder)
		assert.False(t, c.IsAvailable())
	})

	t.Run("should refuse when available", func(t *testing.T) {
		c, _ := courier.NewCourier(kernel.NewUUID(), "Lina")

		assert.ErrorIs(t, c.Release(kernel.NewUUID()), errs.ErrValidation)
	})
}
