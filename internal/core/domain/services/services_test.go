package services_test

import (
	"testing"
	"time"

	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/domain/services"
	"pharmacy/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fixture struct {
	patient    kernel.Actor
	pharmacist kernel.Actor
	admin      kernel.Actor
	coord      services.AssignmentCoordinator
	handshake  services.DeliveryHandshake
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	patient, err := kernel.NewActor(kernel.NewUUID(), kernel.RolePatient)
	require.NoError(t, err)
	pharmacist, err := kernel.NewActor(kernel.NewUUID(), kernel.RolePharmacist)
	require.NoError(t, err)
	admin, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleAdmin)
	require.NoError(t, err)
	return fixture{
		patient:    patient,
		pharmacist: pharmacist,
		admin:      admin,
		coord:      services.NewAssignmentCoordinator(order.DefaultPolicy()),
		handshake:  services.NewDeliveryHandshake(order.DefaultPolicy()),
	}
}

func (f fixture) readyOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewPatientItem("Insulin glargine", true)
	require.NoError(t, err)
	o, err := order.NewOrder(order.NewOrderParams{
		ID:              kernel.NewUUID(),
		PatientID:       f.patient.ID(),
		PharmacyID:      f.pharmacist.ID(),
		DeliveryAddress: "3 Boulevard Zirout",
		Medications:     []order.LineItem{item},
	}, baseTime)
	require.NoError(t, err)
	require.NoError(t, o.SetPharmacistPricing(f.pharmacist, 0, decimal.NewFromInt(4200), true, true, baseTime))
	_, err = o.Confirm(f.pharmacist, baseTime)
	require.NoError(t, err)
	_, err = o.StartPreparing(f.pharmacist, baseTime)
	require.NoError(t, err)
	_, err = o.MarkReady(f.pharmacist, baseTime)
	require.NoError(t, err)
	return o
}

func newCourier(t *testing.T) (*courier.Courier, kernel.Actor) {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), "Karim")
	require.NoError(t, err)
	actor, err := kernel.NewActor(c.ID(), kernel.RoleCourier)
	require.NoError(t, err)
	return c, actor
}

func TestAssignmentCoordinator_Offer(t *testing.T) {
	f := newFixture(t)

	t.Run("should reserve the courier and move the order", func(t *testing.T) {
		o := f.readyOrder(t)
		c, _ := newCourier(t)

		tr, err := f.coord.Offer(o, c, f.pharmacist, baseTime)

		require.NoError(t, err)
		assert.Equal(t, order.AssignedPendingAcceptance, o.Status())
		assert.True(t, o.Courier().IsEqual(c.ID()))
		assert.False(t, c.IsAvailable())
		assert.True(t, c.CurrentOrderID().IsEqual(o.ID()))
		assert.Equal(t, []order.Effect{order.Notify(c.ID(), order.EventOffered)}, tr.Effects)
	})

	t.Run("should refuse a busy courier and leave the order ready", func(t *testing.T) {
		first, second := f.readyOrder(t), f.readyOrder(t)
		c, _ := newCourier(t)
		_, err := f.coord.Offer(first, c, f.pharmacist, baseTime)
		require.NoError(t, err)

		_, err = f.coord.Offer(second, c, f.pharmacist, baseTime)

		require.ErrorIs(t, err, errs.ErrCourierUnavailable)
		assert.Equal(t, order.ReadyForDelivery, second.Status())
		assert.Nil(t, second.Courier())
		assert.True(t, c.CurrentOrderID().IsEqual(first.ID()))
	})

	t.Run("should keep the courier available when the order refuses the offer", func(t *testing.T) {
		o := f.readyOrder(t)
		c, _ := newCourier(t)

		_, err := f.coord.Offer(o, c, f.patient, baseTime)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.True(t, c.IsAvailable())
		assert.Equal(t, order.ReadyForDelivery, o.Status())
	})

	t.Run("should report the order rule before a busy courier", func(t *testing.T) {
		held, ready := f.readyOrder(t), f.readyOrder(t)
		c, _ := newCourier(t)
		_, err := f.coord.Offer(held, c, f.pharmacist, baseTime)
		require.NoError(t, err)
		otherPharmacist, err := kernel.NewActor(kernel.NewUUID(), kernel.RolePharmacist)
		require.NoError(t, err)

		_, err = f.coord.Offer(held, c, f.pharmacist, baseTime)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		require.NotErrorIs(t, err, errs.ErrCourierUnavailable)

		_, err = f.coord.Offer(ready, c, otherPharmacist, baseTime)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		require.ErrorIs(t, err, order.ErrNotOrderPharmacy)
		require.NotErrorIs(t, err, errs.ErrCourierUnavailable)
		assert.True(t, c.CurrentOrderID().IsEqual(held.ID()))
	})
}

// A declined offer frees the courier and returns the order to the pharmacy.
func TestAssignmentCoordinator_Decline(t *testing.T) {
	f := newFixture(t)
	o := f.readyOrder(t)
	c, courierActor := newCourier(t)
	_, err := f.coord.Offer(o, c, f.pharmacist, baseTime)
	require.NoError(t, err)

	tr, err := f.coord.Decline(o, c, courierActor, baseTime.Add(time.Minute))

	require.NoError(t, err)
	assert.Equal(t, order.ReadyForDelivery, o.Status())
	assert.True(t, c.IsAvailable())
	assert.Nil(t, c.CurrentOrderID())
	assert.Equal(t, []order.Effect{order.Notify(f.pharmacist.ID(), order.EventOfferDeclined)}, tr.Effects)

	t.Run("the courier can be offered again", func(t *testing.T) {
		_, err := f.coord.Offer(o, c, f.pharmacist, baseTime.Add(2*time.Minute))

		require.NoError(t, err)
	})
}

func TestAssignmentCoordinator_AcceptAndExpire(t *testing.T) {
	f := newFixture(t)

	t.Run("accept keeps the courier reserved", func(t *testing.T) {
		o := f.readyOrder(t)
		c, courierActor := newCourier(t)
		_, err := f.coord.Offer(o, c, f.pharmacist, baseTime)
		require.NoError(t, err)

		_, err = f.coord.Accept(o, courierActor, baseTime)

		require.NoError(t, err)
		assert.Equal(t, order.InTransit, o.Status())
		assert.False(t, c.IsAvailable())
	})

	t.Run("expire frees the courier after the timeout", func(t *testing.T) {
		o := f.readyOrder(t)
		c, _ := newCourier(t)
		_, err := f.coord.Offer(o, c, f.pharmacist, baseTime)
		require.NoError(t, err)

		_, err = f.coord.Expire(o, c, baseTime.Add(time.Minute))
		require.ErrorIs(t, err, order.ErrOfferNotExpired)
		assert.False(t, c.IsAvailable())

		_, err = f.coord.Expire(o, c, baseTime.Add(f.coord.Policy().OfferTimeout))
		require.NoError(t, err)
		assert.Equal(t, order.ReadyForDelivery, o.Status())
		assert.True(t, c.IsAvailable())
	})

	t.Run("expire refuses a mismatched courier", func(t *testing.T) {
		o := f.readyOrder(t)
		c, _ := newCourier(t)
		other, _ := newCourier(t)
		_, err := f.coord.Offer(o, c, f.pharmacist, baseTime)
		require.NoError(t, err)

		_, err = f.coord.Expire(o, other, baseTime.Add(time.Hour))

		require.ErrorIs(t, err, services.ErrCourierMismatch)
		assert.Equal(t, order.AssignedPendingAcceptance, o.Status())
	})

	t.Run("decline on a ready order is an invalid transition", func(t *testing.T) {
		o := f.readyOrder(t)
		c, courierActor := newCourier(t)

		_, err := f.coord.Decline(o, c, courierActor, baseTime)

		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestAssignmentCoordinator_Cancel(t *testing.T) {
	f := newFixture(t)

	t.Run("cancel releases the held courier", func(t *testing.T) {
		o := f.readyOrder(t)
		c, courierActor := newCourier(t)
		_, err := f.coord.Offer(o, c, f.pharmacist, baseTime)
		require.NoError(t, err)
		_, err = f.coord.Accept(o, courierActor, baseTime)
		require.NoError(t, err)

		tr, err := f.coord.Cancel(o, c, f.admin, "address unreachable", baseTime)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.True(t, c.IsAvailable())
		assert.True(t, tr.CourierID.IsEqual(c.ID()))
	})

	t.Run("cancel without courier", func(t *testing.T) {
		o := f.readyOrder(t)

		_, err := f.coord.Cancel(o, nil, f.pharmacist, "", baseTime)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
	})

	t.Run("cancel of a held order requires the courier", func(t *testing.T) {
		o := f.readyOrder(t)
		c, _ := newCourier(t)
		_, err := f.coord.Offer(o, c, f.pharmacist, baseTime)
		require.NoError(t, err)

		_, err = f.coord.Cancel(o, nil, f.pharmacist, "", baseTime)

		require.ErrorIs(t, err, services.ErrCourierRequired)
		assert.Equal(t, order.AssignedPendingAcceptance, o.Status())
	})
}

func TestDeliveryHandshake(t *testing.T) {
	f := newFixture(t)
	inTransit := func(t *testing.T) (*order.Order, *courier.Courier, kernel.Actor) {
		o := f.readyOrder(t)
		c, courierActor := newCourier(t)
		_, err := f.coord.Offer(o, c, f.pharmacist, baseTime)
		require.NoError(t, err)
		_, err = f.coord.Accept(o, courierActor, baseTime)
		require.NoError(t, err)
		return o, c, courierActor
	}

	t.Run("receipt before arrival delivers and frees the courier", func(t *testing.T) {
		o, c, _ := inTransit(t)

		tr, err := f.handshake.ConfirmReceipt(o, c, f.patient, baseTime.Add(20*time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.InTransit, tr.From)
		assert.Equal(t, order.Delivered, o.Status())
		assert.True(t, c.IsAvailable())
		assert.True(t, o.Courier().IsEqual(c.ID()))
	})

	t.Run("arrival twice equals arrival once", func(t *testing.T) {
		o, c, courierActor := inTransit(t)

		_, err := f.handshake.ConfirmArrival(o, courierActor, baseTime.Add(10*time.Minute))
		require.NoError(t, err)
		once := o.Snapshot()

		tr, err := f.handshake.ConfirmArrival(o, courierActor, baseTime.Add(11*time.Minute))

		require.NoError(t, err)
		assert.True(t, tr.IsNoop())
		assert.Equal(t, once, o.Snapshot())
		assert.False(t, c.IsAvailable())
	})

	t.Run("force confirm frees the courier", func(t *testing.T) {
		o, c, courierActor := inTransit(t)
		arrival := baseTime.Add(10 * time.Minute)
		_, err := f.handshake.ConfirmArrival(o, courierActor, arrival)
		require.NoError(t, err)

		_, err = f.handshake.ForceConfirm(o, c, courierActor, "left with neighbour", arrival.Add(5*time.Minute))
		require.ErrorIs(t, err, order.ErrGraceWindowNotElapsed)
		assert.False(t, c.IsAvailable())

		_, err = f.handshake.ForceConfirm(o, c, courierActor, "left with neighbour", arrival.Add(f.handshake.Policy().DisputeGrace))
		require.NoError(t, err)
		assert.True(t, o.ForceConfirmed())
		assert.True(t, c.IsAvailable())
	})

	t.Run("dispute flag keeps the order arrived", func(t *testing.T) {
		o, c, courierActor := inTransit(t)
		arrival := baseTime.Add(10 * time.Minute)
		_, err := f.handshake.ConfirmArrival(o, courierActor, arrival)
		require.NoError(t, err)

		tr, err := f.handshake.FlagDispute(o, arrival.Add(time.Hour))

		require.NoError(t, err)
		assert.Len(t, tr.Effects, 2)
		assert.Equal(t, order.ArrivedPendingConfirmation, o.Status())
		assert.False(t, c.IsAvailable())
	})
}
