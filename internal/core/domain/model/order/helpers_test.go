package order_test

import (
	"testing"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type participants struct {
	patient    kernel.Actor
	pharmacist kernel.Actor
	courier    kernel.Actor
	admin      kernel.Actor
}

func newParticipants(t *testing.T) participants {
	t.Helper()
	mk := func(role kernel.Role) kernel.Actor {
		a, err := kernel.NewActor(kernel.NewUUID(), role)
		require.NoError(t, err)
		return a
	}
	return participants{
		patient:    mk(kernel.RolePatient),
		pharmacist: mk(kernel.RolePharmacist),
		courier:    mk(kernel.RoleCourier),
		admin:      mk(kernel.RoleAdmin),
	}
}

func newPendingOrder(t *testing.T, p participants, names ...string) *order.Order {
	t.Helper()
	if len(names) == 0 {
		names = []string{"Paracetamol 1g", "Ibuprofen 400mg"}
	}
	items := make([]order.LineItem, 0, len(names))
	for _, name := range names {
		item, err := order.NewPatientItem(name, false)
		require.NoError(t, err)
		items = append(items, item)
	}
	o, err := order.NewOrder(order.NewOrderParams{
		ID:              kernel.NewUUID(),
		PatientID:       p.patient.ID(),
		PharmacyID:      p.pharmacist.ID(),
		DeliveryAddress: "12 Rue de la Paix",
		Medications:     items,
	}, baseTime)
	require.NoError(t, err)
	return o
}

// advance drives o from pending to target along the main path.
func advance(t *testing.T, o *order.Order, p participants, target order.Status) {
	t.Helper()
	now := baseTime
	step := func(tr order.Transition, err error) {
		t.Helper()
		require.NoError(t, err)
		now = now.Add(time.Minute)
	}
	for o.Status() != target {
		switch o.Status() {
		case order.Pending:
			require.NoError(t, o.SetPharmacistPricing(p.pharmacist, 0, decimal.NewFromInt(1500), true, false, now))
			step(o.Confirm(p.pharmacist, now))
		case order.Confirmed:
			step(o.StartPreparing(p.pharmacist, now))
		case order.Preparing:
			step(o.MarkReady(p.pharmacist, now))
		case order.ReadyForDelivery:
			step(o.OfferTo(p.pharmacist, p.courier.ID(), now))
		case order.AssignedPendingAcceptance:
			step(o.AcceptOffer(p.courier, now))
		case order.InTransit:
			step(o.ConfirmArrival(p.courier, now))
		case order.ArrivedPendingConfirmation:
			step(o.ConfirmReceipt(p.patient, now))
		default:
			t.Fatalf("cannot advance from %s to %s", o.Status(), target)
		}
	}
}
