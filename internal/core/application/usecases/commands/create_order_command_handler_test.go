package commands_test

import (
	"testing"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	patient, err := kernel.NewActor(kernel.NewUUID(), kernel.RolePatient)
	require.NoError(t, err)
	courierActor, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleCourier)
	require.NoError(t, err)
	pharmacyID := kernel.NewUUID()
	meds := []commands.MedicationRequest{{Name: "Amoxicillin 500mg", SurBon: true}}

	t.Run("valid submission", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(patient, pharmacyID, nil, "  12 Rue de la Paix ", nil, meds)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.False(t, cmd.OrderID().IsZero())
		assert.Equal(t, "12 Rue de la Paix", cmd.DeliveryAddress())
		require.Len(t, cmd.Medications(), 1)
		assert.True(t, cmd.Medications()[0].SurBon())
		assert.False(t, cmd.Medications()[0].IsPriced())
	})

	t.Run("only patients submit", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(courierActor, pharmacyID, nil, "12 Rue de la Paix", nil, meds)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.ErrorIs(t, err, commands.ErrOnlyPatientsSubmitOrders)
	})

	t.Run("joined validation errors", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(patient, kernel.UUID{}, nil, " ", nil, []commands.MedicationRequest{{Name: ""}})

		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Contains(t, err.Error(), "pharmacyId")
		assert.Contains(t, err.Error(), "deliveryAddress")
		assert.Contains(t, err.Error(), "medications[0]")
	})

	t.Run("at least one medication", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(patient, pharmacyID, nil, "12 Rue de la Paix", nil, nil)

		assert.ErrorIs(t, err, commands.ErrMedicationsAreRequired)
	})

	t.Run("zero value is rejected by the handler", func(t *testing.T) {
		a := newApp(t)

		_, err := a.createOrder.Handle(t.Context(), commands.CreateOrderCommand{})

		assert.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	})
}

func TestCreateOrderCommandHandler_Handle(t *testing.T) {
	a := newApp(t)

	id := a.submit(t, "Insulin glargine", "Needles 4mm")

	o := a.order(t, id)
	assert.Equal(t, order.Pending, o.Status())
	assert.Len(t, o.Items(), 2)
	assert.False(t, o.Total().Valid, "an unpriced order has no total")
	assert.Equal(t, baseTime, o.CreatedAt())

	assert.Equal(t, []order.Event{order.EventSubmitted}, kinds(a.inbox(t, a.pharmacist.ID())))
	assert.Empty(t, a.inbox(t, a.patient.ID()), "the submitting patient is not notified")

	sent := a.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, a.pharmacist.ID(), sent[0].UserID)
	assert.Equal(t, id, sent[0].OrderID)
}
