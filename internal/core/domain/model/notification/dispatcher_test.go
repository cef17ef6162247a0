package notification_test

import (
	"testing"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Compose(t *testing.T) {
	patient, pharmacy := kernel.NewUUID(), kernel.NewUUID()
	orderID := kernel.NewUUID()

	t.Run("should compose one notification per recipient and kind", func(t *testing.T) {
		tr := order.Transition{
			OrderID: orderID,
			Action:  order.ActionAccept,
			From:    order.AssignedPendingAcceptance,
			To:      order.InTransit,
			Effects: []order.Effect{
				order.Notify(patient, order.EventInTransit),
				order.RecomputeTotal(),
				order.Notify(pharmacy, order.EventOfferAccepted),
				order.Notify(patient, order.EventInTransit),
			},
			OccurredAt: now,
		}

		out, err := notification.NewDispatcher().Compose(tr)

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.True(t, out[0].UserID().IsEqual(patient))
		assert.Equal(t, order.EventInTransit, out[0].Kind())
		assert.True(t, out[1].UserID().IsEqual(pharmacy))
		for _, n := range out {
			assert.True(t, n.OrderID().IsEqual(orderID))
			assert.Equal(t, now, n.CreatedAt())
		}
	})

	t.Run("should use the id generator", func(t *testing.T) {
		fixed := kernel.MustUUIDFromString("7f6a9c2e-4b1d-4e8a-9c3f-2d5b8e1a0f47")
		d := notification.NewDispatcherWithIDs(func() kernel.UUID { return fixed })
		tr := order.Transition{
			OrderID:    orderID,
			Effects:    []order.Effect{order.Notify(patient, order.EventReady)},
			OccurredAt: now,
		}

		out, err := d.Compose(tr)

		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.True(t, out[0].ID().IsEqual(fixed))
	})

	t.Run("no-op transitions compose nothing", func(t *testing.T) {
		tr := order.Transition{OrderID: orderID, From: order.ArrivedPendingConfirmation, To: order.ArrivedPendingConfirmation}

		out, err := notification.NewDispatcher().Compose(tr)

		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
