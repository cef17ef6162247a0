package commands_test

import (
	"testing"
	"time"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkNotificationReadCommandHandler_Handle(t *testing.T) {
	a := newApp(t)
	a.submit(t)
	inbox := a.inbox(t, a.pharmacist.ID())
	require.Len(t, inbox, 1)
	id := inbox[0].ID()

	markRead := func(userID kernel.UUID) error {
		cmd, err := commands.NewMarkNotificationReadCommand(id, userID)
		require.NoError(t, err)
		return a.markRead.Handle(t.Context(), cmd)
	}

	t.Run("other users cannot see it", func(t *testing.T) {
		err := markRead(a.patient.ID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.False(t, a.inbox(t, a.pharmacist.ID())[0].IsRead())
	})

	t.Run("recipient marks it read", func(t *testing.T) {
		a.clock.Advance(time.Minute)

		require.NoError(t, markRead(a.pharmacist.ID()))

		n := a.inbox(t, a.pharmacist.ID())[0]
		assert.True(t, n.IsRead())
		require.NotNil(t, n.ReadAt())
		assert.Equal(t, baseTime.Add(time.Minute), *n.ReadAt())
	})

	t.Run("marking twice keeps the first read time", func(t *testing.T) {
		a.clock.Advance(time.Hour)

		require.NoError(t, markRead(a.pharmacist.ID()))

		assert.Equal(t, baseTime.Add(time.Minute), *a.inbox(t, a.pharmacist.ID())[0].ReadAt())
	})

	t.Run("unknown notification", func(t *testing.T) {
		cmd, err := commands.NewMarkNotificationReadCommand(kernel.NewUUID(), a.pharmacist.ID())
		require.NoError(t, err)

		assert.ErrorIs(t, a.markRead.Handle(t.Context(), cmd), errs.ErrObjectNotFound)
	})

	t.Run("ids are required", func(t *testing.T) {
		_, err := commands.NewMarkNotificationReadCommand(kernel.UUID{}, kernel.UUID{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "notificationId")
		assert.Contains(t, err.Error(), "userId")
	})
}
