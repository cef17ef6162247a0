package commands

import (
	"context"

	"pharmacy/internal/core/ports"
)

// MarkNotificationReadCommandHandler marks a notification read by its recipient.
// Marking twice succeeds and keeps the first read time.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
	clock      ports.Clock
}

func NewMarkNotificationReadCommandHandler(
	uowFactory NotificationUoWFactory,
	clock ports.Clock,
) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h MarkNotificationReadCommandHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	n, err := repo.Get(ctx, cmd.NotificationID())
	if err != nil {
		return err
	}

	if n.IsRead() && n.UserID().IsEqual(cmd.UserID()) {
		return nil
	}
	if err = n.MarkRead(cmd.UserID(), h.clock.Now()); err != nil {
		return err
	}

	if err = repo.Update(ctx, n); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
