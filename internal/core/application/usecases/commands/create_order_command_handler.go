package commands

import (
	"context"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"
)

// CreateOrderCommandHandler stores a submitted order together with the notification
// to its pharmacy.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
	dispatcher notification.Dispatcher
	outbox     Outbox
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	clock ports.Clock,
	dispatcher notification.Dispatcher,
	outbox Outbox,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		dispatcher: dispatcher,
		outbox:     outbox,
	}
}

// Handle returns the id of the pending order.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	o, err := order.NewOrder(order.NewOrderParams{
		ID:              cmd.OrderID(),
		PatientID:       cmd.Patient().ID(),
		PharmacyID:      cmd.PharmacyID(),
		PrescriptionID:  cmd.PrescriptionID(),
		DeliveryAddress: cmd.DeliveryAddress(),
		Coordinates:     cmd.Coordinates(),
		Medications:     cmd.Medications(),
	}, h.clock.Now())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	notifications, err := storeNotifications(ctx, uow.NotificationRepository(), h.dispatcher, o.Submitted(cmd.Patient()))
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	h.outbox.Publish(ctx, notifications)
	return o.ID(), nil
}
