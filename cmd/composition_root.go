package cmd

import (
	"log/slog"

	httpadapter "pharmacy/internal/adapters/in/http"
	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/application/usecases/queries"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/jobs"
	"pharmacy/internal/pkg/clock"
)

// CompositionRoot builds every handler over one storage backend and one transport.
type CompositionRoot struct {
	cfg        Config
	uowFactory ports.UnitOfWorkFactory
	clock      ports.Clock
	policy     order.Policy
	dispatcher notification.Dispatcher
	outbox     commands.Outbox
	logger     *slog.Logger
}

func NewCompositionRoot(
	cfg Config,
	uowFactory ports.UnitOfWorkFactory,
	sender ports.NotificationSender,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		uowFactory: uowFactory,
		clock:      clock.System{},
		policy: order.Policy{
			OfferTimeout: cfg.Policy.OfferTimeout,
			DisputeGrace: cfg.Policy.DisputeGrace,
		}.WithDefaults(),
		dispatcher: notification.NewDispatcher(),
		outbox:     commands.NewOutbox(sender, logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.clock, c.dispatcher, c.outbox)
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() commands.ApplyTransitionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyTransitionCommandHandler(f, c.clock, c.policy, c.dispatcher, c.outbox)
}

func (c *CompositionRoot) CreateLedgerOperationCommandHandler() commands.LedgerOperationCommandHandler {
	return commands.NewLedgerOperationCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkNotificationReadCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() commands.ExpireOffersCommandHandler {
	return commands.NewExpireOffersCommandHandler(
		c.orderUoWFactory(), c.CreateApplyTransitionCommandHandler(), c.clock, c.policy)
}

func (c *CompositionRoot) CreateFlagStaleArrivalsCommandHandler() commands.FlagStaleArrivalsCommandHandler {
	return commands.NewFlagStaleArrivalsCommandHandler(
		c.orderUoWFactory(), c.CreateApplyTransitionCommandHandler(), c.clock, c.policy)
}

// Queries read outside any transaction.
func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateListActiveOrdersQueryHandler() queries.ListActiveOrdersQueryHandler {
	return queries.NewListActiveOrdersQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateListAvailableCouriersQueryHandler() queries.ListAvailableCouriersQueryHandler {
	return queries.NewListAvailableCouriersQueryHandler(c.uowFactory.Create().CourierRepository())
}

func (c *CompositionRoot) CreateListNotificationsQueryHandler() queries.ListNotificationsQueryHandler {
	return queries.NewListNotificationsQueryHandler(c.uowFactory.Create().NotificationRepository())
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		ApplyTransition:       c.CreateApplyTransitionCommandHandler(),
		LedgerOperation:       c.CreateLedgerOperationCommandHandler(),
		CreateCourier:         c.CreateCreateCourierCommandHandler(),
		MarkNotificationRead:  c.CreateMarkNotificationReadCommandHandler(),
		GetOrder:              c.CreateGetOrderQueryHandler(),
		ListActiveOrders:      c.CreateListActiveOrdersQueryHandler(),
		ListAvailableCouriers: c.CreateListAvailableCouriersQueryHandler(),
		ListNotifications:     c.CreateListNotificationsQueryHandler(),
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireOffersCommandHandler(),
		c.CreateFlagStaleArrivalsCommandHandler(),
		jobs.Schedules{
			OfferExpiry:  c.cfg.Jobs.OfferExpiry,
			DisputeSweep: c.cfg.Jobs.DisputeSweep,
		},
		c.logger,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
