package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"pharmacy/internal/adapters/out/memory"
	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/clock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type recordingSender struct {
	mu        sync.Mutex
	envelopes []notification.Envelope
	err       error
}

func (s *recordingSender) Send(_ context.Context, envelope notification.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelopes = append(s.envelopes, envelope)
	return s.err
}

func (s *recordingSender) Sent() []notification.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Envelope(nil), s.envelopes...)
}

type orderUoWFactory struct{ f ports.UnitOfWorkFactory }

func (w orderUoWFactory) Create() commands.OrderUoW { return w.f.Create() }

type courierUoWFactory struct{ f ports.UnitOfWorkFactory }

func (w courierUoWFactory) Create() commands.CourierUoW { return w.f.Create() }

type notificationUoWFactory struct{ f ports.UnitOfWorkFactory }

func (w notificationUoWFactory) Create() commands.NotificationUoW { return w.f.Create() }

// app wires every command handler over one in-memory store.
type app struct {
	factory ports.UnitOfWorkFactory
	clock   *clock.Manual
	sender  *recordingSender
	policy  order.Policy

	createOrder   commands.CreateOrderCommandHandler
	transition    commands.ApplyTransitionCommandHandler
	ledger        commands.LedgerOperationCommandHandler
	createCourier commands.CreateCourierCommandHandler
	markRead      commands.MarkNotificationReadCommandHandler
	expireOffers  commands.ExpireOffersCommandHandler
	flagArrivals  commands.FlagStaleArrivalsCommandHandler

	patient    kernel.Actor
	pharmacist kernel.Actor
	admin      kernel.Actor
}

func newApp(t *testing.T) *app {
	t.Helper()

	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	clk := clock.NewManual(baseTime)
	sender := &recordingSender{}
	policy := order.DefaultPolicy()
	dispatcher := notification.NewDispatcher()
	outbox := commands.NewOutbox(sender, slog.New(slog.NewTextHandler(io.Discard, nil)))

	transition := commands.NewApplyTransitionCommandHandler(factory, clk, policy, dispatcher, outbox)
	a := &app{
		factory:       factory,
		clock:         clk,
		sender:        sender,
		policy:        policy,
		createOrder:   commands.NewCreateOrderCommandHandler(orderUoWFactory{factory}, clk, dispatcher, outbox),
		transition:    transition,
		ledger:        commands.NewLedgerOperationCommandHandler(orderUoWFactory{factory}, clk),
		createCourier: commands.NewCreateCourierCommandHandler(courierUoWFactory{factory}),
		markRead:      commands.NewMarkNotificationReadCommandHandler(notificationUoWFactory{factory}, clk),
		expireOffers:  commands.NewExpireOffersCommandHandler(orderUoWFactory{factory}, transition, clk, policy),
		flagArrivals:  commands.NewFlagStaleArrivalsCommandHandler(orderUoWFactory{factory}, transition, clk, policy),
	}

	var err error
	a.patient, err = kernel.NewActor(kernel.NewUUID(), kernel.RolePatient)
	require.NoError(t, err)
	a.pharmacist, err = kernel.NewActor(kernel.NewUUID(), kernel.RolePharmacist)
	require.NoError(t, err)
	a.admin, err = kernel.NewActor(kernel.NewUUID(), kernel.RoleAdmin)
	require.NoError(t, err)
	return a
}

func (a *app) submit(t *testing.T, medications ...string) kernel.UUID {
	t.Helper()
	if len(medications) == 0 {
		medications = []string{"Paracetamol 1g"}
	}
	requests := make([]commands.MedicationRequest, 0, len(medications))
	for _, m := range medications {
		requests = append(requests, commands.MedicationRequest{Name: m})
	}
	cmd, err := commands.NewCreateOrderCommand(a.patient, a.pharmacist.ID(), nil, "5 Rue Larbi Ben Mhidi", nil, requests)
	require.NoError(t, err)
	id, err := a.createOrder.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return id
}

func (a *app) price(t *testing.T, orderID kernel.UUID, index int, price int64, available bool) commands.LedgerResult {
	t.Helper()
	cmd, err := commands.NewLedgerOperationCommand(orderID, a.pharmacist, order.LedgerSetPricing, commands.LedgerPayload{
		Index:     index,
		Price:     decimal.NewFromInt(price),
		Available: available,
	})
	require.NoError(t, err)
	result, err := a.ledger.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return result
}

func (a *app) apply(
	ctx context.Context,
	orderID kernel.UUID,
	actor kernel.Actor,
	action order.Action,
	payload order.Payload,
) (commands.TransitionResult, error) {
	cmd, err := commands.NewApplyTransitionCommand(orderID, actor, action, payload)
	if err != nil {
		return commands.TransitionResult{}, err
	}
	return a.transition.Handle(ctx, cmd)
}

func (a *app) mustApply(t *testing.T, orderID kernel.UUID, actor kernel.Actor, action order.Action, payload order.Payload) {
	t.Helper()
	_, err := a.apply(t.Context(), orderID, actor, action, payload)
	require.NoError(t, err, "%s by %s", action, actor)
}

// readyOrder submits, prices and prepares an order.
func (a *app) readyOrder(t *testing.T) kernel.UUID {
	t.Helper()
	id := a.submit(t)
	a.price(t, id, 0, 1200, true)
	a.mustApply(t, id, a.pharmacist, order.ActionConfirm, order.Payload{})
	a.mustApply(t, id, a.pharmacist, order.ActionStartPreparing, order.Payload{})
	a.mustApply(t, id, a.pharmacist, order.ActionMarkReady, order.Payload{})
	return id
}

func (a *app) newCourier(t *testing.T, name string) kernel.Actor {
	t.Helper()
	cmd, err := commands.NewCreateCourierCommand(name)
	require.NoError(t, err)
	id, err := a.createCourier.Handle(t.Context(), cmd)
	require.NoError(t, err)
	actor, err := kernel.NewActor(id, kernel.RoleCourier)
	require.NoError(t, err)
	return actor
}

func (a *app) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := a.factory.Create().OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return o
}

func (a *app) courier(t *testing.T, id kernel.UUID) *courier.Courier {
	t.Helper()
	c, err := a.factory.Create().CourierRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return c
}

func (a *app) inbox(t *testing.T, userID kernel.UUID) []*notification.Notification {
	t.Helper()
	list, err := a.factory.Create().NotificationRepository().ListByUser(t.Context(), userID, false)
	require.NoError(t, err)
	return list
}

func kinds(list []*notification.Notification) []order.Event {
	out := make([]order.Event, 0, len(list))
	for _, n := range list {
		out = append(out, n.Kind())
	}
	return out
}

var errSendFailed = errors.New("broker unreachable")
