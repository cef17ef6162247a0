package http_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "pharmacy/internal/adapters/in/http"
	"pharmacy/internal/adapters/out/memory"
	"pharmacy/internal/adapters/out/notifylog"
	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/application/usecases/queries"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderUoWFactory struct{ f ports.UnitOfWorkFactory }

func (w orderUoWFactory) Create() commands.OrderUoW { return w.f.Create() }

type courierUoWFactory struct{ f ports.UnitOfWorkFactory }

func (w courierUoWFactory) Create() commands.CourierUoW { return w.f.Create() }

type notificationUoWFactory struct{ f ports.UnitOfWorkFactory }

func (w notificationUoWFactory) Create() commands.NotificationUoW { return w.f.Create() }

type actors struct {
	patient    kernel.Actor
	pharmacist kernel.Actor
	courier    kernel.Actor
	admin      kernel.Actor
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func newTestServer(t *testing.T) (*echo.Echo, actors) {
	t.Helper()

	factory := memory.NewUnitOfWorkFactory(memory.NewStore())
	clk := clock.NewManual(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	policy := order.DefaultPolicy()
	dispatcher := notification.NewDispatcher()
	logger := slog.New(slog.DiscardHandler)
	outbox := commands.NewOutbox(notifylog.NewSender(logger), logger)

	server := httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:           commands.NewCreateOrderCommandHandler(orderUoWFactory{factory}, clk, dispatcher, outbox),
		ApplyTransition:       commands.NewApplyTransitionCommandHandler(factory, clk, policy, dispatcher, outbox),
		LedgerOperation:       commands.NewLedgerOperationCommandHandler(orderUoWFactory{factory}, clk),
		CreateCourier:         commands.NewCreateCourierCommandHandler(courierUoWFactory{factory}),
		MarkNotificationRead:  commands.NewMarkNotificationReadCommandHandler(notificationUoWFactory{factory}, clk),
		GetOrder:              queries.NewGetOrderQueryHandler(factory.Create().OrderRepository()),
		ListActiveOrders:      queries.NewListActiveOrdersQueryHandler(factory.Create().OrderRepository()),
		ListAvailableCouriers: queries.NewListAvailableCouriersQueryHandler(factory.Create().CourierRepository()),
		ListNotifications:     queries.NewListNotificationsQueryHandler(factory.Create().NotificationRepository()),
	})

	e := echo.New()
	httpadapter.RegisterHandlers(e, server)

	return e, actors{
		patient:    newActor(t, kernel.RolePatient),
		pharmacist: newActor(t, kernel.RolePharmacist),
		courier:    newActor(t, kernel.RoleCourier),
		admin:      newActor(t, kernel.RoleAdmin),
	}
}

// do sends a request as actor and decodes the JSON response into out when out is not nil.
func do(t *testing.T, e *echo.Echo, method, path string, actor *kernel.Actor, body string, out any) int {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if actor != nil {
		req.Header.Set(httpadapter.HeaderActorID, actor.ID().String())
		req.Header.Set(httpadapter.HeaderActorRole, actor.Role().String())
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	e, a := newTestServer(t)

	var courierCreated httpadapter.Created
	code := do(t, e, http.MethodPost, "/api/v1/couriers", &a.admin, `{"name":"Karim"}`, &courierCreated)
	require.Equal(t, http.StatusCreated, code)

	var orderCreated httpadapter.Created
	code = do(t, e, http.MethodPost, "/api/v1/orders", &a.patient, `{
		"pharmacyId": "`+a.pharmacist.ID().String()+`",
		"deliveryAddress": "12 Rue Didouche Mourad",
		"latitude": 36.7538,
		"longitude": 3.0588,
		"medications": [{"name": "Amoxicillin 500mg", "surBon": true}]
	}`, &orderCreated)
	require.Equal(t, http.StatusCreated, code)
	orderPath := "/api/v1/orders/" + orderCreated.ID.String()

	var ledger httpadapter.Ledger
	code = do(t, e, http.MethodPost, orderPath+"/ledger", &a.pharmacist,
		`{"operation":"set_pharmacist_pricing","index":0,"price":"1250.00","available":true,"surBon":true}`, &ledger)
	require.Equal(t, http.StatusOK, code)
	require.True(t, ledger.Total.Valid)
	assert.Equal(t, "1250", ledger.Total.Decimal.String())

	for _, action := range []string{"confirm", "start_preparing", "mark_ready"} {
		var result httpadapter.TransitionResult
		code = do(t, e, http.MethodPost, orderPath+"/transitions", &a.pharmacist, `{"action":"`+action+`"}`, &result)
		require.Equal(t, http.StatusOK, code, action)
	}

	var offered httpadapter.TransitionResult
	code = do(t, e, http.MethodPost, orderPath+"/transitions", &a.pharmacist,
		`{"action":"offer","courierId":"`+courierCreated.ID.String()+`","expectedStatus":"ready_for_delivery"}`, &offered)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready_for_delivery", offered.From)
	assert.Equal(t, "assigned_pending_acceptance", offered.NewStatus)

	var available []httpadapter.Courier
	code = do(t, e, http.MethodGet, "/api/v1/couriers/available", nil, "", &available)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, available, "the offered courier is reserved")

	var view httpadapter.Order
	code = do(t, e, http.MethodGet, orderPath, nil, "", &view)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "assigned_pending_acceptance", view.Status)
	require.NotNil(t, view.CourierID)
	assert.Equal(t, courierCreated.ID, *view.CourierID)
	require.Len(t, view.Medications, 1)
	assert.Equal(t, "patient", view.Medications[0].Source)
	require.NotNil(t, view.Latitude)

	var listed []httpadapter.OrderSummary
	code = do(t, e, http.MethodGet, "/api/v1/orders?status=assigned_pending_acceptance", nil, "", &listed)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, listed, 1)
	assert.Equal(t, orderCreated.ID, listed[0].ID)

	inboxPath := "/api/v1/users/" + a.patient.ID().String() + "/notifications"
	var inbox []httpadapter.Notification
	code = do(t, e, http.MethodGet, inboxPath+"?unread=true", &a.patient, "", &inbox)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, inbox, 3, "confirmed, preparing and ready")
	assert.Equal(t, string(order.EventReady), inbox[0].Kind)

	code = do(t, e, http.MethodPost, "/api/v1/notifications/"+inbox[0].ID.String()+"/read", &a.patient, "", nil)
	require.Equal(t, http.StatusNoContent, code)

	code = do(t, e, http.MethodGet, inboxPath+"?unread=true", &a.patient, "", &inbox)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, inbox, 2)
}

func TestErrorMapping(t *testing.T) {
	e, a := newTestServer(t)

	var created httpadapter.Created
	code := do(t, e, http.MethodPost, "/api/v1/orders", &a.patient, `{
		"pharmacyId": "`+a.pharmacist.ID().String()+`",
		"deliveryAddress": "12 Rue Didouche Mourad",
		"medications": [{"name": "Paracetamol 1g"}]
	}`, &created)
	require.Equal(t, http.StatusCreated, code)
	orderPath := "/api/v1/orders/" + created.ID.String()
	system := kernel.SystemActor()

	tests := []struct {
		name   string
		method string
		path   string
		actor  *kernel.Actor
		body   string
		want   int
	}{
		{
			name: "missing identity", method: http.MethodPost, path: orderPath + "/transitions",
			body: `{"action":"confirm"}`, want: http.StatusUnauthorized,
		},
		{
			name: "system role cannot be claimed", method: http.MethodPost, path: orderPath + "/transitions",
			actor: &system, body: `{"action":"expire"}`, want: http.StatusUnauthorized,
		},
		{
			name: "malformed order id", method: http.MethodGet, path: "/api/v1/orders/not-a-uuid",
			want: http.StatusBadRequest,
		},
		{
			name: "unknown action", method: http.MethodPost, path: orderPath + "/transitions",
			actor: &a.pharmacist, body: `{"action":"teleport"}`, want: http.StatusBadRequest,
		},
		{
			name: "unknown order", method: http.MethodGet, path: "/api/v1/orders/" + kernel.NewUUID().String(),
			want: http.StatusNotFound,
		},
		{
			name: "confirm without prices", method: http.MethodPost, path: orderPath + "/transitions",
			actor: &a.pharmacist, body: `{"action":"confirm"}`, want: http.StatusBadRequest,
		},
		{
			name: "courier cannot confirm", method: http.MethodPost, path: orderPath + "/transitions",
			actor: &a.courier, body: `{"action":"confirm"}`, want: http.StatusUnprocessableEntity,
		},
		{
			name: "expected status mismatch", method: http.MethodPost, path: orderPath + "/transitions",
			actor: &a.patient, body: `{"action":"cancel","expectedStatus":"confirmed"}`, want: http.StatusConflict,
		},
		{
			name: "someone else's inbox", method: http.MethodGet,
			path:  "/api/v1/users/" + a.patient.ID().String() + "/notifications",
			actor: &a.pharmacist, want: http.StatusForbidden,
		},
		{
			name: "couriers are registered by admins", method: http.MethodPost, path: "/api/v1/couriers",
			actor: &a.pharmacist, body: `{"name":"Karim"}`, want: http.StatusForbidden,
		},
		{
			name: "unknown status filter", method: http.MethodGet, path: "/api/v1/orders?status=lost",
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body httpadapter.Error
			code := do(t, e, tt.method, tt.path, tt.actor, tt.body, &body)

			assert.Equal(t, tt.want, code)
			assert.Equal(t, tt.want, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestListOrdersByStatus(t *testing.T) {
	e, a := newTestServer(t)

	submit := func(medication string) string {
		var created httpadapter.Created
		code := do(t, e, http.MethodPost, "/api/v1/orders", &a.patient, `{
			"pharmacyId": "`+a.pharmacist.ID().String()+`",
			"deliveryAddress": "7 Rue Larbi Ben M'hidi",
			"medications": [{"name": "`+medication+`"}]
		}`, &created)
		require.Equal(t, http.StatusCreated, code)
		return created.ID.String()
	}
	pending := submit("Metformin 850mg")
	confirmed := submit("Salbutamol inhaler")

	code := do(t, e, http.MethodPost, "/api/v1/orders/"+confirmed+"/ledger", &a.pharmacist,
		`{"operation":"set_pharmacist_pricing","index":0,"price":"420.00","available":true}`, nil)
	require.Equal(t, http.StatusOK, code)
	code = do(t, e, http.MethodPost, "/api/v1/orders/"+confirmed+"/transitions", &a.pharmacist,
		`{"action":"confirm"}`, nil)
	require.Equal(t, http.StatusOK, code)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "no filter lists every active order", query: "", want: []string{pending, confirmed}},
		{name: "single status", query: "?status=pending", want: []string{pending}},
		{name: "repeated status", query: "?status=pending&status=confirmed", want: []string{pending, confirmed}},
		{name: "status with no orders", query: "?status=in_transit", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var listed []httpadapter.OrderSummary
			code := do(t, e, http.MethodGet, "/api/v1/orders"+tt.query, nil, "", &listed)
			require.Equal(t, http.StatusOK, code)

			ids := make([]string, 0, len(listed))
			for _, o := range listed {
				ids = append(ids, o.ID.String())
			}
			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}
