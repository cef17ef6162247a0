// Package http is the inbound REST adapter. It translates requests into commands and
// queries and maps domain error categories to status codes. Authentication happens
// upstream: the caller's identity arrives in the X-Actor-Id and X-Actor-Role headers.
package http

import (
	"net/http"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// Handlers are the use cases served over HTTP.
type Handlers struct {
	CreateOrder           commands.CreateOrderCommandHandler
	ApplyTransition       commands.ApplyTransitionCommandHandler
	LedgerOperation       commands.LedgerOperationCommandHandler
	CreateCourier         commands.CreateCourierCommandHandler
	MarkNotificationRead  commands.MarkNotificationReadCommandHandler
	GetOrder              queries.GetOrderQueryHandler
	ListActiveOrders      queries.ListActiveOrdersQueryHandler
	ListAvailableCouriers queries.ListAvailableCouriersQueryHandler
	ListNotifications     queries.ListNotificationsQueryHandler
}

// Server implements the REST endpoints on top of the application handlers.
type Server struct {
	h Handlers
}

func NewServer(handlers Handlers) *Server {
	return &Server{h: handlers}
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used to register routes.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every route of s on router.
func RegisterHandlers(router EchoRouter, s *Server) {
	router.GET("/health", s.Health)

	router.POST("/api/v1/orders", s.CreateOrder)
	router.GET("/api/v1/orders", s.ListOrders)
	router.GET("/api/v1/orders/:orderId", s.GetOrder)
	router.POST("/api/v1/orders/:orderId/transitions", s.ApplyTransition)
	router.POST("/api/v1/orders/:orderId/ledger", s.ApplyLedgerOperation)

	router.POST("/api/v1/couriers", s.CreateCourier)
	router.GET("/api/v1/couriers/available", s.ListAvailableCouriers)

	router.GET("/api/v1/users/:userId/notifications", s.ListNotifications)
	router.POST("/api/v1/notifications/:notificationId/read", s.MarkNotificationRead)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}
