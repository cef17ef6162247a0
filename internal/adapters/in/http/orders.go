package http

import (
	"net/http"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/application/usecases/queries"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders. Only patients submit orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var body NewOrder
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	pharmacyID, err := kernel.UUIDFrom(body.PharmacyID)
	if err != nil {
		return writeError(ctx, errs.NewValueIsRequiredErrorWithCause("pharmacyId", err))
	}
	prescriptionID, err := optionalUUID(body.PrescriptionID)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("prescriptionId", err))
	}
	var coordinates *kernel.Coordinates
	if body.Latitude != nil && body.Longitude != nil {
		c, coordErr := kernel.NewCoordinates(*body.Latitude, *body.Longitude)
		if coordErr != nil {
			return writeError(ctx, coordErr)
		}
		coordinates = &c
	}
	medications := make([]commands.MedicationRequest, 0, len(body.Medications))
	for _, m := range body.Medications {
		medications = append(medications, commands.MedicationRequest{Name: m.Name, SurBon: m.SurBon})
	}

	cmd, err := commands.NewCreateOrderCommand(actor, pharmacyID, prescriptionID, body.DeliveryAddress, coordinates, medications)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, Created{ID: orderID.Value()})
}

// ListOrders handles GET /api/v1/orders. Without ?status= it returns every
// non-terminal order.
func (s *Server) ListOrders(ctx echo.Context) error {
	names, err := queryStrings(ctx, "status")
	if err != nil {
		return writeError(ctx, err)
	}
	statuses := make([]order.Status, 0, len(names))
	for _, name := range names {
		status, parseErr := order.ParseStatus(name)
		if parseErr != nil {
			return writeError(ctx, parseErr)
		}
		statuses = append(statuses, status)
	}

	query, err := queries.NewListActiveOrdersQuery(statuses...)
	if err != nil {
		return writeError(ctx, err)
	}
	rows, err := s.h.ListActiveOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]OrderSummary, 0, len(rows))
	for _, r := range rows {
		response = append(response, OrderSummary{
			ID:              r.ID.Value(),
			PatientID:       r.PatientID.Value(),
			PharmacyID:      r.PharmacyID.Value(),
			CourierID:       toAPIUUID(r.CourierID),
			Status:          r.Status,
			Total:           r.Total,
			DeliveryAddress: r.DeliveryAddress,
			Disputed:        r.Disputed,
			CreatedAt:       r.CreatedAt,
			UpdatedAt:       r.UpdatedAt,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	view, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(view))
}

// ApplyTransition handles POST /api/v1/orders/:orderId/transitions.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var body Transition
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	action, err := order.ParseAction(body.Action)
	if err != nil {
		return writeError(ctx, err)
	}
	payload := order.Payload{Reason: body.Reason}
	if body.CourierID != nil {
		if payload.CourierID, err = kernel.UUIDFrom(*body.CourierID); err != nil {
			return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("courierId", err))
		}
	}

	cmd, err := commands.NewApplyTransitionCommand(orderID, actor, action, payload)
	if err != nil {
		return writeError(ctx, err)
	}
	if body.ExpectedStatus != "" {
		expected, parseErr := order.ParseStatus(body.ExpectedStatus)
		if parseErr != nil {
			return writeError(ctx, parseErr)
		}
		cmd = cmd.WithExpectedStatus(expected)
	}

	result, err := s.h.ApplyTransition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toTransitionResult(result))
}

// ApplyLedgerOperation handles POST /api/v1/orders/:orderId/ledger.
func (s *Server) ApplyLedgerOperation(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return writeError(ctx, err)
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var body LedgerOperation
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	operation, err := order.ParseLedgerOperation(body.Operation)
	if err != nil {
		return writeError(ctx, err)
	}
	payload := commands.LedgerPayload{
		Index:     body.Index,
		Name:      body.Name,
		Available: body.Available,
		SurBon:    body.SurBon,
	}
	if body.Price != nil {
		payload.Price = *body.Price
	}

	cmd, err := commands.NewLedgerOperationCommand(orderID, actor, operation, payload)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.LedgerOperation.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toLedger(result))
}
