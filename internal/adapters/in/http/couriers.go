package http

import (
	"net/http"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/application/usecases/queries"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateCourier handles POST /api/v1/couriers. Registering couriers is an admin task.
func (s *Server) CreateCourier(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	if !actor.Is(kernel.RoleAdmin) {
		return writeError(ctx, echo.NewHTTPError(http.StatusForbidden, "Only admins register couriers"))
	}

	var body NewCourier
	if err = ctx.Bind(&body); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewCreateCourierCommand(body.Name)
	if err != nil {
		return writeError(ctx, err)
	}
	courierID, err := s.h.CreateCourier.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, Created{ID: courierID.Value()})
}

// ListAvailableCouriers handles GET /api/v1/couriers/available.
func (s *Server) ListAvailableCouriers(ctx echo.Context) error {
	couriers, err := s.h.ListAvailableCouriers.Handle(ctx.Request().Context(), queries.NewListAvailableCouriersQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]Courier, 0, len(couriers))
	for _, c := range couriers {
		response = append(response, Courier{ID: c.ID.Value(), Name: c.Name})
	}
	return ctx.JSON(http.StatusOK, response)
}
