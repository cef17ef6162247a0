package http

import (
	"errors"
	"net/http"

	"pharmacy/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const (
	HeaderActorID   = "X-Actor-Id"
	HeaderActorRole = "X-Actor-Role"
)

var ErrActorIsRequired = errors.New("X-Actor-Id and X-Actor-Role headers are required")

// actorFrom reads the caller from the identity headers. The system role cannot be
// claimed from outside.
func actorFrom(ctx echo.Context) (kernel.Actor, error) {
	rawID := ctx.Request().Header.Get(HeaderActorID)
	rawRole := ctx.Request().Header.Get(HeaderActorRole)
	if rawID == "" || rawRole == "" {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, ErrActorIsRequired.Error())
	}

	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Invalid "+HeaderActorID)
	}
	role, err := kernel.ParseRole(rawRole)
	if err != nil {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Invalid "+HeaderActorRole)
	}
	return kernel.NewActor(id, role)
}
