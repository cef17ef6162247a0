package http

import (
	"net/http"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ListNotifications handles GET /api/v1/users/:userId/notifications?unread=true.
// Users read their own inbox only.
func (s *Server) ListNotifications(ctx echo.Context) error {
	userID, err := pathUUID(ctx, "userId")
	if err != nil {
		return writeError(ctx, err)
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}
	if !actor.ID().IsEqual(userID) {
		return writeError(ctx, echo.NewHTTPError(http.StatusForbidden, "Inbox belongs to another user"))
	}
	unreadOnly, err := queryBool(ctx, "unread")
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewListNotificationsQuery(userID, unreadOnly)
	if err != nil {
		return writeError(ctx, err)
	}
	inbox, err := s.h.ListNotifications.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]Notification, 0, len(inbox))
	for _, n := range inbox {
		response = append(response, Notification{
			ID:        n.ID.Value(),
			OrderID:   n.OrderID.Value(),
			Kind:      n.Kind,
			Title:     n.Title,
			Message:   n.Message,
			Urgency:   n.Urgency,
			Channel:   n.Channel,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
			ReadAt:    n.ReadAt,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// MarkNotificationRead handles POST /api/v1/notifications/:notificationId/read on
// behalf of the calling user.
func (s *Server) MarkNotificationRead(ctx echo.Context) error {
	notificationID, err := pathUUID(ctx, "notificationId")
	if err != nil {
		return writeError(ctx, err)
	}
	actor, err := actorFrom(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID, actor.ID())
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.h.MarkNotificationRead.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
