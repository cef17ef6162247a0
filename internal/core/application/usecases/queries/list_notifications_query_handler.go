package queries

import (
	"context"

	"pharmacy/internal/core/ports"
)

type ListNotificationsQueryHandler struct {
	notifications ports.NotificationRepository
}

func NewListNotificationsQueryHandler(notifications ports.NotificationRepository) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{notifications: notifications}
}

func (h ListNotificationsQueryHandler) Handle(
	ctx context.Context,
	query ListNotificationsQuery,
) ([]ListNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	list, err := h.notifications.ListByUser(ctx, query.UserID(), query.UnreadOnly())
	if err != nil {
		return nil, err
	}

	inbox := make([]ListNotificationsQueryResponse, 0, len(list))
	for _, n := range list {
		inbox = append(inbox, ListNotificationsQueryResponse{
			ID:        n.ID(),
			OrderID:   n.OrderID(),
			Kind:      n.Kind().String(),
			Title:     n.Title(),
			Message:   n.Message(),
			Urgency:   n.Urgency().String(),
			Channel:   string(n.Channel()),
			IsRead:    n.IsRead(),
			CreatedAt: n.CreatedAt(),
			ReadAt:    n.ReadAt(),
		})
	}
	return inbox, nil
}
