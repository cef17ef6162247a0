// Package notificationrepo persists the notification inbox.
package notificationrepo

import (
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// NotificationDTO is one inbox row. Seq orders notifications created at the same
// instant by insertion.
type NotificationDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_inbox,priority:1"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:varchar(40);not null"`
	Title     string    `gorm:"type:text;not null"`
	Message   string    `gorm:"type:text;not null"`
	Urgency   string    `gorm:"type:varchar(10);not null"`
	Channel   string    `gorm:"type:varchar(20);not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false;index:idx_notifications_inbox,priority:2"`
	ReadAt    *time.Time
	Seq       int64 `gorm:"autoIncrement;not null"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID().Value(),
		UserID:    n.UserID().Value(),
		OrderID:   n.OrderID().Value(),
		Kind:      n.Kind().String(),
		Title:     n.Title(),
		Message:   n.Message(),
		Urgency:   n.Urgency().String(),
		Channel:   string(n.Channel()),
		IsRead:    n.IsRead(),
		CreatedAt: n.CreatedAt(),
		ReadAt:    n.ReadAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFrom(dto.UserID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFrom(dto.OrderID)
	if err != nil {
		return nil, err
	}
	urgency, err := notification.ParseUrgency(dto.Urgency)
	if err != nil {
		return nil, err
	}
	channel, err := notification.ParseChannel(dto.Channel)
	if err != nil {
		return nil, err
	}

	var readAt *time.Time
	if dto.ReadAt != nil {
		t := dto.ReadAt.UTC()
		readAt = &t
	}

	return notification.RestoreNotification(notification.RestoreParams{
		ID:        id,
		UserID:    userID,
		OrderID:   orderID,
		Kind:      order.Event(dto.Kind),
		Title:     dto.Title,
		Message:   dto.Message,
		Urgency:   urgency,
		Channel:   channel,
		IsRead:    dto.IsRead,
		CreatedAt: dto.CreatedAt.UTC(),
		ReadAt:    readAt,
	})
}
