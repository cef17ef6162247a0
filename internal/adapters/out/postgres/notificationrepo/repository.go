package notificationrepo

import (
	"context"
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add inserts notifications in one statement.
func (r *GormNotificationRepository) Add(ctx context.Context, notifications ...*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		if err := n.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(n))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// Update stores the read state. Content never changes after creation.
func (r *GormNotificationRepository) Update(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ?", aggregate.ID().Value()).
		Updates(map[string]any{
			"is_read": aggregate.IsRead(),
			"read_at": aggregate.ReadAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notificationId", aggregate.ID())
	}
	return nil
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notificationId", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByUser returns the inbox of userID, newest first.
func (r *GormNotificationRepository) ListByUser(
	ctx context.Context,
	userID kernel.UUID,
	unreadOnly bool,
) ([]*notification.Notification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID.Value())
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var dtos []NotificationDTO
	if err := query.Order("created_at DESC, seq DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	list := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, nil
}
