package orderrepo

import (
	"context"
	"errors"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order together with its ledger.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the new state only if the row still has the status and version the
// aggregate was read with, and bumps the version. The ledger rows are replaced.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND version = ?", dto.ID, aggregate.PersistedStatus().String(), dto.Version).
		Updates(map[string]any{
			"courier_id":           dto.CourierID,
			"status":               dto.Status,
			"status_reason":        dto.StatusReason,
			"total":                dto.Total,
			"updated_at":           dto.UpdatedAt,
			"assigned_at":          dto.AssignedAt,
			"courier_confirmed_at": dto.CourierConfirmedAt,
			"patient_confirmed_at": dto.PatientConfirmedAt,
			"delivered_at":         dto.DeliveredAt,
			"dispute_flagged_at":   dto.DisputeFlaggedAt,
			"force_confirmed":      dto.ForceConfirmed,
			"force_confirm_reason": dto.ForceConfirmReason,
			"version":              gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewStaleStateError("orderId", aggregate.ID(), aggregate.PersistedStatus().String())
	}

	if err := db.Where("order_id = ?", dto.ID).Delete(&LineItemDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Items) == 0 {
		return nil
	}
	return db.Create(&dto.Items).Error
}

// Get retrieves an order by ID with its ledger in position order.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByStatuses returns orders in any of statuses, oldest first.
func (r *GormOrderRepository) ListByStatuses(ctx context.Context, statuses []order.Status) ([]*order.Order, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return r.find(ctx, "status = ANY(?)", pq.Array(names))
}

// ListOffersBefore returns outstanding offers made at or before t.
func (r *GormOrderRepository) ListOffersBefore(ctx context.Context, t time.Time) ([]*order.Order, error) {
	return r.find(ctx, "status = ? AND assigned_at <= ?", order.AssignedPendingAcceptance.String(), t)
}

// ListUnflaggedArrivalsBefore returns arrivals confirmed by the courier at or before t
// and not yet flagged as disputed.
func (r *GormOrderRepository) ListUnflaggedArrivalsBefore(ctx context.Context, t time.Time) ([]*order.Order, error) {
	return r.find(ctx,
		"status = ? AND dispute_flagged_at IS NULL AND courier_confirmed_at <= ?",
		order.ArrivedPendingConfirmation.String(), t,
	)
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (r *GormOrderRepository) find(ctx context.Context, query string, args ...any) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.withItems(ctx).Where(query, args...).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
