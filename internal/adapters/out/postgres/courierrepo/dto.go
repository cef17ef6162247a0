// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"pharmacy/internal/core/domain/model/courier"
	"pharmacy/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// A courier holds at most one order and an order is held by at most one courier, so
// current_order_id is unique among non-null values.
type CourierDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           string     `gorm:"type:varchar(255);not null;index"`
	CurrentOrderID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Version        int64      `gorm:"not null;default:0"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(c *courier.Courier) CourierDTO {
	var orderID *uuid.UUID
	if id := c.CurrentOrderID(); id != nil {
		raw := id.Value()
		orderID = &raw
	}

	return CourierDTO{
		ID:             c.ID().Value(),
		Name:           c.Name(),
		CurrentOrderID: orderID,
		Version:        c.Version(),
	}
}

// toDomain converts a database DTO to a courier domain aggregate using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}

	var orderID *kernel.UUID
	if dto.CurrentOrderID != nil {
		oID, orderErr := kernel.UUIDFrom(*dto.CurrentOrderID)
		if orderErr != nil {
			return nil, orderErr
		}
		orderID = &oID
	}

	return courier.RestoreCourier(id, dto.Name, orderID, dto.Version)
}
