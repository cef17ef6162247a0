// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// An order is stored as one row in "orders" plus one row per ledger line in "order_items".
package orderrepo

import (
	"fmt"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status and version together form the compare-and-swap key of every update.
type OrderDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PatientID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	PharmacyID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	PrescriptionID *uuid.UUID `gorm:"type:uuid"`
	CourierID      *uuid.UUID `gorm:"type:uuid;index"`

	Status       string              `gorm:"type:varchar(40);index;not null"`
	StatusReason string              `gorm:"type:text"`
	Total        decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	Items        []LineItemDTO       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	DeliveryAddress string `gorm:"type:text;not null"`
	Latitude        *float64
	Longitude       *float64

	CreatedAt          time.Time `gorm:"index;not null;autoCreateTime:false"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime:false"`
	AssignedAt         *time.Time
	CourierConfirmedAt *time.Time
	PatientConfirmedAt *time.Time
	DeliveredAt        *time.Time
	DisputeFlaggedAt   *time.Time

	ForceConfirmed     bool
	ForceConfirmReason string `gorm:"type:text"`

	Version int64 `gorm:"not null;default:0"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one medication of the ledger. Position keeps the ledger order,
// which the pharmacist addresses by index.
type LineItemDTO struct {
	OrderID   uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Position  int                 `gorm:"primaryKey;autoIncrement:false"`
	Name      string              `gorm:"type:text;not null"`
	SurBon    bool                `gorm:"not null"`
	Price     decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	Available bool                `gorm:"not null"`
	Source    string              `gorm:"type:varchar(20);not null"`
}

func (LineItemDTO) TableName() string {
	return "order_items"
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Value()
	return &raw
}

func restoreOptionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	restored, err := kernel.UUIDFrom(*id)
	if err != nil {
		return nil, err
	}
	return &restored, nil
}

func itemsFromDomain(orderID uuid.UUID, items []order.LineItem) []LineItemDTO {
	dtos := make([]LineItemDTO, 0, len(items))
	for i, item := range items {
		dtos = append(dtos, LineItemDTO{
			OrderID:   orderID,
			Position:  i,
			Name:      item.Name(),
			SurBon:    item.SurBon(),
			Price:     item.Price(),
			Available: item.Available(),
			Source:    item.Source().String(),
		})
	}
	return dtos
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	id := s.ID.Value()

	dto := OrderDTO{
		ID:                 id,
		PatientID:          s.PatientID.Value(),
		PharmacyID:         s.PharmacyID.Value(),
		PrescriptionID:     optionalUUID(s.PrescriptionID),
		CourierID:          optionalUUID(s.CourierID),
		Status:             s.Status.String(),
		StatusReason:       s.StatusReason,
		Total:              s.Total,
		Items:              itemsFromDomain(id, s.Items),
		DeliveryAddress:    s.DeliveryAddress,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		AssignedAt:         s.AssignedAt,
		CourierConfirmedAt: s.CourierConfirmedAt,
		PatientConfirmedAt: s.PatientConfirmedAt,
		DeliveredAt:        s.DeliveredAt,
		DisputeFlaggedAt:   s.DisputeFlaggedAt,
		ForceConfirmed:     s.ForceConfirmed,
		ForceConfirmReason: s.ForceConfirmReason,
		Version:            s.Version,
	}
	if s.Coordinates != nil {
		lat, lng := s.Coordinates.Latitude(), s.Coordinates.Longitude()
		dto.Latitude, dto.Longitude = &lat, &lng
	}
	return dto
}

// toDomain rebuilds the aggregate; the stored status and version become the
// expected state of the next update.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFrom(dto.ID)
	if err != nil {
		return nil, err
	}
	patientID, err := kernel.UUIDFrom(dto.PatientID)
	if err != nil {
		return nil, err
	}
	pharmacyID, err := kernel.UUIDFrom(dto.PharmacyID)
	if err != nil {
		return nil, err
	}
	prescriptionID, err := restoreOptionalUUID(dto.PrescriptionID)
	if err != nil {
		return nil, err
	}
	courierID, err := restoreOptionalUUID(dto.CourierID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		source, sourceErr := order.ParseSource(itemDTO.Source)
		if sourceErr != nil {
			return nil, sourceErr
		}
		item, itemErr := order.RestoreLineItem(itemDTO.Name, itemDTO.SurBon, itemDTO.Price, itemDTO.Available, source)
		if itemErr != nil {
			return nil, fmt.Errorf("order %s item %d: %w", dto.ID, itemDTO.Position, itemErr)
		}
		items = append(items, item)
	}

	var coordinates *kernel.Coordinates
	if dto.Latitude != nil && dto.Longitude != nil {
		c, coordErr := kernel.NewCoordinates(*dto.Latitude, *dto.Longitude)
		if coordErr != nil {
			return nil, coordErr
		}
		coordinates = &c
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 id,
		PatientID:          patientID,
		PharmacyID:         pharmacyID,
		PrescriptionID:     prescriptionID,
		CourierID:          courierID,
		Status:             status,
		Items:              items,
		Total:              dto.Total,
		DeliveryAddress:    dto.DeliveryAddress,
		Coordinates:        coordinates,
		CreatedAt:          dto.CreatedAt.UTC(),
		UpdatedAt:          dto.UpdatedAt.UTC(),
		AssignedAt:         utc(dto.AssignedAt),
		CourierConfirmedAt: utc(dto.CourierConfirmedAt),
		PatientConfirmedAt: utc(dto.PatientConfirmedAt),
		DeliveredAt:        utc(dto.DeliveredAt),
		DisputeFlaggedAt:   utc(dto.DisputeFlaggedAt),
		ForceConfirmed:     dto.ForceConfirmed,
		ForceConfirmReason: dto.ForceConfirmReason,
		StatusReason:       dto.StatusReason,
		Version:            dto.Version,
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
