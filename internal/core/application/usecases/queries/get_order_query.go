// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries read committed state through the repository ports and return
// flat read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its ledger and handshake timestamps.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order
//	}
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// MedicationResponse is one ledger line. Price is invalid until the pharmacist
// prices the item.
type MedicationResponse struct {
	Name      string
	SurBon    bool
	Price     decimal.NullDecimal
	Available bool
	Source    string
}

// GetOrderQueryResponse is the full read model of an order.
type GetOrderQueryResponse struct {
	ID                 kernel.UUID
	PatientID          kernel.UUID
	PharmacyID         kernel.UUID
	PrescriptionID     *kernel.UUID
	CourierID          *kernel.UUID
	Status             string
	StatusReason       string
	Medications        []MedicationResponse
	Total              decimal.NullDecimal
	DeliveryAddress    string
	Coordinates        *kernel.Coordinates
	CreatedAt          time.Time
	UpdatedAt          time.Time
	AssignedAt         *time.Time
	CourierConfirmedAt *time.Time
	PatientConfirmedAt *time.Time
	DeliveredAt        *time.Time
	DisputeFlaggedAt   *time.Time
	ForceConfirmed     bool
	ForceConfirmReason string
	Version            int64
}

func newGetOrderQueryResponse(o *order.Order) GetOrderQueryResponse {
	s := o.Snapshot()
	medications := make([]MedicationResponse, 0, len(s.Items))
	for _, item := range s.Items {
		medications = append(medications, MedicationResponse{
			Name:      item.Name(),
			SurBon:    item.SurBon(),
			Price:     item.Price(),
			Available: item.Available(),
			Source:    item.Source().String(),
		})
	}

	return GetOrderQueryResponse{
		ID:                 s.ID,
		PatientID:          s.PatientID,
		PharmacyID:         s.PharmacyID,
		PrescriptionID:     s.PrescriptionID,
		CourierID:          s.CourierID,
		Status:             s.Status.String(),
		StatusReason:       s.StatusReason,
		Medications:        medications,
		Total:              s.Total,
		DeliveryAddress:    s.DeliveryAddress,
		Coordinates:        s.Coordinates,
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
}
