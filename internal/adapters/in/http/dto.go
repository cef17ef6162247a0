package http

import (
	"time"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/application/usecases/queries"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type Medication struct {
	Name   string `json:"name"`
	SurBon bool   `json:"surBon"`
}

type NewOrder struct {
	PharmacyID      openapi_types.UUID  `json:"pharmacyId"`
	PrescriptionID  *openapi_types.UUID `json:"prescriptionId,omitempty"`
	DeliveryAddress string              `json:"deliveryAddress"`
	Latitude        *float64            `json:"latitude,omitempty"`
	Longitude       *float64            `json:"longitude,omitempty"`
	Medications     []Medication        `json:"medications"`
}

type Transition struct {
	Action         string              `json:"action"`
	CourierID      *openapi_types.UUID `json:"courierId,omitempty"`
	Reason         string              `json:"reason,omitempty"`
	ExpectedStatus string              `json:"expectedStatus,omitempty"`
}

type LedgerOperation struct {
	Operation string           `json:"operation"`
	Index     int              `json:"index"`
	Name      string           `json:"name,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Available bool             `json:"available"`
	SurBon    bool             `json:"surBon"`
}

type NewCourier struct {
	Name string `json:"name"`
}

type Created struct {
	ID openapi_types.UUID `json:"id"`
}

type Effect struct {
	Type      string              `json:"type"`
	Recipient *openapi_types.UUID `json:"recipient,omitempty"`
	Event     string              `json:"event,omitempty"`
}

type TransitionResult struct {
	OrderID   openapi_types.UUID `json:"orderId"`
	From      string             `json:"from"`
	NewStatus string             `json:"newStatus"`
	Effects   []Effect           `json:"effects"`
}

type LineItem struct {
	Name      string              `json:"name"`
	SurBon    bool                `json:"surBon"`
	Price     decimal.NullDecimal `json:"price"`
	Available bool                `json:"available"`
	Source    string              `json:"source"`
}

type Ledger struct {
	Items []LineItem          `json:"items"`
	Total decimal.NullDecimal `json:"total"`
}

type Order struct {
	ID                 openapi_types.UUID  `json:"id"`
	PatientID          openapi_types.UUID  `json:"patientId"`
	PharmacyID         openapi_types.UUID  `json:"pharmacyId"`
	PrescriptionID     *openapi_types.UUID `json:"prescriptionId,omitempty"`
	CourierID          *openapi_types.UUID `json:"courierId,omitempty"`
	Status             string              `json:"status"`
	StatusReason       string              `json:"statusReason,omitempty"`
	Medications        []LineItem          `json:"medications"`
	Total              decimal.NullDecimal `json:"total"`
	DeliveryAddress    string              `json:"deliveryAddress"`
	Latitude           *float64            `json:"latitude,omitempty"`
	Longitude          *float64            `json:"longitude,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	AssignedAt         *time.Time          `json:"assignedAt,omitempty"`
	CourierConfirmedAt *time.Time          `json:"courierConfirmedAt,omitempty"`
	PatientConfirmedAt *time.Time          `json:"patientConfirmedAt,omitempty"`
	DeliveredAt        *time.Time          `json:"deliveredAt,omitempty"`
	DisputeFlaggedAt   *time.Time          `json:"disputeFlaggedAt,omitempty"`
	ForceConfirmed     bool                `json:"forceConfirmed"`
	ForceConfirmReason string              `json:"forceConfirmReason,omitempty"`
	Version            int64               `json:"version"`
}

type OrderSummary struct {
	ID              openapi_types.UUID  `json:"id"`
	PatientID       openapi_types.UUID  `json:"patientId"`
	PharmacyID      openapi_types.UUID  `json:"pharmacyId"`
	CourierID       *openapi_types.UUID `json:"courierId,omitempty"`
	Status          string              `json:"status"`
	Total           decimal.NullDecimal `json:"total"`
	DeliveryAddress string              `json:"deliveryAddress"`
	Disputed        bool                `json:"disputed"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type Courier struct {
	ID   openapi_types.UUID `json:"id"`
	Name string             `json:"name"`
}

type Notification struct {
	ID        openapi_types.UUID `json:"id"`
	OrderID   openapi_types.UUID `json:"orderId"`
	Kind      string             `json:"kind"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	Urgency   string             `json:"urgency"`
	Channel   string             `json:"channel"`
	IsRead    bool               `json:"isRead"`
	CreatedAt time.Time          `json:"createdAt"`
	ReadAt    *time.Time         `json:"readAt,omitempty"`
}

func toAPIUUID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	raw := id.Value()
	return &raw
}

func toTransitionResult(r commands.TransitionResult) TransitionResult {
	effects := make([]Effect, 0, len(r.Effects))
	for _, e := range r.Effects {
		effect := Effect{Type: e.Type.String()}
		if e.Type == order.EffectNotify {
			effect.Recipient = toAPIUUID(&e.Recipient)
			effect.Event = e.Event.String()
		}
		effects = append(effects, effect)
	}
	return TransitionResult{
		OrderID:   r.OrderID.Value(),
		From:      r.From.String(),
		NewStatus: r.NewStatus.String(),
		Effects:   effects,
	}
}

func toLedger(r commands.LedgerResult) Ledger {
	items := make([]LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, LineItem{
			Name:      item.Name(),
			SurBon:    item.SurBon(),
			Price:     item.Price(),
			Available: item.Available(),
			Source:    item.Source().String(),
		})
	}
	return Ledger{Items: items, Total: r.Total}
}

func toOrder(v queries.GetOrderQueryResponse) Order {
	medications := make([]LineItem, 0, len(v.Medications))
	for _, m := range v.Medications {
		medications = append(medications, LineItem{
			Name:      m.Name,
			SurBon:    m.SurBon,
			Price:     m.Price,
			Available: m.Available,
			Source:    m.Source,
		})
	}

	o := Order{
		ID:                 v.ID.Value(),
		PatientID:          v.PatientID.Value(),
		PharmacyID:         v.PharmacyID.Value(),
		PrescriptionID:     toAPIUUID(v.PrescriptionID),
		CourierID:          toAPIUUID(v.CourierID),
		Status:             v.Status,
		StatusReason:       v.StatusReason,
		Medications:        medications,
		Total:              v.Total,
		DeliveryAddress:    v.DeliveryAddress,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
		AssignedAt:         v.AssignedAt,
		CourierConfirmedAt: v.CourierConfirmedAt,
		PatientConfirmedAt: v.PatientConfirmedAt,
		DeliveredAt:        v.DeliveredAt,
		DisputeFlaggedAt:   v.DisputeFlaggedAt,
		ForceConfirmed:     v.ForceConfirmed,
		ForceConfirmReason: v.ForceConfirmReason,
		Version:            v.Version,
	}
	if v.Coordinates != nil {
		lat, lng := v.Coordinates.Latitude(), v.Coordinates.Longitude()
		o.Latitude, o.Longitude = &lat, &lng
	}
	return o
}
