package commands

import (
	"errors"
	"fmt"
	"strings"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOnlyPatientsSubmitOrders = errors.New("only patients submit orders")
	ErrMedicationsAreRequired   = errs.NewValueIsRequiredError("medications")
)

// MedicationRequest is one medication typed by the patient.
type MedicationRequest struct {
	Name   string
	SurBon bool
}

// CreateOrderCommand submits a new order on behalf of a patient.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(patient, pharmacyID, nil, "12 Rue de la Paix", nil,
//	    []MedicationRequest{{Name: "Amoxicillin 500mg", SurBon: true}})
//	if err != nil {
//	    return err
//	}
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	patient         kernel.Actor
	pharmacyID      kernel.UUID
	prescriptionID  *kernel.UUID
	deliveryAddress string
	coordinates     *kernel.Coordinates
	medications     []order.LineItem

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the submission. A fresh order id is generated.
func NewCreateOrderCommand(
	patient kernel.Actor,
	pharmacyID kernel.UUID,
	prescriptionID *kernel.UUID,
	deliveryAddress string,
	coordinates *kernel.Coordinates,
	medications []MedicationRequest,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		orderID:        kernel.NewUUID(),
		prescriptionID: prescriptionID,
		coordinates:    coordinates,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPatient(patient),
		cmd.setPharmacyID(pharmacyID),
		cmd.setDeliveryAddress(deliveryAddress),
		cmd.setMedications(medications),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Patient() kernel.Actor {
	return c.patient
}

func (c CreateOrderCommand) PharmacyID() kernel.UUID {
	return c.pharmacyID
}

func (c CreateOrderCommand) PrescriptionID() *kernel.UUID {
	return c.prescriptionID
}

func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c CreateOrderCommand) Coordinates() *kernel.Coordinates {
	return c.coordinates
}

func (c CreateOrderCommand) Medications() []order.LineItem {
	return c.medications
}

func (c *CreateOrderCommand) setPatient(patient kernel.Actor) error {
	if err := patient.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("patient", err)
	}
	if !patient.Is(kernel.RolePatient) {
		return errs.NewInvalidTransitionErrorWithCause(
			order.Unknown.String(), order.ActionSubmit.String(), patient.Role().String(), ErrOnlyPatientsSubmitOrders)
	}

	c.patient = patient
	return nil
}

func (c *CreateOrderCommand) setPharmacyID(pharmacyID kernel.UUID) error {
	if err := pharmacyID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pharmacyId", err)
	}

	c.pharmacyID = pharmacyID
	return nil
}

func (c *CreateOrderCommand) setDeliveryAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}

	c.deliveryAddress = address
	return nil
}

func (c *CreateOrderCommand) setMedications(requests []MedicationRequest) error {
	if len(requests) == 0 {
		return ErrMedicationsAreRequired
	}

	items := make([]order.LineItem, 0, len(requests))
	var joined error
	for i, r := range requests {
		item, err := order.NewPatientItem(r.Name, r.SurBon)
		if err != nil {
			joined = errors.Join(joined, fmt.Errorf("medications[%d]: %w", i, err))
			continue
		}
		items = append(items, item)
	}
	if joined != nil {
		return joined
	}

	c.medications = items
	return nil
}
