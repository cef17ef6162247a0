package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder
	// or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	ErrNotOrderPatient       = errors.New("actor is not the patient of the order")
	ErrNotOrderPharmacy      = errors.New("actor is not the pharmacy of the order")
	ErrNotOrderCourier       = errors.New("actor is not the courier of the order")
	ErrLedgerNotPriced       = errors.New("no medication has been priced")
	ErrOfferNotExpired       = errors.New("offer timeout has not elapsed")
	ErrGraceWindowNotElapsed = errors.New("dispute grace window has not elapsed")
)

// Order is the aggregate root of a pharmacy order. It owns the status field, the
// medication ledger and the handshake timestamps.
//
// Order follows these invariants:
//   - Status only changes along the edges of the lifecycle graph
//   - A courier is referenced exactly when the status requires one
//   - The total is recomputed from the ledger on every pricing change and on confirm
//   - A failed operation leaves the order untouched
//
// Order is not safe for concurrent use. Concurrent writers are serialized by the
// persistence layer through Version and PersistedStatus.
type Order struct {
	id             kernel.UUID
	patientID      kernel.UUID
	pharmacyID     kernel.UUID
	prescriptionID *kernel.UUID
	courierID      *kernel.UUID

	status Status
	ledger Ledger
	total  decimal.NullDecimal

	deliveryAddress string
	coordinates     *kernel.Coordinates

	createdAt          time.Time
	updatedAt          time.Time
	assignedAt         *time.Time
	courierConfirmedAt *time.Time
	patientConfirmedAt *time.Time
	deliveredAt        *time.Time
	disputeFlaggedAt   *time.Time

	forceConfirmed     bool
	forceConfirmReason string
	statusReason       string

	// version and persistedStatus describe the stored row this aggregate was read from.
	version         int64
	persistedStatus Status

	isConstructed bool
}

// NewOrderParams carries the patient's submission.
type NewOrderParams struct {
	ID              kernel.UUID
	PatientID       kernel.UUID
	PharmacyID      kernel.UUID
	PrescriptionID  *kernel.UUID
	DeliveryAddress string
	Coordinates     *kernel.Coordinates
	Medications     []LineItem
}

// NewOrder creates a pending order submitted by a patient.
//
// Parameters:
//   - p: identifiers, delivery address and at least one patient medication
//   - now: submission time
//
// Returns:
//   - *Order: the pending order
//   - error: joined validation errors for every invalid field
//
// Example:
//
//	item, _ := order.NewPatientItem("Amoxicillin 500mg", true)
//	o, err := order.NewOrder(order.NewOrderParams{
//	    ID:              kernel.NewUUID(),
//	    PatientID:       patientID,
//	    PharmacyID:      pharmacyID,
//	    DeliveryAddress: "12 Rue de la Paix",
//	    Medications:     []order.LineItem{item},
//	}, time.Now())
func NewOrder(p NewOrderParams, now time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		setUUID(&o.id, p.ID, "id"),
		setUUID(&o.patientID, p.PatientID, "patientId"),
		setUUID(&o.pharmacyID, p.PharmacyID, "pharmacyId"),
		o.setPrescription(p.PrescriptionID),
		o.setDeliveryAddress(p.DeliveryAddress),
		o.setCoordinates(p.Coordinates),
		o.setMedications(p.Medications),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot is the full state of an order, used by repositories to persist and
// restore the aggregate.
type Snapshot struct {
	ID                 kernel.UUID
	PatientID          kernel.UUID
	PharmacyID         kernel.UUID
	PrescriptionID     *kernel.UUID
	CourierID          *kernel.UUID
	Status             Status
	Items              []LineItem
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
	StatusReason       string
	Version            int64
}

// RestoreOrder rebuilds an order from storage. The snapshot status and version
// become the expected state for the next compare-and-swap write.
func RestoreOrder(s Snapshot) (*Order, error) {
	ledger, ledgerErr := NewLedger(s.Items...)
	o := &Order{
		prescriptionID:     s.PrescriptionID,
		courierID:          s.CourierID,
		status:             s.Status,
		ledger:             ledger,
		total:              s.Total,
		deliveryAddress:    s.DeliveryAddress,
		coordinates:        s.Coordinates,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		assignedAt:         s.AssignedAt,
		courierConfirmedAt: s.CourierConfirmedAt,
		patientConfirmedAt: s.PatientConfirmedAt,
		deliveredAt:        s.DeliveredAt,
		disputeFlaggedAt:   s.DisputeFlaggedAt,
		forceConfirmed:     s.ForceConfirmed,
		forceConfirmReason: s.ForceConfirmReason,
		statusReason:       s.StatusReason,
		version:            s.Version,
		persistedStatus:    s.Status,
		isConstructed:      true,
	}

	if err := errors.Join(
		ledgerErr,
		setUUID(&o.id, s.ID, "id"),
		setUUID(&o.patientID, s.PatientID, "patientId"),
		setUUID(&o.pharmacyID, s.PharmacyID, "pharmacyId"),
		s.Status.Validate(),
		s.Status.ValidateCourier(s.CourierID != nil),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot returns a copy of the order state.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                 o.id,
		PatientID:          o.patientID,
		PharmacyID:         o.pharmacyID,
		PrescriptionID:     o.prescriptionID,
		CourierID:          o.courierID,
		Status:             o.status,
		Items:              o.ledger.Items(),
		Total:              o.total,
		DeliveryAddress:    o.deliveryAddress,
		Coordinates:        o.coordinates,
		CreatedAt:          o.createdAt,
		UpdatedAt:          o.updatedAt,
		AssignedAt:         o.assignedAt,
		CourierConfirmedAt: o.courierConfirmedAt,
		PatientConfirmedAt: o.patientConfirmedAt,
		DeliveredAt:        o.deliveredAt,
		DisputeFlaggedAt:   o.disputeFlaggedAt,
		ForceConfirmed:     o.forceConfirmed,
		ForceConfirmReason: o.forceConfirmReason,
		StatusReason:       o.statusReason,
		Version:            o.version,
	}
}

// Validate ensures the order was built by one of its constructors.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) PatientID() kernel.UUID {
	return o.patientID
}

func (o *Order) PharmacyID() kernel.UUID {
	return o.pharmacyID
}

func (o *Order) PrescriptionID() *kernel.UUID {
	return o.prescriptionID
}

func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Items() []LineItem {
	return o.ledger.Items()
}

func (o *Order) Total() decimal.NullDecimal {
	return o.total
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

func (o *Order) Coordinates() *kernel.Coordinates {
	return o.coordinates
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) AssignedAt() *time.Time {
	return o.assignedAt
}

func (o *Order) CourierConfirmedAt() *time.Time {
	return o.courierConfirmedAt
}

func (o *Order) PatientConfirmedAt() *time.Time {
	return o.patientConfirmedAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

func (o *Order) DisputeFlaggedAt() *time.Time {
	return o.disputeFlaggedAt
}

func (o *Order) ForceConfirmed() bool {
	return o.forceConfirmed
}

func (o *Order) ForceConfirmReason() string {
	return o.forceConfirmReason
}

func (o *Order) StatusReason() string {
	return o.statusReason
}

func (o *Order) Version() int64 {
	return o.version
}

func (o *Order) PersistedStatus() Status {
	return o.persistedStatus
}

func (o *Order) IsNew() bool {
	return o.persistedStatus == Unknown
}

func (o *Order) HoldsCourier(id kernel.UUID) bool {
	return o.isCourier(id) && o.status.HoldsCourier()
}

// Submitted returns the creation transition of a new order.
func (o *Order) Submitted(actor kernel.Actor) Transition {
	return Transition{
		OrderID:    o.id,
		Action:     ActionSubmit,
		Actor:      actor,
		From:       Unknown,
		To:         Pending,
		Effects:    newEffects(actor).notify(o.pharmacyID, EventSubmitted).build(),
		OccurredAt: o.createdAt,
	}
}

// Payload carries the optional arguments of Apply.
type Payload struct {
	CourierID kernel.UUID
	Reason    string
}

// Apply performs action by actor on the order. It is a single entry point over the
// typed methods below and does not touch courier records; courier bookkeeping is the
// responsibility of the assignment coordinator and the delivery handshake.
func (o *Order) Apply(actor kernel.Actor, action Action, payload Payload, now time.Time, policy Policy) (Transition, error) {
	switch action {
	case ActionConfirm:
		return o.Confirm(actor, now)
	case ActionReject:
		return o.Reject(actor, payload.Reason, now)
	case ActionStartPreparing:
		return o.StartPreparing(actor, now)
	case ActionMarkReady:
		return o.MarkReady(actor, now)
	case ActionOffer:
		return o.OfferTo(actor, payload.CourierID, now)
	case ActionAccept:
		return o.AcceptOffer(actor, now)
	case ActionDecline:
		return o.DeclineOffer(actor, now)
	case ActionExpire:
		return o.ExpireOffer(now, policy)
	case ActionArrive:
		return o.ConfirmArrival(actor, now)
	case ActionConfirmReceipt:
		return o.ConfirmReceipt(actor, now)
	case ActionForceConfirm:
		return o.ForceConfirm(actor, payload.Reason, now, policy)
	case ActionCancel:
		return o.Cancel(actor, payload.Reason, now)
	case ActionFlagDispute:
		return o.FlagDispute(now, policy)
	case ActionUnknown, ActionSubmit:
	}
	return Transition{}, errs.NewInvalidTransitionError(o.status.String(), action.String(), actor.Role().String())
}

// Confirm accepts a pending order. The ledger must have been priced; the total is
// recomputed and frozen for the patient's review.
func (o *Order) Confirm(actor kernel.Actor, now time.Time) (Transition, error) {
	to, err := o.target(ActionConfirm, actor)
	if err != nil {
		return Transition{}, err
	}
	if err = o.requirePharmacy(ActionConfirm, actor); err != nil {
		return Transition{}, err
	}
	if !o.ledger.IsPriced() {
		return Transition{}, errs.NewValueIsInvalidErrorWithCause("medications", ErrLedgerNotPriced)
	}

	o.total = o.ledger.ComputeTotal()
	eff := newEffects(actor).notify(o.patientID, EventConfirmed).recomputeTotal()
	return o.move(ActionConfirm, actor, to, nil, eff, now), nil
}

// Reject declines a pending order. reason is optional.
func (o *Order) Reject(actor kernel.Actor, reason string, now time.Time) (Transition, error) {
	to, err := o.target(ActionReject, actor)
	if err != nil {
		return Transition{}, err
	}
	if err = o.requirePharmacy(ActionReject, actor); err != nil {
		return Transition{}, err
	}

	o.statusReason = strings.TrimSpace(reason)
	eff := newEffects(actor).notify(o.patientID, EventRejected)
	return o.move(ActionReject, actor, to, nil, eff, now), nil
}

func (o *Order) StartPreparing(actor kernel.Actor, now time.Time) (Transition, error) {
	to, err := o.target(ActionStartPreparing, actor)
	if err != nil {
		return Transition{}, err
	}
	if err = o.requirePharmacy(ActionStartPreparing, actor); err != nil {
		return Transition{}, err
	}

	eff := newEffects(actor).notify(o.patientID, EventPreparing)
	return o.move(ActionStartPreparing, actor, to, nil, eff, now), nil
}

// MarkReady makes the order eligible for a courier offer.
func (o *Order) MarkReady(actor kernel.Actor, now time.Time) (Transition, error) {
	to, err := o.target(ActionMarkReady, actor)
	if err != nil {
		return Transition{}, err
	}
	if err = o.requirePharmacy(ActionMarkReady, actor); err != nil {
		return Transition{}, err
	}

	eff := newEffects(actor).notify(o.patientID, EventReady)
	return o.move(ActionMarkReady, actor, to, nil, eff, now), nil
}

// OfferTo proposes the order to courierID. The pharmacist picks the courier; the
// order does not check the courier's availability.
func (o *Order) OfferTo(actor kernel.Actor, courierID kernel.UUID, now time.Time) (Transition, error) {
	to, err := o.offerTarget(actor)
	if err != nil {
		return Transition{}, err
	}
	if err = courierID.Validate(); err != nil {
		return Transition{}, errs.NewValueIsRequiredErrorWithCause("courierId", err)
	}

	o.courierID = &courierID
	o.assignedAt = &now
	eff := newEffects(actor).notify(courierID, EventOffered)
	return o.move(ActionOffer, actor, to, &courierID, eff, now), nil
}

// CanOffer reports whether actor may offer o to a courier right now, without
// changing o.
func (o *Order) CanOffer(actor kernel.Actor) error {
	_, err := o.offerTarget(actor)
	return err
}

func (o *Order) offerTarget(actor kernel.Actor) (Status, error) {
	to, err := o.target(ActionOffer, actor)
	if err != nil {
		return Unknown, err
	}
	if err = o.requirePharmacy(ActionOffer, actor); err != nil {
		return Unknown, err
	}
	return to, nil
}

// AcceptOffer is performed by the offered courier.
func (o *Order) AcceptOffer(actor kernel.Actor, now time.Time) (Transition, error) {
	to, err := o.target(ActionAccept, actor)
	if err != nil {
		return Transition{}, err
	}
	if err = o.requireCourier(ActionAccept, actor); err != nil {
		return Transition{}, err
	}

	eff := newEffects(actor).
		notify(o.patientID, EventInTransit).
		notify(o.pharmacyID, EventOfferAccepted)
	return o.move(ActionAccept, actor, to, o.courierID, eff, now), nil
}

// DeclineOffer returns the order to ready_for_delivery and drops the courier reference.
func (o *Order) DeclineOffer(actor kernel.Actor, now time.Time) (Transition, error) {
	to, err := o.target(ActionDecline, actor)
	if err != nil {
		return Transition{}, err
	}
	if err = o.requireCourier(ActionDecline, actor); err != nil {
		return Transition{}, err
	}

	released := o.releaseCourier()
	eff := newEffects(actor).notify(o.pharmacyID, EventOfferDeclined)
	return o.move(ActionDecline, actor, to, released, eff, now), nil
}

// ExpireOffer is the system timeout of an unanswered offer.
func (o *Order) ExpireOffer(now time.Time, policy Policy) (Transition, error) {
	actor := kernel.SystemActor()
	to, err := o.target(ActionExpire, actor)
	if err != nil {
		return Transition{}, err
	}
	if !o.IsOfferExpired(now, policy) {
		return Transition{}, errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), ActionExpire.String(), actor.Role().String(), ErrOfferNotExpired)
	}

	released := o.releaseCourier()
	eff := newEffects(actor).
		notify(o.pharmacyID, EventOfferExpired).
		notify(*released, EventOfferExpired)
	return o.move(ActionExpire, actor, to, released, eff, now), nil
}

// IsOfferExpired reports whether an outstanding offer is older than the offer timeout.
func (o *Order) IsOfferExpired(now time.Time, policy Policy) bool {
	if o.status != AssignedPendingAcceptance || o.assignedAt == nil {
		return false
	}
	return !now.Before(o.assignedAt.Add(policy.WithDefaults().OfferTimeout))
}

// ConfirmArrival records the courier's arrival signal. Repeating it once the order
// is already arrived returns a no-op transition.
func (o *Order) ConfirmArrival(actor kernel.Actor, now time.Time) (Transition, error) {
	if o.status == ArrivedPendingConfirmation && actor.Is(kernel.RoleCourier) {
		if err := o.requireCourier(ActionArrive, actor); err != nil {
			return Transition{}, err
		}
		return o.noop(ActionArrive, actor, now), nil
	}

	to, err := o.target(ActionArrive, actor)
	if err != nil {
		return Transition{}, err
	}
	if err = o.requireCourier(ActionArrive, actor); err != nil {
		return Transition{}, err
	}

	o.courierConfirmedAt = &now
	eff := newEffects(actor).notify(o.patientID, EventCourierArrived)
	return o.move(ActionArrive, actor, to, o.courierID, eff, now), nil
}

// ConfirmReceipt is the patient's confirmation. It is accepted before the courier's
// arrival signal.
func (o *Order) ConfirmReceipt(actor kernel.Actor, now time.Time) (Transition, error) {
	to, err := o.target(ActionConfirmReceipt, actor)
	if err != nil {
		return Transition{}, err
	}
	if err = o.requirePatient(ActionConfirmReceipt, actor); err != nil {
		return Transition{}, err
	}

	o.patientConfirmedAt = &now
	o.deliveredAt = &now
	eff := newEffects(actor).
		notify(o.pharmacyID, EventDelivered).
		notify(*o.courierID, EventDelivered)
	return o.move(ActionConfirmReceipt, actor, to, o.courierID, eff, now), nil
}

// ForceConfirm closes a delivery without the patient. The assigned courier may do so
// once the grace window since arrival has elapsed; an admin may do so at any time.
// reason is mandatory and the order is flagged as force confirmed.
func (o *Order) ForceConfirm(actor kernel.Actor, reason string, now time.Time, policy Policy) (Transition, error) {
	to, err := o.target(ActionForceConfirm, actor)
	if err != nil {
		return Transition{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Transition{}, errs.NewValueIsRequiredError("reason")
	}
	if actor.Is(kernel.RoleCourier) {
		if err = o.requireCourier(ActionForceConfirm, actor); err != nil {
			return Transition{}, err
		}
		if !o.isGraceElapsed(now, policy) {
			return Transition{}, errs.NewInvalidTransitionErrorWithCause(
				o.status.String(), ActionForceConfirm.String(), actor.Role().String(), ErrGraceWindowNotElapsed)
		}
	}

	o.forceConfirmed = true
	o.forceConfirmReason = reason
	o.deliveredAt = &now
	eff := newEffects(actor).
		notify(o.patientID, EventForceConfirmed).
		notify(o.pharmacyID, EventForceConfirmed).
		notify(*o.courierID, EventForceConfirmed)
	return o.move(ActionForceConfirm, actor, to, o.courierID, eff, now), nil
}

// Cancel stops the workflow. Patients may cancel only before preparation starts;
// pharmacists and admins may cancel any non-terminal order. A held courier is
// released and returned in the transition.
func (o *Order) Cancel(actor kernel.Actor, reason string, now time.Time) (Transition, error) {
	to, err := o.target(ActionCancel, actor)
	if err != nil {
		return Transition{}, err
	}
	switch actor.Role() {
	case kernel.RolePatient:
		err = o.requirePatient(ActionCancel, actor)
	case kernel.RolePharmacist:
		err = o.requirePharmacy(ActionCancel, actor)
	case kernel.RoleUnknown, kernel.RoleCourier, kernel.RoleAdmin, kernel.RoleSystem:
	}
	if err != nil {
		return Transition{}, err
	}

	o.statusReason = strings.TrimSpace(reason)
	released := o.releaseCourier()
	eff := newEffects(actor).
		notify(o.patientID, EventCancelled).
		notify(o.pharmacyID, EventCancelled)
	if released != nil {
		eff.notify(*released, EventCancelled)
	}
	return o.move(ActionCancel, actor, to, released, eff, now), nil
}

// FlagDispute surfaces an arrival that the patient has not confirmed within the grace
// window. The status is unchanged and the order is flagged once; later calls are no-ops.
func (o *Order) FlagDispute(now time.Time, policy Policy) (Transition, error) {
	actor := kernel.SystemActor()
	if o.status != ArrivedPendingConfirmation {
		return Transition{}, errs.NewInvalidTransitionError(
			o.status.String(), ActionFlagDispute.String(), actor.Role().String())
	}
	if o.disputeFlaggedAt != nil {
		return o.noop(ActionFlagDispute, actor, now), nil
	}
	if !o.isGraceElapsed(now, policy) {
		return Transition{}, errs.NewInvalidTransitionErrorWithCause(
			o.status.String(), ActionFlagDispute.String(), actor.Role().String(), ErrGraceWindowNotElapsed)
	}

	o.disputeFlaggedAt = &now
	o.updatedAt = now
	eff := newEffects(actor).
		notify(o.pharmacyID, EventDeliveryDisputed).
		notify(o.patientID, EventDeliveryDisputed)
	return Transition{
		OrderID:    o.id,
		Action:     ActionFlagDispute,
		Actor:      actor,
		From:       o.status,
		To:         o.status,
		CourierID:  o.courierID,
		Effects:    eff.build(),
		OccurredAt: now,
	}, nil
}

// IsDisputeDue reports whether FlagDispute would flag the order at now.
func (o *Order) IsDisputeDue(now time.Time, policy Policy) bool {
	return o.status == ArrivedPendingConfirmation && o.disputeFlaggedAt == nil && o.isGraceElapsed(now, policy)
}

// AddPatientItem appends a medication requested by the patient while the order is pending.
func (o *Order) AddPatientItem(actor kernel.Actor, name string, surBon bool, now time.Time) error {
	if err := o.ledgerWindow(LedgerAddPatientItem, actor, kernel.RolePatient, Pending); err != nil {
		return err
	}
	if err := o.requirePatient(ActionUnknown, actor); err != nil {
		return err
	}
	if err := o.ledger.AddPatientItem(name, surBon); err != nil {
		return err
	}
	o.updatedAt = now
	return nil
}

// SetPharmacistPricing prices the item at index (zero based) while the order is
// pending or confirmed, and recomputes the total.
func (o *Order) SetPharmacistPricing(
	actor kernel.Actor,
	index int,
	price decimal.Decimal,
	available, surBon bool,
	now time.Time,
) error {
	if err := o.ledgerWindow(LedgerSetPricing, actor, kernel.RolePharmacist, Pending, Confirmed); err != nil {
		return err
	}
	if err := o.requirePharmacy(ActionUnknown, actor); err != nil {
		return err
	}
	if err := o.ledger.SetPricing(index, price, available, surBon); err != nil {
		return err
	}
	o.total = o.ledger.ComputeTotal()
	o.updatedAt = now
	return nil
}

// AddPharmacistItem appends a priced medication found on the prescription, in the
// same window as pricing.
func (o *Order) AddPharmacistItem(
	actor kernel.Actor,
	name string,
	price decimal.Decimal,
	available, surBon bool,
	now time.Time,
) error {
	if err := o.ledgerWindow(LedgerAddPharmacistItem, actor, kernel.RolePharmacist, Pending, Confirmed); err != nil {
		return err
	}
	if err := o.requirePharmacy(ActionUnknown, actor); err != nil {
		return err
	}
	if err := o.ledger.AddPharmacistItem(name, price, available, surBon); err != nil {
		return err
	}
	o.total = o.ledger.ComputeTotal()
	o.updatedAt = now
	return nil
}

// ComputeTotal sums the available priced medications without changing the order.
func (o *Order) ComputeTotal() decimal.NullDecimal {
	return o.ledger.ComputeTotal()
}

func (o *Order) target(action Action, actor kernel.Actor) (Status, error) {
	if err := actor.Validate(); err != nil {
		return Unknown, err
	}
	to, ok := Target(o.status, action, actor.Role())
	if !ok {
		return Unknown, errs.NewInvalidTransitionError(o.status.String(), action.String(), actor.Role().String())
	}
	return to, nil
}

func (o *Order) move(action Action, actor kernel.Actor, to Status, courierID *kernel.UUID, eff *effects, now time.Time) Transition {
	from := o.status
	o.status = to
	o.updatedAt = now
	return Transition{
		OrderID:    o.id,
		Action:     action,
		Actor:      actor,
		From:       from,
		To:         to,
		CourierID:  courierID,
		Effects:    eff.build(),
		OccurredAt: now,
	}
}

func (o *Order) noop(action Action, actor kernel.Actor, now time.Time) Transition {
	return Transition{
		OrderID:    o.id,
		Action:     action,
		Actor:      actor,
		From:       o.status,
		To:         o.status,
		CourierID:  o.courierID,
		OccurredAt: now,
	}
}

func (o *Order) ledgerWindow(op LedgerOperation, actor kernel.Actor, role kernel.Role, window ...Status) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	for _, s := range window {
		if o.status == s && actor.Is(role) {
			return nil
		}
	}
	return errs.NewInvalidTransitionError(o.status.String(), op.String(), actor.Role().String())
}

func (o *Order) releaseCourier() *kernel.UUID {
	released := o.courierID
	o.courierID = nil
	o.assignedAt = nil
	return released
}

func (o *Order) isCourier(id kernel.UUID) bool {
	return o.courierID != nil && o.courierID.IsEqual(id)
}

func (o *Order) isGraceElapsed(now time.Time, policy Policy) bool {
	if o.courierConfirmedAt == nil {
		return false
	}
	return !now.Before(o.courierConfirmedAt.Add(policy.WithDefaults().DisputeGrace))
}

func (o *Order) requirePatient(action Action, actor kernel.Actor) error {
	if actor.ID().IsEqual(o.patientID) {
		return nil
	}
	return o.notParticipant(action, actor, ErrNotOrderPatient)
}

// requirePharmacy lets admins through; pharmacists must belong to the order's pharmacy.
func (o *Order) requirePharmacy(action Action, actor kernel.Actor) error {
	if actor.Is(kernel.RoleAdmin) || actor.ID().IsEqual(o.pharmacyID) {
		return nil
	}
	return o.notParticipant(action, actor, ErrNotOrderPharmacy)
}

func (o *Order) requireCourier(action Action, actor kernel.Actor) error {
	if o.isCourier(actor.ID()) {
		return nil
	}
	return o.notParticipant(action, actor, ErrNotOrderCourier)
}

func (o *Order) notParticipant(action Action, actor kernel.Actor, cause error) error {
	name := action.String()
	if action == ActionUnknown {
		name = "edit ledger"
	}
	return errs.NewInvalidTransitionErrorWithCause(o.status.String(), name, actor.Role().String(), cause)
}

func setUUID(dst *kernel.UUID, id kernel.UUID, name string) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	*dst = id
	return nil
}

func (o *Order) setPrescription(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("prescriptionId", err)
	}
	o.prescriptionID = id
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setCoordinates(c *kernel.Coordinates) error {
	if c == nil {
		return nil
	}
	if err := c.Validate(); err != nil {
		return err
	}
	o.coordinates = c
	return nil
}

func (o *Order) setMedications(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("medications")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("medications[%d]", i), err)
		}
		if item.Source() != SourcePatient {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("medications[%d]", i), errors.New("submitted medications must come from the patient"))
		}
	}
	ledger, err := NewLedger(items...)
	if err != nil {
		return err
	}
	o.ledger = ledger
	return nil
}
