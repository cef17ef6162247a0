package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewPatientItem or NewPharmacistItem")

// Source tells who added a line item to the ledger.
type Source int

const (
	SourceUnknown Source = iota
	SourcePatient
	SourcePharmacist
)

func (s Source) String() string {
	switch s {
	case SourcePatient:
		return "patient"
	case SourcePharmacist:
		return "pharmacist"
	case SourceUnknown:
	}
	return "unknown"
}

// ParseSource is the inverse of Source.String.
func ParseSource(s string) (Source, error) {
	switch s {
	case "patient":
		return SourcePatient, nil
	case "pharmacist":
		return SourcePharmacist, nil
	}
	return SourceUnknown, errs.NewValueIsInvalidErrorWithCause("source", fmt.Errorf("%q is not a valid source", s))
}

// LineItem is one medication of an order. Patient items start unpriced; a
// pharmacist pricing pass sets the price and the availability.
type LineItem struct {
	name      string
	surBon    bool
	price     decimal.NullDecimal
	available bool
	source    Source
	guard     guard.ConstructorGuard
}

// NewPatientItem creates an unpriced item requested by the patient.
//
// Parameters:
//   - name: medication name, must not be blank
//   - surBon: whether the medication is on the prescription voucher
func NewPatientItem(name string, surBon bool) (LineItem, error) {
	item := LineItem{
		surBon:    surBon,
		available: true,
		source:    SourcePatient,
		guard:     guard.NewConstructorGuard(),
	}
	if err := item.setName(name); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// NewPharmacistItem creates an item discovered by the pharmacist, priced at creation.
func NewPharmacistItem(name string, price decimal.Decimal, available, surBon bool) (LineItem, error) {
	item := LineItem{
		surBon:    surBon,
		available: available,
		source:    SourcePharmacist,
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(item.setName(name), item.setPrice(price)); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// RestoreLineItem rebuilds a stored item. A price with Valid=false means never priced.
func RestoreLineItem(name string, surBon bool, price decimal.NullDecimal, available bool, source Source) (LineItem, error) {
	item := LineItem{
		surBon:    surBon,
		available: available,
		source:    source,
		guard:     guard.NewConstructorGuard(),
	}
	var priceErr error
	if price.Valid {
		priceErr = item.setPrice(price.Decimal)
	}
	if err := errors.Join(item.setName(name), priceErr); err != nil {
		return LineItem{}, err
	}
	if source != SourcePatient && source != SourcePharmacist {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("source", fmt.Errorf("%d is not a valid source", source))
	}
	return item, nil
}

func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

func (i LineItem) Name() string {
	return i.name
}

func (i LineItem) SurBon() bool {
	return i.surBon
}

// Price is invalid until the item has been priced.
func (i LineItem) Price() decimal.NullDecimal {
	return i.price
}

func (i LineItem) Available() bool {
	return i.available
}

func (i LineItem) Source() Source {
	return i.source
}

// IsPriced reports whether a pharmacist has set a price on the item.
func (i LineItem) IsPriced() bool {
	return i.price.Valid
}

// contribution is the amount the item adds to the total.
func (i LineItem) contribution() decimal.Decimal {
	if !i.available || !i.price.Valid {
		return decimal.Zero
	}
	return i.price.Decimal
}

func (i *LineItem) setName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = trimmed
	return nil
}

func (i *LineItem) setPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	i.price = decimal.NewNullDecimal(price)
	return nil
}

// Ledger is the ordered list of medications of an order.
//
// The ledger itself does not know the order status; the Order checks the editing
// window before delegating to it.
type Ledger struct {
	items []LineItem
}

// NewLedger builds a ledger from already validated items.
func NewLedger(items ...LineItem) (Ledger, error) {
	var errList []error
	for _, item := range items {
		errList = append(errList, item.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return Ledger{}, err
	}
	return Ledger{items: slices.Clone(items)}, nil
}

// Items returns a copy of the line items in insertion order.
func (l Ledger) Items() []LineItem {
	return slices.Clone(l.items)
}

func (l Ledger) Len() int {
	return len(l.items)
}

// AddPatientItem appends an unpriced item.
func (l *Ledger) AddPatientItem(name string, surBon bool) error {
	item, err := NewPatientItem(name, surBon)
	if err != nil {
		return err
	}
	l.items = append(l.items, item)
	return nil
}

// AddPharmacistItem appends a priced item.
func (l *Ledger) AddPharmacistItem(name string, price decimal.Decimal, available, surBon bool) error {
	item, err := NewPharmacistItem(name, price, available, surBon)
	if err != nil {
		return err
	}
	l.items = append(l.items, item)
	return nil
}

// SetPricing prices the item at index (zero based). An unavailable item keeps its
// price but contributes nothing to the total.
func (l *Ledger) SetPricing(index int, price decimal.Decimal, available, surBon bool) error {
	if index < 0 || index >= len(l.items) {
		return errs.NewValueIsOutOfRangeError("index", index, 0, len(l.items)-1)
	}
	item := l.items[index]
	if err := item.setPrice(price); err != nil {
		return err
	}
	item.available = available
	item.surBon = surBon
	l.items[index] = item
	return nil
}

// IsPriced reports whether at least one item has been priced.
func (l Ledger) IsPriced() bool {
	for _, item := range l.items {
		if item.IsPriced() {
			return true
		}
	}
	return false
}

// ComputeTotal sums the price of available items. The result is invalid when no
// item has been priced yet, and zero when priced items are all unavailable.
func (l Ledger) ComputeTotal() decimal.NullDecimal {
	if !l.IsPriced() {
		return decimal.NullDecimal{}
	}
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.contribution())
	}
	return decimal.NewNullDecimal(total)
}
