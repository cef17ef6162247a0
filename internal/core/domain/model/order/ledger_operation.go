package order

import (
	"fmt"

	"pharmacy/internal/pkg/errs"
)

// LedgerOperation names an edit of the medication ledger.
type LedgerOperation string

const (
	LedgerAddPatientItem    LedgerOperation = "add_patient_item"
	LedgerSetPricing        LedgerOperation = "set_pharmacist_pricing"
	LedgerAddPharmacistItem LedgerOperation = "add_pharmacist_item"
)

func ParseLedgerOperation(s string) (LedgerOperation, error) {
	switch op := LedgerOperation(s); op {
	case LedgerAddPatientItem, LedgerSetPricing, LedgerAddPharmacistItem:
		return op, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("operation", fmt.Errorf("%q is not a valid ledger operation", s))
}

func (op LedgerOperation) String() string {
	return string(op)
}
