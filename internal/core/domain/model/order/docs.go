// Package order implements the Order aggregate: the lifecycle state machine of a
// pharmacy order and its medication ledger.
//
// The package includes:
//   - Status: the single definition of order states and of the lifecycle graph
//   - Action and the transition table: which role may move an order from which status
//   - Order: the aggregate root, returning a Transition with declarative effects for
//     every accepted action
//   - Ledger and LineItem: patient requests, pharmacist pricing and the total
//   - Policy: offer timeout and dispute grace window
//
// Key business rules:
//   - Illegal transitions fail with errs.InvalidTransitionError and change nothing
//   - Patients may cancel only pending or confirmed orders
//   - A pending order can be confirmed only once at least one medication is priced
//   - The total is the sum of available priced medications; "never priced" is an
//     invalid decimal.NullDecimal, distinct from a zero total
//   - A repeated arrival signal is a no-op
//
// Order methods are pure over their inputs: time is passed in and courier records are
// handled by the domain services.
package order
