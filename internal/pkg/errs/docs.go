// Package errs provides the error taxonomy shared by the pharmacy order core.
//
// Value errors describe bad input and all match ErrValidation:
//   - ValueIsRequiredError: a mandatory value is missing (empty medication name)
//   - ValueIsInvalidError: a value violates a rule (negative price)
//   - ValueIsOutOfRangeError: a value is outside of its bounds (line item index)
//
// Workflow errors describe a request that cannot be applied to the current state:
//   - ObjectNotFoundError: unknown order, courier or notification
//   - InvalidTransitionError: the actor cannot perform the action from the current status
//   - StaleStateError: the stored state changed since it was read
//   - CourierUnavailableError: the courier already holds an active order
//
// Each type has a sentinel (ErrValueIsRequired, ErrStaleState, ...), constructors with
// and without a cause, and an Unwrap method returning the sentinel and the cause so
// errors.Is matches both through wrapping and errors.Join.
//
// None of these errors are retried inside the core. ObjectNotFoundError and
// StaleStateError are the ones callers are expected to retry after re-reading.
package errs
