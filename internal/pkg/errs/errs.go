package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error in this package unwraps to exactly one of them
// and to its cause, if any, so callers can classify failures with errors.Is and still
// match the domain reason behind them.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsOutOfRange  = errors.New("value is out of range")
	ErrValueIsRequired    = errors.New("value is required")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrStaleState         = errors.New("stale state")
	ErrCourierUnavailable = errors.New("courier unavailable")

	// ErrValidation is matched by ValueIsRequiredError, ValueIsInvalidError and
	// ValueIsOutOfRangeError. It is the category callers surface to the actor as-is.
	ErrValidation = errors.New("validation failed")
)

// ObjectNotFoundError is returned when an aggregate cannot be loaded by its identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError for the given parameter and identifier.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError carrying the underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() []error {
	return withCause(ErrObjectNotFound, e.Cause)
}

// ValueIsInvalidError is returned when a value is present but violates a business rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError for the named parameter.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError with the reason attached.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() []error {
	return withCause(ErrValueIsInvalid, e.Cause)
}

func (e *ValueIsInvalidError) Is(target error) bool {
	return target == ErrValidation
}

// ValueIsOutOfRangeError is returned when a value falls outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
	}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError with the reason attached.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
		Cause:     cause,
	}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitizeValue(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() []error {
	return withCause(ErrValueIsOutOfRange, e.Cause)
}

func (e *ValueIsOutOfRangeError) Is(target error) bool {
	return target == ErrValidation
}

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError for the named parameter.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError with the reason attached.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() []error {
	return withCause(ErrValueIsRequired, e.Cause)
}

func (e *ValueIsRequiredError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidTransitionError is returned when an actor requests a status change that the
// order lifecycle does not allow from the current status.
type InvalidTransitionError struct {
	From   string
	Action string
	Actor  string
	Cause  error
}

// NewInvalidTransitionError creates an InvalidTransitionError.
func NewInvalidTransitionError(from, action, actor string) *InvalidTransitionError {
	return &InvalidTransitionError{
		From:   from,
		Action: action,
		Actor:  actor,
	}
}

// NewInvalidTransitionErrorWithCause creates an InvalidTransitionError with the reason attached.
func NewInvalidTransitionErrorWithCause(from, action, actor string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{
		From:   from,
		Action: action,
		Actor:  actor,
		Cause:  cause,
	}
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s cannot %s from %s", ErrInvalidTransition, e.Actor, e.Action, e.From)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() []error {
	return withCause(ErrInvalidTransition, e.Cause)
}

// StaleStateError is returned when the stored state no longer matches the state a
// transition was computed against.
type StaleStateError struct {
	ParamName string
	ID        any
	Expected  string
}

// NewStaleStateError creates a StaleStateError.
func NewStaleStateError(paramName string, id any, expected string) *StaleStateError {
	return &StaleStateError{
		ParamName: paramName,
		ID:        id,
		Expected:  expected,
	}
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("%s: %s %s is no longer %s", ErrStaleState, e.ParamName, sanitize(e.ID), e.Expected)
}

func (e *StaleStateError) Unwrap() error {
	return ErrStaleState
}

// CourierUnavailableError is returned when a courier already holds an active order.
type CourierUnavailableError struct {
	CourierID any
	Cause     error
}

// NewCourierUnavailableError creates a CourierUnavailableError.
func NewCourierUnavailableError(courierID any) *CourierUnavailableError {
	return &CourierUnavailableError{CourierID: courierID}
}

// NewCourierUnavailableErrorWithCause creates a CourierUnavailableError with the reason attached.
func NewCourierUnavailableErrorWithCause(courierID any, cause error) *CourierUnavailableError {
	return &CourierUnavailableError{
		CourierID: courierID,
		Cause:     cause,
	}
}

func (e *CourierUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrCourierUnavailable, sanitize(e.CourierID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrCourierUnavailable, sanitize(e.CourierID))
}

func (e *CourierUnavailableError) Unwrap() []error {
	return withCause(ErrCourierUnavailable, e.Cause)
}

func withCause(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// sanitize renders identifiers on a single line so they are safe to log.
func sanitize(v any) string {
	return lineBreaks.Replace(fmt.Sprintf("%s", v))
}

func sanitizeValue(v any) string {
	return lineBreaks.Replace(fmt.Sprintf("%v", v))
}
