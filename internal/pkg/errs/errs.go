package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrObjectExists      = errors.New("object already exists")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrStaleState        = errors.New("state is stale")
	ErrPersistence       = errors.New("persistence failure")
	ErrExternalRail      = errors.New("external rail failure")
)

// sanitize renders a value for an error message on a single line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// ObjectNotFoundError reports a lookup by identifier that matched nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return withCause(
			fmt.Sprintf("%s: param is: %s, ID is: %s", ErrObjectNotFound, e.ParamName, e.ID),
			e.Cause,
		)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ObjectExistsError reports an insert that collided with an existing identity.
type ObjectExistsError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectExistsError(paramName string, id any) *ObjectExistsError {
	return &ObjectExistsError{ParamName: paramName, ID: id}
}

func NewObjectExistsErrorWithCause(paramName string, id any, cause error) *ObjectExistsError {
	return &ObjectExistsError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectExistsError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrObjectExists, e.ParamName, sanitize(e.ID)), e.Cause)
}

func (e *ObjectExistsError) Unwrap() error {
	return ErrObjectExists
}

// ValueIsInvalidError reports a malformed or disallowed input value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(
		fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
			ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max)),
		e.Cause,
	)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// StaleStateError reports a state change attempted against a record whose
// persisted state no longer matches the expected prior state. The caller
// must re-fetch and decide; it is never retried automatically.
type StaleStateError struct {
	ParamName string
	ID        any
	Expected  string
	Cause     error
}

func NewStaleStateError(paramName string, id any, expected string) *StaleStateError {
	return &StaleStateError{ParamName: paramName, ID: id, Expected: expected}
}

func NewStaleStateErrorWithCause(paramName string, id any, expected string, cause error) *StaleStateError {
	return &StaleStateError{ParamName: paramName, ID: id, Expected: expected, Cause: cause}
}

func (e *StaleStateError) Error() string {
	return withCause(
		fmt.Sprintf("%s: %s %s is not in expected state %s", ErrStaleState, e.ParamName, sanitize(e.ID), e.Expected),
		e.Cause,
	)
}

func (e *StaleStateError) Unwrap() error {
	return ErrStaleState
}

// PersistenceError wraps a failure of the ledger store. Operations that
// return it are safe to retry with the same identifiers.
type PersistenceError struct {
	Operation string
	Cause     error
}

func NewPersistenceError(operation string, cause error) *PersistenceError {
	return &PersistenceError{Operation: operation, Cause: cause}
}

func (e *PersistenceError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrPersistence, e.Operation), e.Cause)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Cause}
}

// ExternalRailError wraps a failed call to the external payment rail.
type ExternalRailError struct {
	Rail  string
	Cause error
}

func NewExternalRailError(rail string, cause error) *ExternalRailError {
	return &ExternalRailError{Rail: rail, Cause: cause}
}

func (e *ExternalRailError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrExternalRail, e.Rail), e.Cause)
}

func (e *ExternalRailError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExternalRail}
	}
	return []error{ErrExternalRail, e.Cause}
}
