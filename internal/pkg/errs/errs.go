package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for each failure class. Callers classify errors with
// errors.Is against these values.
var (
	ErrValueIsRequired   = errors.New("value is required")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrObjectNotFound    = errors.New("object not found")
	ErrForbidden         = errors.New("forbidden")
	ErrStateConflict     = errors.New("state conflict")
	ErrExternalService   = errors.New("external service failure")
	ErrUnrecoverable     = errors.New("unrecoverable invariant violation")
)

// sanitize removes line breaks from values interpolated into error messages
// so a single error always renders as a single log line.
func sanitize(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", " ")
}

// ValueIsRequiredError indicates a required value was not provided.
type ValueIsRequiredError struct {
	ParamName string
}

// NewValueIsRequiredError creates an error for a missing required value.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func (e *ValueIsRequiredError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, sanitize(e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates a provided value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates an error for an invalid value.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates an error for an invalid value with
// the underlying cause preserved for unwrapping.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, sanitize(e.ParamName), sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, sanitize(e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates a numeric value was outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
}

// NewValueIsOutOfRangeError creates an error for a value outside [min, max].
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s is %v, min value is %v, max value is %v",
		ErrValueIsOutOfRange, sanitize(e.ParamName), e.Value, e.Min, e.Max)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError indicates a requested entity does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an error for a missing entity.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an error for a missing entity with
// the underlying cause preserved for unwrapping.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %v (cause: %s)",
			ErrObjectNotFound, sanitize(e.ParamName), e.ID, sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s %v", ErrObjectNotFound, sanitize(e.ParamName), e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ForbiddenError indicates the acting party is not authorized to perform the
// requested operation on the target entity. Authorization failures surface
// immediately and are never retried.
type ForbiddenError struct {
	ActorID   string
	Operation string
}

// NewForbiddenError creates an error for an unauthorized operation.
func NewForbiddenError(actorID, operation string) *ForbiddenError {
	return &ForbiddenError{ActorID: actorID, Operation: operation}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: actor %s may not %s", ErrForbidden, sanitize(e.ActorID), sanitize(e.Operation))
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// StateConflictError indicates an illegal state transition. This includes both
// transitions outside the allowed lifecycle graph and lost races against a
// concurrent actor or the release scheduler ("already resolved",
// "no longer available"). A lost race is an expected outcome, not a bug.
type StateConflictError struct {
	Entity string
	Detail string
}

// NewStateConflictError creates an error for an illegal or lost transition.
func NewStateConflictError(entity, detail string) *StateConflictError {
	return &StateConflictError{Entity: entity, Detail: detail}
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrStateConflict, sanitize(e.Entity), sanitize(e.Detail))
}

func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

// ExternalServiceError indicates a collaborator (payment processor, geocoder,
// notification transport) failed or was unreachable.
type ExternalServiceError struct {
	Service string
	Cause   error
}

// NewExternalServiceError creates an error for a failed collaborator call.
func NewExternalServiceError(service string, cause error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Cause: cause}
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrExternalService, sanitize(e.Service), sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrExternalService, sanitize(e.Service))
}

func (e *ExternalServiceError) Unwrap() error {
	return ErrExternalService
}

// UnrecoverableError indicates a broken invariant. The triggering operation is
// aborted with no partial writes.
type UnrecoverableError struct {
	Detail string
	Cause  error
}

// NewUnrecoverableError creates an error for a violated invariant.
func NewUnrecoverableError(detail string, cause error) *UnrecoverableError {
	return &UnrecoverableError{Detail: detail, Cause: cause}
}

func (e *UnrecoverableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrUnrecoverable, sanitize(e.Detail), sanitize(e.Cause.Error()))
	}
	return fmt.Sprintf("%s: %s", ErrUnrecoverable, sanitize(e.Detail))
}

func (e *UnrecoverableError) Unwrap() error {
	return ErrUnrecoverable
}
