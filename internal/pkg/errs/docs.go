// Package errs provides standardized error types for the dispatch engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package defines one error family per failure class in the engine:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: missing order/courier/escrow
//   - ForbiddenError: actor not authorized for the requested transition
//   - StateConflictError: illegal transition, including losing a race against a
//     concurrent actor or the release scheduler
//   - ExternalServiceError: payment/geocoding/notification collaborator unavailable
//   - UnrecoverableError: invariant violated, operation aborted with no partial writes
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrStateConflict)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Handlers and adapters classify failures with errors.Is against the sentinels;
// they never string-match messages.
package errs
