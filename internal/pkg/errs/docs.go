// Package errs provides standardized error types for the fulfillment core.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value is outside of its allowed range
//   - ObjectNotFoundError: For when an object cannot be found
//   - StaleStateError: For a state change attempted from the wrong prior state
//   - PersistenceError: For ledger store failures
//   - ExternalRailError: For payment rail failures
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Contention outcomes (a lost claim, a used promo code) are not modelled here;
// they are sentinels of the domain packages that produce them.
package errs
