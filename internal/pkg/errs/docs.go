// Package errs provides the error types shared by the lot tracking service.
//
// The package covers the failure taxonomy of the engine:
//   - ValueIsRequiredError: a missing lot number, order id, actor or reason
//   - ValueIsInvalidError / ValueIsOutOfRangeError: values that break a domain rule
//   - ObjectNotFoundError: a unit, order or counter that does not exist
//   - ConflictError: a duplicate write, e.g. a lot number allocation collision
//   - PersistenceError: a failed store read or write
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() so callers can classify with errors.Is
//
// None of these errors is fatal to the process. Operations log them and report
// them to the initiating operator, who retries manually.
package errs
