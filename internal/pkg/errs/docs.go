// Package errs provides standardized error types for the roadside dispatch
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping used throughout the codebase.
//
// Each error type follows the same shape:
//   - a sentinel error variable (e.g. ErrObjectNotFound) for errors.Is checks
//   - a struct carrying the error details
//   - constructors with and without an underlying cause
//   - Error() for formatting and Unwrap() for classification
//
// Storage adapters translate driver-level "not found" conditions into
// ObjectNotFoundError so application code can branch on ErrObjectNotFound
// without knowing which store produced the miss. Domain constructors use the
// ValueIs* family to report validation failures.
package errs
