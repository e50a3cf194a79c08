// Package errs provides standardized error types for the food-delivery
// coordinator. It implements a consistent pattern for error creation,
// formatting, and unwrapping used throughout the application.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g. ErrValueIsRequired)
//   - A struct type carrying the error details
//   - Constructor functions with and without a cause
//   - Error() for formatting and Unwrap() for errors.Is classification
//
// The sentinels map onto the coordinator's error taxonomy: ValueIsRequired
// and ValueIsInvalid for rejected input, ObjectNotFound for missing
// entities, and VersionIsInvalid for lost optimistic-concurrency races that
// the caller should retry.
package errs
