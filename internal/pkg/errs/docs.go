// Package errs provides the error types shared by the fleet status engine.
//
// Two families live here:
//   - value errors (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError)
//     and ObjectNotFoundError, raised by constructors, commands and repositories;
//   - status errors (InvalidTransitionError, CargoViolationError, LicenseExpiredError,
//     NotAvailableError, ActiveTripsError, PartialFailureError, SagaAbortedError),
//     raised by the transition validator and the compound trip operations.
//
// Every type has a sentinel (ErrObjectNotFound, ErrInvalidTransition, ...) reachable
// through errors.Is, so callers classify failures without type assertions.
// PartialFailureError and SagaAbortedError also unwrap to their cause.
package errs
