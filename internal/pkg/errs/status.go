package errs

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTransition is the sentinel for InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrCargoViolation is the sentinel for CargoViolationError.
	ErrCargoViolation = errors.New("cargo weight violation")
	// ErrLicenseExpired is the sentinel for LicenseExpiredError.
	ErrLicenseExpired = errors.New("driver license expired")
	// ErrNotAvailable is the sentinel for NotAvailableError.
	ErrNotAvailable = errors.New("not available")
	// ErrActiveTrips is the sentinel for ActiveTripsError.
	ErrActiveTrips = errors.New("active trips exist")
	// ErrPartialFailure is the sentinel for PartialFailureError.
	ErrPartialFailure = errors.New("partial failure")
	// ErrSagaAborted is the sentinel for SagaAbortedError.
	ErrSagaAborted = errors.New("operation aborted")
)

// InvalidTransitionError reports a status change that the entity's rule table does not allow.
type InvalidTransitionError struct {
	EntityType string
	From       string
	To         string
}

// NewInvalidTransitionError creates an InvalidTransitionError.
func NewInvalidTransitionError(entityType, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{
		EntityType: entityType,
		From:       from,
		To:         to,
	}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot transition %s from %s to %s",
		ErrInvalidTransition, e.EntityType, sanitize(e.From), sanitize(e.To))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// CargoViolationError reports cargo heavier than the vehicle can carry.
type CargoViolationError struct {
	VehicleID   string
	CargoWeight float64
	MaxCapacity float64
}

// NewCargoViolationError creates a CargoViolationError.
func NewCargoViolationError(vehicleID string, cargoWeight, maxCapacity float64) *CargoViolationError {
	return &CargoViolationError{
		VehicleID:   vehicleID,
		CargoWeight: cargoWeight,
		MaxCapacity: maxCapacity,
	}
}

func (e *CargoViolationError) Error() string {
	return fmt.Sprintf("%s: cargo weight %gkg exceeds capacity %gkg of vehicle %s",
		ErrCargoViolation, e.CargoWeight, e.MaxCapacity, e.VehicleID)
}

func (e *CargoViolationError) Unwrap() error {
	return ErrCargoViolation
}

// LicenseExpiredError reports a driver whose license is no longer valid.
type LicenseExpiredError struct {
	DriverID      string
	LicenseExpiry time.Time
}

// NewLicenseExpiredError creates a LicenseExpiredError.
func NewLicenseExpiredError(driverID string, licenseExpiry time.Time) *LicenseExpiredError {
	return &LicenseExpiredError{
		DriverID:      driverID,
		LicenseExpiry: licenseExpiry,
	}
}

func (e *LicenseExpiredError) Error() string {
	return fmt.Sprintf("%s: license of driver %s expired on %s",
		ErrLicenseExpired, e.DriverID, e.LicenseExpiry.Format(time.DateOnly))
}

func (e *LicenseExpiredError) Unwrap() error {
	return ErrLicenseExpired
}

// NotAvailableError reports a vehicle or driver that is not idle.
type NotAvailableError struct {
	EntityType string
	ID         string
	Status     string
}

// NewNotAvailableError creates a NotAvailableError.
func NewNotAvailableError(entityType, id, status string) *NotAvailableError {
	return &NotAvailableError{
		EntityType: entityType,
		ID:         id,
		Status:     status,
	}
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("%s: %s %s is %s", ErrNotAvailable, e.EntityType, e.ID, sanitize(e.Status))
}

func (e *NotAvailableError) Unwrap() error {
	return ErrNotAvailable
}

// ActiveTripsError reports an entity that still has dispatched trips referencing it.
type ActiveTripsError struct {
	EntityType string
	ID         string
	Count      int64
}

// NewActiveTripsError creates an ActiveTripsError.
func NewActiveTripsError(entityType, id string, count int64) *ActiveTripsError {
	return &ActiveTripsError{
		EntityType: entityType,
		ID:         id,
		Count:      count,
	}
}

func (e *ActiveTripsError) Error() string {
	return fmt.Sprintf("%s: %s %s has %d dispatched trip(s)", ErrActiveTrips, e.EntityType, e.ID, e.Count)
}

func (e *ActiveTripsError) Unwrap() error {
	return ErrActiveTrips
}

// PartialFailureError reports an operation that mutated an entity but could not finish
// recording it. The entity may disagree with its history until it is corrected.
type PartialFailureError struct {
	EntityType string
	EntityID   string
	Step       string
	Cause      error
}

// NewPartialFailureError creates a PartialFailureError.
func NewPartialFailureError(entityType, entityID, step string, cause error) *PartialFailureError {
	return &PartialFailureError{
		EntityType: entityType,
		EntityID:   entityID,
		Step:       step,
		Cause:      cause,
	}
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: %s %s was mutated but the %s step failed (cause: %v)",
		ErrPartialFailure, e.EntityType, e.EntityID, e.Step, e.Cause)
}

// Unwrap exposes both the sentinel and the cause.
func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Cause}
}

// SagaAbortedError reports a compound operation that failed part way and was rolled back.
type SagaAbortedError struct {
	Operation  string
	FailedStep string
	Cause      error
}

// NewSagaAbortedError creates a SagaAbortedError.
func NewSagaAbortedError(operation, failedStep string, cause error) *SagaAbortedError {
	return &SagaAbortedError{
		Operation:  operation,
		FailedStep: failedStep,
		Cause:      cause,
	}
}

func (e *SagaAbortedError) Error() string {
	return fmt.Sprintf("%s: %s failed at %s step and was compensated (cause: %v)",
		ErrSagaAborted, e.Operation, e.FailedStep, e.Cause)
}

// Unwrap exposes both the sentinel and the cause.
func (e *SagaAbortedError) Unwrap() []error {
	return []error{ErrSagaAborted, e.Cause}
}
