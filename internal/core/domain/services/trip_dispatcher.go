package services

import (
	"errors"
	"fmt"
	"time"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"
)

// ErrTripReferenceMismatch is returned when the vehicle or driver handed to the
// dispatcher is not the one the trip references.
var ErrTripReferenceMismatch = errors.New("vehicle or driver does not belong to trip")

// TripDispatcher is a domain service that decides whether a trip may be
// dispatched, completed or cancelled given the vehicle and driver it references.
//
// It only checks preconditions and never mutates the aggregates; applying the
// resulting status changes is the job of the application layer, which has to
// record and possibly compensate each of them.
//
// Dispatch preconditions, checked in this order:
//   - the trip is Draft
//   - the vehicle is Available (else NotAvailable)
//   - cargo weight does not exceed vehicle capacity (else CargoViolation)
//   - the driver is OnDuty (else NotAvailable)
//   - the driver's license has not expired (else LicenseExpired)
//
// Example usage:
//
//	dispatcher := services.NewTripDispatcher(services.NewTransitionValidator())
//	if err := dispatcher.CheckDispatch(t, v, d, time.Now()); err != nil {
//	    return err
//	}
type TripDispatcher struct {
	validator TransitionValidator
}

// NewTripDispatcher creates a TripDispatcher.
func NewTripDispatcher(validator TransitionValidator) TripDispatcher {
	return TripDispatcher{validator: validator}
}

// CheckDispatch verifies every dispatch precondition.
//
// Parameters:
//   - t: the trip to dispatch
//   - v: the vehicle the trip references
//   - d: the driver the trip references
//   - now: the instant license expiry is compared against
//
// Returns:
//   - nil when the trip can be dispatched
//   - the first failing precondition otherwise
func (s TripDispatcher) CheckDispatch(t *trip.Trip, v *vehicle.Vehicle, d *driver.Driver, now time.Time) error {
	if err := errors.Join(t.Validate(), v.Validate(), d.Validate()); err != nil {
		return err
	}
	if err := s.checkReferences(t, v, d); err != nil {
		return err
	}

	if err := s.validator.ValidateTrip(t.Status(), trip.Dispatched); err != nil {
		return err
	}

	if !v.IsAvailable() {
		return errs.NewNotAvailableError(kernel.EntityTypeVehicle.String(), v.ID().String(), v.Status().String())
	}
	if !v.CanCarry(t.CargoWeight()) {
		return errs.NewCargoViolationError(v.ID().String(), t.CargoWeight(), v.MaxCapacity())
	}

	if !d.IsOnDuty() {
		return errs.NewNotAvailableError(kernel.EntityTypeDriver.String(), d.ID().String(), d.Status().String())
	}
	if d.IsLicenseExpired(now) {
		return errs.NewLicenseExpiredError(d.ID().String(), d.LicenseExpiry())
	}

	return nil
}

// CheckCompletion verifies that a trip can be completed at endOdometer.
//
// Business rules:
//   - the trip is Dispatched
//   - endOdometer is not lower than the trip's start reading
//   - endOdometer is not lower than the vehicle's current reading
func (s TripDispatcher) CheckCompletion(t *trip.Trip, v *vehicle.Vehicle, endOdometer float64) error {
	if err := errors.Join(t.Validate(), v.Validate()); err != nil {
		return err
	}
	if !t.VehicleID().IsEqual(v.ID()) {
		return ErrTripReferenceMismatch
	}

	if err := s.validator.ValidateTrip(t.Status(), trip.Completed); err != nil {
		return err
	}
	if err := t.ValidateFinish(endOdometer); err != nil {
		return err
	}
	if endOdometer < v.Odometer() {
		return errs.NewValueIsInvalidErrorWithCause(
			"endOdometer is invalid",
			fmt.Errorf("%g is lower than vehicle odometer %g", endOdometer, v.Odometer()),
		)
	}

	return nil
}

// CheckCancellation verifies that the trip may still be cancelled.
func (s TripDispatcher) CheckCancellation(t *trip.Trip) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return s.validator.ValidateTrip(t.Status(), trip.Cancelled)
}

func (s TripDispatcher) checkReferences(t *trip.Trip, v *vehicle.Vehicle, d *driver.Driver) error {
	if !t.VehicleID().IsEqual(v.ID()) || !t.DriverID().IsEqual(d.ID()) {
		return ErrTripReferenceMismatch
	}
	return nil
}
