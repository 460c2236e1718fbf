package services

import (
	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"
)

// TransitionValidator accepts or rejects status changes against the fixed rule tables.
//
// Two scopes exist:
//   - request scope (ValidateVehicle, ValidateDriver, ValidateTrip, Validate):
//     what a caller may ask for directly
//   - system scope (ValidateDriverSystem, ValidateTripSystem): the request
//     table plus the edges trip operations need to occupy and release a driver
//     and to roll a dispatch back
//
// Business rules:
//   - an unknown current status is always rejected
//   - a status never transitions to itself
//   - terminal statuses have no outgoing edges
//
// Every rejection is an *errs.InvalidTransitionError.
//
// Example:
//
//	v := services.NewTransitionValidator()
//	if err := v.ValidateVehicle(vehicle.Retired, vehicle.Available); err != nil {
//	    // errors.Is(err, errs.ErrInvalidTransition) == true
//	}
type TransitionValidator struct{}

// NewTransitionValidator creates a TransitionValidator.
func NewTransitionValidator() TransitionValidator {
	return TransitionValidator{}
}

// Validate checks a transition given in wire form, as stored in history records
// and received over HTTP. Unparseable statuses are rejected as invalid transitions.
func (v TransitionValidator) Validate(entityType kernel.EntityType, from, to string) error {
	switch entityType {
	case kernel.EntityTypeVehicle:
		cur, errFrom := vehicle.ParseStatus(from)
		next, errTo := vehicle.ParseStatus(to)
		if errFrom != nil || errTo != nil {
			return errs.NewInvalidTransitionError(entityType.String(), from, to)
		}
		return v.ValidateVehicle(cur, next)
	case kernel.EntityTypeDriver:
		cur, errFrom := driver.ParseStatus(from)
		next, errTo := driver.ParseStatus(to)
		if errFrom != nil || errTo != nil {
			return errs.NewInvalidTransitionError(entityType.String(), from, to)
		}
		return v.ValidateDriver(cur, next)
	case kernel.EntityTypeTrip:
		cur, errFrom := trip.ParseStatus(from)
		next, errTo := trip.ParseStatus(to)
		if errFrom != nil || errTo != nil {
			return errs.NewInvalidTransitionError(entityType.String(), from, to)
		}
		return v.ValidateTrip(cur, next)
	default:
		return entityType.Validate()
	}
}

// ValidateVehicle checks a requested vehicle transition.
func (v TransitionValidator) ValidateVehicle(from, to vehicle.Status) error {
	if !isAllowed(vehicleTransitions, from, to) {
		return errs.NewInvalidTransitionError(kernel.EntityTypeVehicle.String(), from.String(), to.String())
	}
	return nil
}

// ValidateDriver checks a requested driver transition. OnTrip is never reachable here.
func (v TransitionValidator) ValidateDriver(from, to driver.Status) error {
	if !isAllowed(driverTransitions, from, to) {
		return errs.NewInvalidTransitionError(kernel.EntityTypeDriver.String(), from.String(), to.String())
	}
	return nil
}

// ValidateDriverSystem also allows OnDuty <-> OnTrip.
func (v TransitionValidator) ValidateDriverSystem(from, to driver.Status) error {
	if isAllowed(driverTransitions, from, to) || isAllowed(driverSystemTransitions, from, to) {
		return nil
	}
	return errs.NewInvalidTransitionError(kernel.EntityTypeDriver.String(), from.String(), to.String())
}

// ValidateTrip checks a requested trip transition.
func (v TransitionValidator) ValidateTrip(from, to trip.Status) error {
	if !isAllowed(tripTransitions, from, to) {
		return errs.NewInvalidTransitionError(kernel.EntityTypeTrip.String(), from.String(), to.String())
	}
	return nil
}

// ValidateTripSystem also allows Dispatched -> Draft, used to undo a dispatch.
func (v TransitionValidator) ValidateTripSystem(from, to trip.Status) error {
	if isAllowed(tripTransitions, from, to) || isAllowed(tripSystemTransitions, from, to) {
		return nil
	}
	return errs.NewInvalidTransitionError(kernel.EntityTypeTrip.String(), from.String(), to.String())
}
