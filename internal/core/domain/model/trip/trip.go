package trip

import (
	"errors"
	"fmt"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var (
	// ErrTripIsNotConstructed is returned when using a Trip that skipped its constructor.
	ErrTripIsNotConstructed = errors.New("Trip must be created via NewTrip or RestoreTrip")
	// ErrTripIsNotStarted is returned when finishing a trip that has no start odometer.
	ErrTripIsNotStarted = errs.NewValueIsRequiredError("startOdometer")
)

// Trip is the aggregate root for one assignment of cargo to a vehicle and a driver.
//
// A trip references exactly one vehicle and one driver by identifier; it does not
// own them. The trip's odometer readings bracket the distance driven:
//   - startOdometer is stamped from the vehicle when the trip is dispatched
//   - endOdometer is recorded on completion and never precedes startOdometer
//
// Both readings stay nil until the corresponding event happens.
type Trip struct {
	id            kernel.UUID
	vehicleID     kernel.UUID
	driverID      kernel.UUID
	status        Status
	cargoWeight   float64
	startOdometer *float64
	endOdometer   *float64
	guard         guard.ConstructorGuard
}

// NewTrip creates a Draft trip.
//
// Parameters:
//   - id: trip identifier
//   - vehicleID: the vehicle that will carry the cargo
//   - driverID: the driver who will drive it
//   - cargoWeight: cargo mass in kg (must be > 0)
//
// Returns:
//   - *Trip: the draft trip
//   - error: joined validation errors
//
// Capacity is not checked here; it is a dispatch precondition because the
// vehicle's capacity is only known when the trip is dispatched.
func NewTrip(id, vehicleID, driverID kernel.UUID, cargoWeight float64) (*Trip, error) {
	t := &Trip{
		status: Draft,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setVehicleID(vehicleID),
		t.setDriverID(driverID),
		t.setCargoWeight(cargoWeight),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// RestoreTrip rebuilds a Trip from persisted state.
//
// Business rules:
//   - status must be known
//   - when both readings are present, endOdometer >= startOdometer
func RestoreTrip(
	id, vehicleID, driverID kernel.UUID,
	status Status,
	cargoWeight float64,
	startOdometer, endOdometer *float64,
) (*Trip, error) {
	t := &Trip{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setVehicleID(vehicleID),
		t.setDriverID(driverID),
		t.SetStatus(status),
		t.setCargoWeight(cargoWeight),
	); err != nil {
		return nil, err
	}

	if startOdometer != nil {
		s := *startOdometer
		t.startOdometer = &s
	}
	if endOdometer != nil {
		if t.startOdometer != nil && *endOdometer < *t.startOdometer {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"endOdometer is invalid",
				fmt.Errorf("%g is lower than start %g", *endOdometer, *t.startOdometer),
			)
		}
		e := *endOdometer
		t.endOdometer = &e
	}

	return t, nil
}

// Validate reports whether the trip was built by one of its constructors.
func (t *Trip) Validate() error {
	if t == nil {
		return ErrTripIsNotConstructed
	}
	return t.guard.Validate(ErrTripIsNotConstructed)
}

// IsEqual compares trips by identity.
func (t *Trip) IsEqual(other *Trip) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the trip identifier.
func (t *Trip) ID() kernel.UUID {
	return t.id
}

// VehicleID returns the referenced vehicle.
func (t *Trip) VehicleID() kernel.UUID {
	return t.vehicleID
}

// DriverID returns the referenced driver.
func (t *Trip) DriverID() kernel.UUID {
	return t.driverID
}

// Status returns the live lifecycle status.
func (t *Trip) Status() Status {
	return t.status
}

// CargoWeight returns the cargo mass in kg.
func (t *Trip) CargoWeight() float64 {
	return t.cargoWeight
}

// StartOdometer returns the vehicle reading at dispatch, or nil before dispatch.
func (t *Trip) StartOdometer() *float64 {
	if t.startOdometer == nil {
		return nil
	}
	v := *t.startOdometer
	return &v
}

// EndOdometer returns the vehicle reading at completion, or nil before completion.
func (t *Trip) EndOdometer() *float64 {
	if t.endOdometer == nil {
		return nil
	}
	v := *t.endOdometer
	return &v
}

// SetStatus stores a known status without checking transition rules.
func (t *Trip) SetStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	t.status = status
	return nil
}

// StartAt stamps the dispatch odometer reading.
func (t *Trip) StartAt(odometer float64) error {
	if odometer < 0 {
		return errs.NewValueIsInvalidErrorWithCause("startOdometer is invalid", fmt.Errorf("%g is negative", odometer))
	}
	t.startOdometer = &odometer
	return nil
}

// ClearStart removes the dispatch reading. Used when a dispatch is rolled back.
func (t *Trip) ClearStart() {
	t.startOdometer = nil
}

// ValidateFinish checks that endOdometer can close the trip without changing it.
//
// Returns:
//   - ErrTripIsNotStarted if the trip has no start reading
//   - ValueIsInvalidError if endOdometer is lower than the start reading
func (t *Trip) ValidateFinish(endOdometer float64) error {
	if t.startOdometer == nil {
		return ErrTripIsNotStarted
	}
	if endOdometer < *t.startOdometer {
		return errs.NewValueIsInvalidErrorWithCause(
			"endOdometer is invalid",
			fmt.Errorf("%g is lower than start %g", endOdometer, *t.startOdometer),
		)
	}
	return nil
}

// FinishAt records the completion reading after ValidateFinish.
func (t *Trip) FinishAt(endOdometer float64) error {
	if err := t.ValidateFinish(endOdometer); err != nil {
		return err
	}
	t.endOdometer = &endOdometer
	return nil
}

func (t *Trip) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Trip) setVehicleID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vehicleId", err)
	}
	t.vehicleID = id
	return nil
}

func (t *Trip) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("driverId", err)
	}
	t.driverID = id
	return nil
}

func (t *Trip) setCargoWeight(weight float64) error {
	if weight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("cargoWeight is invalid", fmt.Errorf("%g is not greater than 0", weight))
	}
	t.cargoWeight = weight
	return nil
}
