package vehicle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

// Domain errors for vehicle operations.
var (
	// ErrNameIsRequired is returned when a vehicle has no name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrVehicleIsNotConstructed is returned when using a Vehicle that skipped its constructor.
	ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle or RestoreVehicle")
)

// Vehicle is the aggregate root for a physical fleet asset.
//
// Business rules:
//   - MaxCapacity (kg) is strictly positive
//   - Odometer never decreases
//   - Retired is terminal
//
// The status field is changed only by the status engine, which validates the
// transition before calling SetStatus. The aggregate itself only guarantees
// that the stored value is a known status.
type Vehicle struct {
	id              kernel.UUID
	name            string
	status          Status
	maxCapacity     float64
	odometer        float64
	lastMaintenance *time.Time
	guard           guard.ConstructorGuard
}

// NewVehicle registers a new vehicle in the Available status.
//
// Parameters:
//   - id: unique identifier (must be valid)
//   - name: display name or plate (must be non-empty)
//   - maxCapacity: cargo capacity in kg (must be > 0)
//   - odometer: initial reading in km (must be >= 0)
//
// Returns:
//   - *Vehicle: the new aggregate
//   - error: joined validation errors
//
// Example:
//
//	v, err := vehicle.NewVehicle(kernel.NewUUID(), "VAN-042", 20000, 45000)
func NewVehicle(id kernel.UUID, name string, maxCapacity, odometer float64) (*Vehicle, error) {
	v := &Vehicle{
		status: Available,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.setName(name),
		v.setMaxCapacity(maxCapacity),
		v.setOdometer(odometer),
	); err != nil {
		return nil, err
	}

	return v, nil
}

// RestoreVehicle rebuilds a Vehicle from persisted state.
// Unlike NewVehicle it accepts any valid status and a maintenance timestamp.
func RestoreVehicle(
	id kernel.UUID,
	name string,
	status Status,
	maxCapacity float64,
	odometer float64,
	lastMaintenance *time.Time,
) (*Vehicle, error) {
	v := &Vehicle{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.setName(name),
		v.SetStatus(status),
		v.setMaxCapacity(maxCapacity),
		v.setOdometer(odometer),
	); err != nil {
		return nil, err
	}
	v.lastMaintenance = lastMaintenance

	return v, nil
}

// Validate reports whether the vehicle was built by one of its constructors.
func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

// IsEqual compares vehicles by identity.
func (v *Vehicle) IsEqual(other *Vehicle) bool {
	return other != nil && v.id.IsEqual(other.id)
}

// ID returns the vehicle identifier.
func (v *Vehicle) ID() kernel.UUID {
	return v.id
}

// Name returns the display name.
func (v *Vehicle) Name() string {
	return v.name
}

// Status returns the live operational status.
func (v *Vehicle) Status() Status {
	return v.status
}

// MaxCapacity returns the cargo capacity in kg.
func (v *Vehicle) MaxCapacity() float64 {
	return v.maxCapacity
}

// Odometer returns the current reading in km.
func (v *Vehicle) Odometer() float64 {
	return v.odometer
}

// LastMaintenance returns when the vehicle last left the shop, or nil.
func (v *Vehicle) LastMaintenance() *time.Time {
	if v.lastMaintenance == nil {
		return nil
	}
	t := *v.lastMaintenance
	return &t
}

// IsAvailable reports whether the vehicle can take a new trip.
func (v *Vehicle) IsAvailable() bool {
	return v.status == Available
}

// CanCarry reports whether cargoWeight fits within MaxCapacity. Equal weight fits.
func (v *Vehicle) CanCarry(cargoWeight float64) bool {
	return cargoWeight <= v.maxCapacity
}

// SetStatus stores a new status. It only checks that the value is known;
// transition legality is decided by the caller.
func (v *Vehicle) SetStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	v.status = status
	return nil
}

// RecordOdometer moves the odometer forward to km.
//
// Returns a ValueIsInvalidError when km is lower than the current reading.
// Recording the same value again is allowed.
func (v *Vehicle) RecordOdometer(km float64) error {
	if km < v.odometer {
		return errs.NewValueIsInvalidErrorWithCause(
			"odometer is invalid",
			fmt.Errorf("%g is lower than current reading %g", km, v.odometer),
		)
	}
	v.odometer = km
	return nil
}

// MarkMaintained stamps the end of a maintenance visit.
func (v *Vehicle) MarkMaintained(at time.Time) {
	at = at.UTC()
	v.lastMaintenance = &at
}

func (v *Vehicle) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}

func (v *Vehicle) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	v.name = name
	return nil
}

func (v *Vehicle) setMaxCapacity(maxCapacity float64) error {
	if maxCapacity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"maxCapacity is invalid",
			fmt.Errorf("%g is not greater than 0", maxCapacity),
		)
	}
	v.maxCapacity = maxCapacity
	return nil
}

func (v *Vehicle) setOdometer(odometer float64) error {
	if odometer < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"odometer is invalid",
			fmt.Errorf("%g is negative", odometer),
		)
	}
	v.odometer = odometer
	return nil
}
