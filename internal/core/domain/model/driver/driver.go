package driver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

const (
	// defaultSafetyScore is the score a newly registered driver starts with.
	defaultSafetyScore = 100
	maxSafetyScore     = 100
)

var (
	// ErrNameIsRequired is returned when a driver has no name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrLicenseExpiryIsRequired is returned for a zero license expiry.
	ErrLicenseExpiryIsRequired = errs.NewValueIsRequiredError("licenseExpiry")
	// ErrDriverIsNotConstructed is returned when using a Driver that skipped its constructor.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")
)

// Driver is the aggregate root for a member of the driving staff.
//
// Business rules:
//   - TripsCompleted only grows
//   - SafetyScore stays within 0..100
//   - a license that expired before "now" blocks dispatch
type Driver struct {
	id             kernel.UUID
	name           string
	status         Status
	licenseExpiry  time.Time
	tripsCompleted int
	safetyScore    int
	guard          guard.ConstructorGuard
}

// NewDriver registers an OnDuty driver with a perfect safety score and no completed trips.
func NewDriver(id kernel.UUID, name string, licenseExpiry time.Time) (*Driver, error) {
	d := &Driver{
		status:      OnDuty,
		safetyScore: defaultSafetyScore,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setLicenseExpiry(licenseExpiry),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver rebuilds a Driver from persisted state.
func RestoreDriver(
	id kernel.UUID,
	name string,
	status Status,
	licenseExpiry time.Time,
	tripsCompleted int,
	safetyScore int,
) (*Driver, error) {
	d := &Driver{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.SetStatus(status),
		d.setLicenseExpiry(licenseExpiry),
		d.setTripsCompleted(tripsCompleted),
		d.SetSafetyScore(safetyScore),
	); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Status() Status {
	return d.status
}

func (d *Driver) LicenseExpiry() time.Time {
	return d.licenseExpiry
}

func (d *Driver) TripsCompleted() int {
	return d.tripsCompleted
}

func (d *Driver) SafetyScore() int {
	return d.safetyScore
}

// IsOnDuty reports whether the driver can be dispatched.
func (d *Driver) IsOnDuty() bool {
	return d.status == OnDuty
}

// IsLicenseExpired reports whether the license expired strictly before now.
// A license expiring today is still valid today.
func (d *Driver) IsLicenseExpired(now time.Time) bool {
	return d.licenseExpiry.Before(now)
}

// SetStatus stores a known status without checking transition rules.
func (d *Driver) SetStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}

// CompleteTrip bumps the completed trip counter.
func (d *Driver) CompleteTrip() {
	d.tripsCompleted++
}

// RevertCompletedTrip undoes one CompleteTrip. The counter never drops below zero.
func (d *Driver) RevertCompletedTrip() {
	if d.tripsCompleted > 0 {
		d.tripsCompleted--
	}
}

// SetSafetyScore updates the score, which must stay within 0..100.
func (d *Driver) SetSafetyScore(score int) error {
	if score < 0 || score > maxSafetyScore {
		return errs.NewValueIsOutOfRangeError("safetyScore", score, 0, maxSafetyScore)
	}
	d.safetyScore = score
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Driver) setLicenseExpiry(expiry time.Time) error {
	if expiry.IsZero() {
		return ErrLicenseExpiryIsRequired
	}
	d.licenseExpiry = expiry.UTC()
	return nil
}

func (d *Driver) setTripsCompleted(n int) error {
	if n < 0 {
		return errs.NewValueIsInvalidErrorWithCause("tripsCompleted is invalid", fmt.Errorf("%d is negative", n))
	}
	d.tripsCompleted = n
	return nil
}
