package driver

import (
	"fmt"

	"fleet/internal/pkg/errs"
)

// Status is the duty state of a driver.
//
//	OnDuty <──> OffDuty
//	   ^  \       ^
//	   |   v      |
//	   |  Suspended
//	   v
//	OnTrip (set and cleared by trip operations only)
//
// There is no terminal status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota
	// OnDuty drivers can be dispatched.
	OnDuty
	// OffDuty drivers are not working.
	OffDuty
	// Suspended drivers are barred from trips.
	Suspended
	// OnTrip marks a driver occupied by a dispatched trip.
	OnTrip
)

func getStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown has no wire form
	return map[Status]string{
		OnDuty:    "on-duty",
		OffDuty:   "off-duty",
		Suspended: "suspended",
		OnTrip:    "on-trip",
	}
}

// ParseStatus converts the wire form into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a driver status", s),
	)
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid driver status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
