package vehicle

import (
	"fmt"

	"fleet/internal/pkg/errs"
)

// Status is the operational state of a vehicle.
//
// State transitions (enforced by services.TransitionValidator):
//
//	Available ──┬──> OnTrip ──┬──> Available
//	            │             └──> InShop
//	            ├──> InShop ──┬──> Available
//	            │             └──> Retired
//	            └──> Retired (terminal)
//
// The zero value Unknown is never a valid status.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Available means the vehicle is idle and may be dispatched.
	Available

	// OnTrip means the vehicle is assigned to a dispatched trip.
	OnTrip

	// InShop means the vehicle is under maintenance.
	InShop

	// Retired is terminal: the vehicle left the fleet.
	Retired
)

// getStatusStrings maps each valid status to its wire form.
func getStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown has no wire form
	return map[Status]string{
		Available: "available",
		OnTrip:    "on-trip",
		InShop:    "in-shop",
		Retired:   "retired",
	}
}

// ParseStatus converts the wire form ("available", "on-trip", "in-shop", "retired") into a Status.
//
// Returns:
//   - the matching Status and nil
//   - Unknown and a ValueIsInvalidError for anything else
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a vehicle status", s),
	)
}

// Validate checks that the status is one of the four known values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid vehicle status", s))
	}
	return nil
}

// String returns the wire form, or "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition may leave the status.
func (s Status) IsTerminal() bool {
	return s == Retired
}
