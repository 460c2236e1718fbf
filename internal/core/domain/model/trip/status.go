package trip

import (
	"fmt"

	"fleet/internal/pkg/errs"
)

// Status represents the lifecycle state of a trip.
//
// State transitions:
//
//	Draft ──┬──> Dispatched ──┬──> Completed
//	        │                 │
//	        └──> Cancelled <──┘
//
// Completed and Cancelled are final.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Draft is the initial status. The trip references a vehicle and a
	// driver but neither is reserved.
	Draft

	// Dispatched means the vehicle and driver are occupied by the trip.
	Dispatched

	// Completed means the trip ended and its odometer reading was recorded.
	Completed

	// Cancelled means the trip was abandoned before completion.
	Cancelled
)

func getStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown has no wire form
	return map[Status]string{
		Draft:      "draft",
		Dispatched: "dispatched",
		Completed:  "completed",
		Cancelled:  "cancelled",
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
		fmt.Errorf("%q is not a trip status", s),
	)
}

// Validate checks that the status is one of the four known values.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid trip status", s))
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

// IsTerminal reports whether the trip reached a final status.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}
