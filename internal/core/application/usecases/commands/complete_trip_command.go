package commands

import (
	"errors"
	"fmt"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var ErrCompleteTripCommandIsNotConstructed = errors.New(
	"CompleteTripCommand must be created via NewCompleteTripCommand constructor",
)

// CompleteTripCommand closes a dispatched trip with the final odometer reading.
type CompleteTripCommand struct { //nolint:recvcheck //using for validation
	tripID      kernel.UUID
	endOdometer float64

	guard guard.ConstructorGuard
}

// NewCompleteTripCommand checks the reading is not negative. Whether it is
// past the trip's start is decided by the handler, which knows the trip.
func NewCompleteTripCommand(tripID kernel.UUID, endOdometer float64) (CompleteTripCommand, error) {
	cmd := CompleteTripCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTripID(tripID),
		cmd.setEndOdometer(endOdometer),
	); err != nil {
		return CompleteTripCommand{}, err
	}

	return cmd, nil
}

func (c CompleteTripCommand) Validate() error {
	return c.guard.Validate(ErrCompleteTripCommandIsNotConstructed)
}

func (c CompleteTripCommand) TripID() kernel.UUID {
	return c.tripID
}

func (c CompleteTripCommand) EndOdometer() float64 {
	return c.endOdometer
}

func (c *CompleteTripCommand) setTripID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.tripID = id
	return nil
}

func (c *CompleteTripCommand) setEndOdometer(km float64) error {
	if km < 0 {
		return errs.NewValueIsInvalidErrorWithCause("endOdometer is invalid", fmt.Errorf("%g is negative", km))
	}
	c.endOdometer = km
	return nil
}
