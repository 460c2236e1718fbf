package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var ErrDispatchTripCommandIsNotConstructed = errors.New(
	"DispatchTripCommand must be created via NewDispatchTripCommand constructor",
)

// DispatchTripCommand sends a draft trip out with its vehicle and driver.
//
// Example:
//
//	cmd, err := NewDispatchTripCommand(tripID)
//	if err != nil {
//	    return err
//	}
//	t, err := handler.Handle(ctx, cmd)
//	var cargo *errs.CargoViolationError
//	if errors.As(err, &cargo) {
//	    log.Printf("load %gkg too heavy", cargo.CargoWeight)
//	}
type DispatchTripCommand struct { //nolint:recvcheck //using for validation
	tripID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDispatchTripCommand(tripID kernel.UUID) (DispatchTripCommand, error) {
	if err := tripID.Validate(); err != nil {
		return DispatchTripCommand{}, err
	}

	return DispatchTripCommand{
		tripID: tripID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchTripCommand) Validate() error {
	return c.guard.Validate(ErrDispatchTripCommandIsNotConstructed)
}

func (c DispatchTripCommand) TripID() kernel.UUID {
	return c.tripID
}
