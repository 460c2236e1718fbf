package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var ErrCancelTripCommandIsNotConstructed = errors.New(
	"CancelTripCommand must be created via NewCancelTripCommand constructor",
)

// CancelTripCommand cancels a draft or dispatched trip. The reason ends up
// on the trip's history record.
type CancelTripCommand struct { //nolint:recvcheck //using for validation
	tripID kernel.UUID
	reason string

	guard guard.ConstructorGuard
}

func NewCancelTripCommand(tripID kernel.UUID, reason string) (CancelTripCommand, error) {
	if err := tripID.Validate(); err != nil {
		return CancelTripCommand{}, err
	}

	return CancelTripCommand{
		tripID: tripID,
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c CancelTripCommand) Validate() error {
	return c.guard.Validate(ErrCancelTripCommandIsNotConstructed)
}

func (c CancelTripCommand) TripID() kernel.UUID {
	return c.tripID
}

func (c CancelTripCommand) Reason() string {
	return c.reason
}
