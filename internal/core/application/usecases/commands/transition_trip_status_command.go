package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/pkg/guard"
)

var ErrTransitionTripStatusCommandIsNotConstructed = errors.New(
	"TransitionTripStatusCommand must be created via NewTransitionTripStatusCommand constructor",
)

// TransitionTripStatusCommand requests a status change of the trip record alone.
// Use DispatchTripCommand, CompleteTripCommand or CancelTripCommand when the
// vehicle and driver must follow.
type TransitionTripStatusCommand struct { //nolint:recvcheck //using for validation
	tripID kernel.UUID
	status trip.Status
	reason string

	guard guard.ConstructorGuard
}

func NewTransitionTripStatusCommand(tripID kernel.UUID, status, reason string) (TransitionTripStatusCommand, error) {
	cmd := TransitionTripStatusCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTripID(tripID),
		cmd.setStatus(status),
	); err != nil {
		return TransitionTripStatusCommand{}, err
	}

	return cmd, nil
}

func (c TransitionTripStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionTripStatusCommandIsNotConstructed)
}

func (c TransitionTripStatusCommand) TripID() kernel.UUID {
	return c.tripID
}

func (c TransitionTripStatusCommand) Status() trip.Status {
	return c.status
}

func (c TransitionTripStatusCommand) Reason() string {
	return c.reason
}

func (c *TransitionTripStatusCommand) setTripID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.tripID = id
	return nil
}

func (c *TransitionTripStatusCommand) setStatus(status string) error {
	s, err := trip.ParseStatus(status)
	if err != nil {
		return err
	}
	c.status = s
	return nil
}
