package commands

import (
	"errors"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var ErrTransitionDriverStatusCommandIsNotConstructed = errors.New(
	"TransitionDriverStatusCommand must be created via NewTransitionDriverStatusCommand constructor",
)

// TransitionDriverStatusCommand requests a duty status change of one driver.
// "on-trip" parses but is never accepted by the handler: drivers only become
// occupied through trip dispatch.
type TransitionDriverStatusCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	status   driver.Status
	reason   string

	guard guard.ConstructorGuard
}

func NewTransitionDriverStatusCommand(driverID kernel.UUID, status, reason string) (TransitionDriverStatusCommand, error) {
	cmd := TransitionDriverStatusCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setStatus(status),
	); err != nil {
		return TransitionDriverStatusCommand{}, err
	}

	return cmd, nil
}

func (c TransitionDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionDriverStatusCommandIsNotConstructed)
}

func (c TransitionDriverStatusCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c TransitionDriverStatusCommand) Status() driver.Status {
	return c.status
}

func (c TransitionDriverStatusCommand) Reason() string {
	return c.reason
}

func (c *TransitionDriverStatusCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.driverID = id
	return nil
}

func (c *TransitionDriverStatusCommand) setStatus(status string) error {
	s, err := driver.ParseStatus(status)
	if err != nil {
		return err
	}
	c.status = s
	return nil
}
