package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/guard"
)

var ErrTransitionVehicleStatusCommandIsNotConstructed = errors.New(
	"TransitionVehicleStatusCommand must be created via NewTransitionVehicleStatusCommand constructor",
)

// TransitionVehicleStatusCommand requests a status change of one vehicle.
// The status arrives in wire form and is parsed into vehicle.Status here, so
// a handler never sees an unknown status.
//
// Example:
//
//	cmd, err := NewTransitionVehicleStatusCommand(vehicleID, "in-shop", "brake check")
//	if err != nil {
//	    return fmt.Errorf("invalid request: %w", err)
//	}
//	record, err := handler.Handle(ctx, cmd)
type TransitionVehicleStatusCommand struct { //nolint:recvcheck //using for validation
	vehicleID kernel.UUID
	status    vehicle.Status
	reason    string

	guard guard.ConstructorGuard
}

// NewTransitionVehicleStatusCommand validates the id and parses the requested status.
// The reason is optional.
func NewTransitionVehicleStatusCommand(vehicleID kernel.UUID, status, reason string) (TransitionVehicleStatusCommand, error) {
	cmd := TransitionVehicleStatusCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setVehicleID(vehicleID),
		cmd.setStatus(status),
	); err != nil {
		return TransitionVehicleStatusCommand{}, err
	}

	return cmd, nil
}

func (c TransitionVehicleStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionVehicleStatusCommandIsNotConstructed)
}

func (c TransitionVehicleStatusCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

func (c TransitionVehicleStatusCommand) Status() vehicle.Status {
	return c.status
}

func (c TransitionVehicleStatusCommand) Reason() string {
	return c.reason
}

func (c *TransitionVehicleStatusCommand) setVehicleID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.vehicleID = id
	return nil
}

func (c *TransitionVehicleStatusCommand) setStatus(status string) error {
	s, err := vehicle.ParseStatus(status)
	if err != nil {
		return err
	}
	c.status = s
	return nil
}
