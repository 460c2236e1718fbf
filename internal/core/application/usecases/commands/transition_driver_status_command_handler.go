package commands

import (
	"context"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// TransitionDriverStatusCommandHandler applies a requested driver duty change.
// A driver with a dispatched trip cannot be suspended.
type TransitionDriverStatusCommandHandler struct {
	store     ports.EntityStore
	locker    Locker
	recorder  *StatusRecorder
	validator services.TransitionValidator
}

func NewTransitionDriverStatusCommandHandler(
	store ports.EntityStore,
	locker Locker,
	recorder *StatusRecorder,
	validator services.TransitionValidator,
) *TransitionDriverStatusCommandHandler {
	return &TransitionDriverStatusCommandHandler{
		store:     store,
		locker:    locker,
		recorder:  recorder,
		validator: validator,
	}
}

// Handle returns the history record of the applied change. Errors mirror
// TransitionVehicleStatusCommandHandler.Handle.
func (h *TransitionDriverStatusCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionDriverStatusCommand,
) (*history.Record, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.LockAll(ctx, kernel.EntityTypeDriver.LockKey(cmd.DriverID()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	d, err := h.store.DriverRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return nil, err
	}

	previous := d.Status()
	if err = h.validator.ValidateDriver(previous, cmd.Status()); err != nil {
		return nil, err
	}

	if cmd.Status() == driver.Suspended {
		active, err := h.store.TripRepository().CountDispatchedByDriver(ctx, d.ID())
		if err != nil {
			return nil, err
		}
		if active > 0 {
			return nil, errs.NewActiveTripsError(kernel.EntityTypeDriver.String(), d.ID().String(), active)
		}
	}

	if err = h.store.DriverRepository().UpdateStatus(ctx, d.ID(), cmd.Status()); err != nil {
		return nil, err
	}

	return h.recorder.Record(ctx, kernel.EntityTypeDriver, d.ID(), previous.String(), cmd.Status().String(), cmd.Reason())
}
