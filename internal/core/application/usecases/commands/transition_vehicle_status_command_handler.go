package commands

import (
	"context"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// TransitionVehicleStatusCommandHandler applies a requested vehicle status change.
//
// Sequence, all under the vehicle's lock: load, validate against the vehicle
// table, check that retirement leaves no dispatched trip behind, mutate,
// record history, publish.
//
// Example:
//
//	handler := NewTransitionVehicleStatusCommandHandler(store, locker, recorder, validator, clock)
//	record, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // rejected, nothing changed
//	case errors.Is(err, errs.ErrPartialFailure):
//	    // status changed, history missing: run the consistency check
//	}
type TransitionVehicleStatusCommandHandler struct {
	store     ports.EntityStore
	locker    Locker
	recorder  *StatusRecorder
	validator services.TransitionValidator
	clock     ports.Clock
}

func NewTransitionVehicleStatusCommandHandler(
	store ports.EntityStore,
	locker Locker,
	recorder *StatusRecorder,
	validator services.TransitionValidator,
	clock ports.Clock,
) *TransitionVehicleStatusCommandHandler {
	return &TransitionVehicleStatusCommandHandler{
		store:     store,
		locker:    locker,
		recorder:  recorder,
		validator: validator,
		clock:     clock,
	}
}

// Handle returns the history record of the applied change.
//
// Errors: errs.ObjectNotFoundError, *errs.InvalidTransitionError,
// *errs.ActiveTripsError when retiring a vehicle that still has a dispatched
// trip, the store's error when the mutation fails, and
// *errs.PartialFailureError when history could not be appended.
func (h *TransitionVehicleStatusCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionVehicleStatusCommand,
) (*history.Record, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.LockAll(ctx, kernel.EntityTypeVehicle.LockKey(cmd.VehicleID()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	vehicleRepo := h.store.VehicleRepository()

	v, err := vehicleRepo.Get(ctx, cmd.VehicleID())
	if err != nil {
		return nil, err
	}

	previous := v.Status()
	if err = h.validator.ValidateVehicle(previous, cmd.Status()); err != nil {
		return nil, err
	}

	if cmd.Status() == vehicle.Retired {
		active, err := h.store.TripRepository().CountDispatchedByVehicle(ctx, v.ID())
		if err != nil {
			return nil, err
		}
		if active > 0 {
			return nil, errs.NewActiveTripsError(kernel.EntityTypeVehicle.String(), v.ID().String(), active)
		}
	}

	if previous == vehicle.InShop && cmd.Status() == vehicle.Available {
		// Leaving the shop completes maintenance.
		v.MarkMaintained(h.clock.Now())
		if err = v.SetStatus(cmd.Status()); err != nil {
			return nil, err
		}
		err = vehicleRepo.Update(ctx, v)
	} else {
		err = vehicleRepo.UpdateStatus(ctx, v.ID(), cmd.Status())
	}
	if err != nil {
		return nil, err
	}

	return h.recorder.Record(ctx, kernel.EntityTypeVehicle, v.ID(), previous.String(), cmd.Status().String(), cmd.Reason())
}
