package commands

import (
	"context"
	"errors"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// ErrCompletionNeedsOdometer is returned when completion is requested as a
// plain status change. Completion goes through CompleteTripCommand.
var ErrCompletionNeedsOdometer = errs.NewValueIsRequiredErrorWithCause(
	"endOdometer",
	errors.New("complete the trip through the complete operation"),
)

// TransitionTripStatusCommandHandler applies a requested trip status.
//
// Every edge of the trip table moves the vehicle and driver as well, so
// dispatched and cancelled are handed to the dispatch and cancel operations
// and completed is rejected. Other targets go through the table alone.
type TransitionTripStatusCommandHandler struct {
	store     ports.EntityStore
	locker    Locker
	recorder  *StatusRecorder
	validator services.TransitionValidator
	dispatch  *DispatchTripCommandHandler
	cancel    *CancelTripCommandHandler
}

func NewTransitionTripStatusCommandHandler(
	store ports.EntityStore,
	locker Locker,
	recorder *StatusRecorder,
	validator services.TransitionValidator,
	dispatch *DispatchTripCommandHandler,
	cancel *CancelTripCommandHandler,
) *TransitionTripStatusCommandHandler {
	return &TransitionTripStatusCommandHandler{
		store:     store,
		locker:    locker,
		recorder:  recorder,
		validator: validator,
		dispatch:  dispatch,
		cancel:    cancel,
	}
}

// Handle returns the trip's new history record.
//
// Errors are those of the dispatch and cancel operations for the matching
// targets, ErrCompletionNeedsOdometer for completed, and
// *errs.InvalidTransitionError for anything the table refuses.
func (h *TransitionTripStatusCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionTripStatusCommand,
) (*history.Record, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	switch cmd.Status() {
	case trip.Dispatched:
		_, rec, err := h.dispatch.dispatch(ctx, cmd.TripID(), cmd.Reason())
		return rec, err
	case trip.Cancelled:
		_, rec, err := h.cancel.cancel(ctx, cmd.TripID(), cmd.Reason())
		return rec, err
	case trip.Completed:
		t, err := h.store.TripRepository().Get(ctx, cmd.TripID())
		if err != nil {
			return nil, err
		}
		if err = h.validator.ValidateTrip(t.Status(), trip.Completed); err != nil {
			return nil, err
		}
		return nil, ErrCompletionNeedsOdometer
	}

	unlock, err := h.locker.LockAll(ctx, kernel.EntityTypeTrip.LockKey(cmd.TripID()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	t, err := h.store.TripRepository().Get(ctx, cmd.TripID())
	if err != nil {
		return nil, err
	}

	previous := t.Status()
	if err = h.validator.ValidateTrip(previous, cmd.Status()); err != nil {
		return nil, err
	}

	if err = h.store.TripRepository().UpdateStatus(ctx, t.ID(), cmd.Status()); err != nil {
		return nil, err
	}

	return h.recorder.Record(ctx, kernel.EntityTypeTrip, t.ID(), previous.String(), cmd.Status().String(), cmd.Reason())
}
