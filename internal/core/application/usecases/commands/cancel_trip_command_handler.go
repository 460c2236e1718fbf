package commands

import (
	"context"
	"fmt"
	"log/slog"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
)

// CancelTripCommandHandler cancels a trip. For a dispatched trip the vehicle
// and driver are released first, each only if it is still occupied; the
// trip itself is cancelled last.
type CancelTripCommandHandler struct {
	store      ports.EntityStore
	locker     Locker
	recorder   *StatusRecorder
	dispatcher services.TripDispatcher
	logger     *slog.Logger
}

func NewCancelTripCommandHandler(
	store ports.EntityStore,
	locker Locker,
	recorder *StatusRecorder,
	validator services.TransitionValidator,
	logger *slog.Logger,
) *CancelTripCommandHandler {
	return &CancelTripCommandHandler{
		store:      store,
		locker:     locker,
		recorder:   recorder,
		dispatcher: services.NewTripDispatcher(validator),
		logger:     logger.With("component", "cancel-trip"),
	}
}

// Handle returns the cancelled trip, or *errs.InvalidTransitionError when
// the trip is already completed or cancelled.
func (h *CancelTripCommandHandler) Handle(ctx context.Context, cmd CancelTripCommand) (*trip.Trip, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t, _, err := h.cancel(ctx, cmd.TripID(), cmd.Reason())
	return t, err
}

// cancel runs the whole operation and also returns the trip's history record.
func (h *CancelTripCommandHandler) cancel(
	ctx context.Context,
	tripID kernel.UUID,
	tripReason string,
) (*trip.Trip, *history.Record, error) {
	t, unlockTrip, err := lockTrip(ctx, h.locker, h.store, tripID)
	if err != nil {
		return nil, nil, err
	}
	defer unlockTrip()

	if err = h.dispatcher.CheckCancellation(t); err != nil {
		return nil, nil, err
	}

	s := newSaga("cancel", h.logger)

	if t.Status() == trip.Dispatched {
		v, d, unlockParties, err := lockParties(ctx, h.locker, h.store, t)
		if err != nil {
			return nil, nil, err
		}
		defer unlockParties()

		reason := fmt.Sprintf("trip %s cancelled", t.ID())
		if v.Status() == vehicle.OnTrip {
			s.add(vehicleStatusStep(h.store, h.recorder, v.ID(), vehicle.OnTrip, vehicle.Available, reason))
		}
		if d.Status() == driver.OnTrip {
			s.add(driverStatusStep(h.store, h.recorder, d.ID(), driver.OnTrip, driver.OnDuty, reason))
		}
	}

	var rec *history.Record
	s.add(h.tripStep(t, tripReason, &rec))

	if err = s.run(ctx); err != nil {
		return nil, nil, err
	}

	h.logger.InfoContext(ctx, "trip cancelled", "tripId", t.ID().String())

	return t, rec, nil
}

func (h *CancelTripCommandHandler) tripStep(t *trip.Trip, reason string, rec **history.Record) sagaStep {
	previous := t.Status()
	return sagaStep{
		name:       kernel.EntityTypeTrip.String(),
		entityType: kernel.EntityTypeTrip,
		entityID:   t.ID(),
		apply: func(ctx context.Context) error {
			if err := h.store.TripRepository().UpdateStatus(ctx, t.ID(), trip.Cancelled); err != nil {
				return err
			}
			return t.SetStatus(trip.Cancelled)
		},
		record: func(ctx context.Context) error {
			r, err := h.recorder.Record(ctx, kernel.EntityTypeTrip, t.ID(), previous.String(), trip.Cancelled.String(), reason)
			*rec = r
			return err
		},
	}
}
