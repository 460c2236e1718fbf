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
	"fleet/internal/pkg/errs"
)

// DispatchTripCommandHandler dispatches a trip as a saga of three steps:
// trip draft→dispatched (stamping the start odometer), vehicle
// available→on-trip, driver on-duty→on-trip.
//
// All preconditions are checked before the first step, so a rejected
// dispatch changes nothing. A step that fails later rolls the earlier ones
// back and returns *errs.SagaAbortedError.
type DispatchTripCommandHandler struct {
	store      ports.EntityStore
	locker     Locker
	recorder   *StatusRecorder
	validator  services.TransitionValidator
	dispatcher services.TripDispatcher
	clock      ports.Clock
	logger     *slog.Logger
}

func NewDispatchTripCommandHandler(
	store ports.EntityStore,
	locker Locker,
	recorder *StatusRecorder,
	validator services.TransitionValidator,
	clock ports.Clock,
	logger *slog.Logger,
) *DispatchTripCommandHandler {
	return &DispatchTripCommandHandler{
		store:      store,
		locker:     locker,
		recorder:   recorder,
		validator:  validator,
		dispatcher: services.NewTripDispatcher(validator),
		clock:      clock,
		logger:     logger.With("component", "dispatch-trip"),
	}
}

// Handle returns the dispatched trip.
//
// Errors: errs.ObjectNotFoundError for the trip, vehicle or driver;
// *errs.InvalidTransitionError when the trip is not a draft;
// *errs.NotAvailableError, *errs.CargoViolationError,
// *errs.LicenseExpiredError from the dispatch checks;
// *errs.SagaAbortedError or *errs.PartialFailureError from the steps.
func (h *DispatchTripCommandHandler) Handle(ctx context.Context, cmd DispatchTripCommand) (*trip.Trip, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t, _, err := h.dispatch(ctx, cmd.TripID(), "")
	return t, err
}

// dispatch runs the whole operation and also returns the trip's history
// record, which carries tripReason.
func (h *DispatchTripCommandHandler) dispatch(
	ctx context.Context,
	tripID kernel.UUID,
	tripReason string,
) (*trip.Trip, *history.Record, error) {
	t, unlockTrip, err := lockTrip(ctx, h.locker, h.store, tripID)
	if err != nil {
		return nil, nil, err
	}
	defer unlockTrip()

	v, d, unlockParties, err := lockParties(ctx, h.locker, h.store, t)
	if err != nil {
		return nil, nil, err
	}
	defer unlockParties()

	if err = h.dispatcher.CheckDispatch(t, v, d, h.clock.Now()); err != nil {
		return nil, nil, err
	}
	if err = h.validator.ValidateDriverSystem(d.Status(), driver.OnTrip); err != nil {
		return nil, nil, err
	}
	if err = h.checkNotBooked(ctx, v, d); err != nil {
		return nil, nil, err
	}

	reason := fmt.Sprintf("trip %s dispatched", t.ID())

	var rec *history.Record
	s := newSaga("dispatch", h.logger)
	s.add(h.tripStep(t, v.Odometer(), tripReason, &rec))
	s.add(vehicleStatusStep(h.store, h.recorder, v.ID(), vehicle.Available, vehicle.OnTrip, reason))
	s.add(driverStatusStep(h.store, h.recorder, d.ID(), driver.OnDuty, driver.OnTrip, reason))

	if err = s.run(ctx); err != nil {
		return nil, nil, err
	}

	h.logger.InfoContext(ctx, "trip dispatched",
		"tripId", t.ID().String(),
		"vehicleId", v.ID().String(),
		"driverId", d.ID().String())

	return t, rec, nil
}

// checkNotBooked rejects a vehicle or driver that another dispatched trip
// still references, whatever their live status says.
func (h *DispatchTripCommandHandler) checkNotBooked(ctx context.Context, v *vehicle.Vehicle, d *driver.Driver) error {
	trips := h.store.TripRepository()

	active, err := trips.CountDispatchedByVehicle(ctx, v.ID())
	if err != nil {
		return err
	}
	if active > 0 {
		return errs.NewNotAvailableError(kernel.EntityTypeVehicle.String(), v.ID().String(), "booked")
	}

	active, err = trips.CountDispatchedByDriver(ctx, d.ID())
	if err != nil {
		return err
	}
	if active > 0 {
		return errs.NewNotAvailableError(kernel.EntityTypeDriver.String(), d.ID().String(), "booked")
	}

	return nil
}

func (h *DispatchTripCommandHandler) tripStep(
	t *trip.Trip,
	startOdometer float64,
	reason string,
	rec **history.Record,
) sagaStep {
	repo := h.store.TripRepository()
	return sagaStep{
		name:       kernel.EntityTypeTrip.String(),
		entityType: kernel.EntityTypeTrip,
		entityID:   t.ID(),
		apply: func(ctx context.Context) error {
			if err := t.StartAt(startOdometer); err != nil {
				return err
			}
			if err := t.SetStatus(trip.Dispatched); err != nil {
				return err
			}
			return repo.Update(ctx, t)
		},
		record: func(ctx context.Context) error {
			r, err := h.recorder.Record(ctx, kernel.EntityTypeTrip, t.ID(), trip.Draft.String(), trip.Dispatched.String(), reason)
			*rec = r
			return err
		},
		compensate: func(ctx context.Context, reason string) error {
			if err := h.validator.ValidateTripSystem(trip.Dispatched, trip.Draft); err != nil {
				return err
			}
			t.ClearStart()
			if err := t.SetStatus(trip.Draft); err != nil {
				return err
			}
			if err := repo.Update(ctx, t); err != nil {
				return err
			}
			_, err := h.recorder.Record(ctx, kernel.EntityTypeTrip, t.ID(), trip.Dispatched.String(), trip.Draft.String(), reason)
			return err
		},
	}
}
