package commands

import (
	"context"
	"fmt"
	"log/slog"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
)

// CompleteTripCommandHandler completes a dispatched trip as a saga:
// vehicle back to available with the new odometer, driver back on duty with
// one more completed trip, trip to completed with its end reading.
//
// A vehicle or driver that is no longer occupied keeps its status; the
// odometer and the trip counter are updated regardless. When compensating,
// the odometer stays where it is since it is a physical reading.
type CompleteTripCommandHandler struct {
	store      ports.EntityStore
	locker     Locker
	recorder   *StatusRecorder
	validator  services.TransitionValidator
	dispatcher services.TripDispatcher
	logger     *slog.Logger
}

func NewCompleteTripCommandHandler(
	store ports.EntityStore,
	locker Locker,
	recorder *StatusRecorder,
	validator services.TransitionValidator,
	logger *slog.Logger,
) *CompleteTripCommandHandler {
	return &CompleteTripCommandHandler{
		store:      store,
		locker:     locker,
		recorder:   recorder,
		validator:  validator,
		dispatcher: services.NewTripDispatcher(validator),
		logger:     logger.With("component", "complete-trip"),
	}
}

// Handle returns the completed trip. A reading behind the trip's start or
// behind the vehicle's odometer is rejected before anything changes.
func (h *CompleteTripCommandHandler) Handle(ctx context.Context, cmd CompleteTripCommand) (*trip.Trip, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t, unlockTrip, err := lockTrip(ctx, h.locker, h.store, cmd.TripID())
	if err != nil {
		return nil, err
	}
	defer unlockTrip()

	v, d, unlockParties, err := lockParties(ctx, h.locker, h.store, t)
	if err != nil {
		return nil, err
	}
	defer unlockParties()

	if err = h.dispatcher.CheckCompletion(t, v, cmd.EndOdometer()); err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("trip %s completed", t.ID())

	s := newSaga("complete", h.logger)
	s.add(h.vehicleStep(v, cmd.EndOdometer(), reason))
	s.add(h.driverStep(d, reason))
	s.add(h.tripStep(t, cmd.EndOdometer()))

	if err = s.run(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "trip completed",
		"tripId", t.ID().String(),
		"endOdometer", cmd.EndOdometer())

	return t, nil
}

func (h *CompleteTripCommandHandler) vehicleStep(v *vehicle.Vehicle, endOdometer float64, reason string) sagaStep {
	repo := h.store.VehicleRepository()
	release := v.Status() == vehicle.OnTrip

	step := sagaStep{
		name:       kernel.EntityTypeVehicle.String(),
		entityType: kernel.EntityTypeVehicle,
		entityID:   v.ID(),
		apply: func(ctx context.Context) error {
			if err := v.RecordOdometer(endOdometer); err != nil {
				return err
			}
			if release {
				if err := v.SetStatus(vehicle.Available); err != nil {
					return err
				}
			}
			return repo.Update(ctx, v)
		},
	}
	if !release {
		return step
	}

	step.record = func(ctx context.Context) error {
		_, err := h.recorder.Record(ctx, kernel.EntityTypeVehicle, v.ID(), vehicle.OnTrip.String(), vehicle.Available.String(), reason)
		return err
	}
	step.compensate = func(ctx context.Context, reason string) error {
		if err := repo.UpdateStatus(ctx, v.ID(), vehicle.OnTrip); err != nil {
			return err
		}
		_, err := h.recorder.Record(ctx, kernel.EntityTypeVehicle, v.ID(), vehicle.Available.String(), vehicle.OnTrip.String(), reason)
		return err
	}
	return step
}

func (h *CompleteTripCommandHandler) driverStep(d *driver.Driver, reason string) sagaStep {
	repo := h.store.DriverRepository()
	release := d.Status() == driver.OnTrip

	step := sagaStep{
		name:       kernel.EntityTypeDriver.String(),
		entityType: kernel.EntityTypeDriver,
		entityID:   d.ID(),
		apply: func(ctx context.Context) error {
			if release {
				if err := h.validator.ValidateDriverSystem(driver.OnTrip, driver.OnDuty); err != nil {
					return err
				}
				if err := d.SetStatus(driver.OnDuty); err != nil {
					return err
				}
			}
			d.CompleteTrip()
			return repo.Update(ctx, d)
		},
		compensate: func(ctx context.Context, reason string) error {
			d.RevertCompletedTrip()
			if release {
				if err := d.SetStatus(driver.OnTrip); err != nil {
					return err
				}
			}
			if err := repo.Update(ctx, d); err != nil {
				return err
			}
			if !release {
				return nil
			}
			_, err := h.recorder.Record(ctx, kernel.EntityTypeDriver, d.ID(), driver.OnDuty.String(), driver.OnTrip.String(), reason)
			return err
		},
	}
	if release {
		step.record = func(ctx context.Context) error {
			_, err := h.recorder.Record(ctx, kernel.EntityTypeDriver, d.ID(), driver.OnTrip.String(), driver.OnDuty.String(), reason)
			return err
		}
	}
	return step
}

func (h *CompleteTripCommandHandler) tripStep(t *trip.Trip, endOdometer float64) sagaStep {
	return sagaStep{
		name:       kernel.EntityTypeTrip.String(),
		entityType: kernel.EntityTypeTrip,
		entityID:   t.ID(),
		apply: func(ctx context.Context) error {
			if err := t.FinishAt(endOdometer); err != nil {
				return err
			}
			if err := t.SetStatus(trip.Completed); err != nil {
				return err
			}
			return h.store.TripRepository().Update(ctx, t)
		},
		record: func(ctx context.Context) error {
			_, err := h.recorder.Record(ctx, kernel.EntityTypeTrip, t.ID(), trip.Dispatched.String(), trip.Completed.String(), "")
			return err
		},
	}
}
