package commands

import (
	"context"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/ports"
)

// lockTrip takes the trip's lock and loads it. The trip lock always comes
// first so that compound operations acquire trip, vehicle, driver in that order.
func lockTrip(
	ctx context.Context,
	locker Locker,
	store ports.EntityStore,
	tripID kernel.UUID,
) (*trip.Trip, func(), error) {
	unlock, err := locker.LockAll(ctx, kernel.EntityTypeTrip.LockKey(tripID))
	if err != nil {
		return nil, nil, err
	}

	t, err := store.TripRepository().Get(ctx, tripID)
	if err != nil {
		unlock()
		return nil, nil, err
	}

	return t, unlock, nil
}

// lockParties takes the vehicle and driver locks of t, in that order, and loads both.
func lockParties(
	ctx context.Context,
	locker Locker,
	store ports.EntityStore,
	t *trip.Trip,
) (*vehicle.Vehicle, *driver.Driver, func(), error) {
	unlock, err := locker.LockAll(ctx,
		kernel.EntityTypeVehicle.LockKey(t.VehicleID()),
		kernel.EntityTypeDriver.LockKey(t.DriverID()),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	v, err := store.VehicleRepository().Get(ctx, t.VehicleID())
	if err != nil {
		unlock()
		return nil, nil, nil, err
	}

	d, err := store.DriverRepository().Get(ctx, t.DriverID())
	if err != nil {
		unlock()
		return nil, nil, nil, err
	}

	return v, d, unlock, nil
}
