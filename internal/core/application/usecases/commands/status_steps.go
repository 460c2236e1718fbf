package commands

import (
	"context"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/ports"
)

// vehicleStatusStep moves a vehicle between two statuses through
// UpdateStatus. Its compensation is the inverse move.
func vehicleStatusStep(
	store ports.EntityStore,
	recorder *StatusRecorder,
	id kernel.UUID,
	from, to vehicle.Status,
	reason string,
) sagaStep {
	repo := store.VehicleRepository()
	return sagaStep{
		name:       kernel.EntityTypeVehicle.String(),
		entityType: kernel.EntityTypeVehicle,
		entityID:   id,
		apply: func(ctx context.Context) error {
			return repo.UpdateStatus(ctx, id, to)
		},
		record: func(ctx context.Context) error {
			_, err := recorder.Record(ctx, kernel.EntityTypeVehicle, id, from.String(), to.String(), reason)
			return err
		},
		compensate: func(ctx context.Context, reason string) error {
			if err := repo.UpdateStatus(ctx, id, from); err != nil {
				return err
			}
			_, err := recorder.Record(ctx, kernel.EntityTypeVehicle, id, to.String(), from.String(), reason)
			return err
		},
	}
}

// driverStatusStep is vehicleStatusStep for drivers.
func driverStatusStep(
	store ports.EntityStore,
	recorder *StatusRecorder,
	id kernel.UUID,
	from, to driver.Status,
	reason string,
) sagaStep {
	repo := store.DriverRepository()
	return sagaStep{
		name:       kernel.EntityTypeDriver.String(),
		entityType: kernel.EntityTypeDriver,
		entityID:   id,
		apply: func(ctx context.Context) error {
			return repo.UpdateStatus(ctx, id, to)
		},
		record: func(ctx context.Context) error {
			_, err := recorder.Record(ctx, kernel.EntityTypeDriver, id, from.String(), to.String(), reason)
			return err
		},
		compensate: func(ctx context.Context, reason string) error {
			if err := repo.UpdateStatus(ctx, id, from); err != nil {
				return err
			}
			_, err := recorder.Record(ctx, kernel.EntityTypeDriver, id, to.String(), from.String(), reason)
			return err
		},
	}
}
