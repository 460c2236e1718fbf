// Package entitystatus reads and overwrites the live status of any tracked
// entity through the entity store, keyed by entity type.
//
// Statuses cross this boundary in wire form ("on-trip", "dispatched") because
// that is how history records store them.
package entitystatus

import (
	"context"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/ports"
)

// Read returns the live status of the entity.
// A missing entity yields the repository's errs.ObjectNotFoundError.
func Read(ctx context.Context, store ports.EntityStore, entityType kernel.EntityType, id kernel.UUID) (string, error) {
	switch entityType {
	case kernel.EntityTypeVehicle:
		v, err := store.VehicleRepository().Get(ctx, id)
		if err != nil {
			return "", err
		}
		return v.Status().String(), nil
	case kernel.EntityTypeDriver:
		d, err := store.DriverRepository().Get(ctx, id)
		if err != nil {
			return "", err
		}
		return d.Status().String(), nil
	case kernel.EntityTypeTrip:
		t, err := store.TripRepository().Get(ctx, id)
		if err != nil {
			return "", err
		}
		return t.Status().String(), nil
	default:
		return "", entityType.Validate()
	}
}

// Force overwrites the live status without consulting the transition rules.
// The status must still parse for the entity type.
func Force(ctx context.Context, store ports.EntityStore, entityType kernel.EntityType, id kernel.UUID, status string) error {
	switch entityType {
	case kernel.EntityTypeVehicle:
		s, err := vehicle.ParseStatus(status)
		if err != nil {
			return err
		}
		return store.VehicleRepository().UpdateStatus(ctx, id, s)
	case kernel.EntityTypeDriver:
		s, err := driver.ParseStatus(status)
		if err != nil {
			return err
		}
		return store.DriverRepository().UpdateStatus(ctx, id, s)
	case kernel.EntityTypeTrip:
		s, err := trip.ParseStatus(status)
		if err != nil {
			return err
		}
		return store.TripRepository().UpdateStatus(ctx, id, s)
	default:
		return entityType.Validate()
	}
}
