// Package ports defines the contracts between the status engine and its storage.
// The engine only depends on these interfaces; adapters in internal/adapters/out
// implement them for Postgres, MongoDB and memory.
package ports

import (
	"context"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
)

// VehicleRepository defines the persistence contract for vehicle aggregates.
type VehicleRepository interface {
	// Add persists a newly registered vehicle.
	Add(ctx context.Context, aggregate *vehicle.Vehicle) error

	// Update persists every field of an existing vehicle.
	// Used by trip completion (status and odometer together) and maintenance.
	Update(ctx context.Context, aggregate *vehicle.Vehicle) error

	// UpdateStatus overwrites the status column only.
	// Returns errs.ObjectNotFoundError when the vehicle does not exist.
	UpdateStatus(ctx context.Context, id kernel.UUID, status vehicle.Status) error

	// Get loads a vehicle or returns errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error)

	// GetAll loads every vehicle. The consistency sweep walks this list.
	GetAll(ctx context.Context) ([]*vehicle.Vehicle, error)
}
