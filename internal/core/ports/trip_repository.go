package ports

import (
	"context"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
)

// TripRepository defines the persistence contract for trip aggregates.
type TripRepository interface {
	Add(ctx context.Context, aggregate *trip.Trip) error

	// Update persists every field, including odometer readings.
	Update(ctx context.Context, aggregate *trip.Trip) error

	// UpdateStatus overwrites the status column only.
	UpdateStatus(ctx context.Context, id kernel.UUID, status trip.Status) error

	Get(ctx context.Context, id kernel.UUID) (*trip.Trip, error)

	GetAll(ctx context.Context) ([]*trip.Trip, error)

	// CountDispatchedByVehicle counts Dispatched trips referencing the vehicle.
	CountDispatchedByVehicle(ctx context.Context, vehicleID kernel.UUID) (int64, error)

	// CountDispatchedByDriver counts Dispatched trips referencing the driver.
	CountDispatchedByDriver(ctx context.Context, driverID kernel.UUID) (int64, error)
}
