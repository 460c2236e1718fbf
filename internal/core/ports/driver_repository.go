package ports

import (
	"context"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists every field, including the completed trip counter.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// UpdateStatus overwrites the status column only.
	UpdateStatus(ctx context.Context, id kernel.UUID, status driver.Status) error

	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	GetAll(ctx context.Context) ([]*driver.Driver, error)
}
