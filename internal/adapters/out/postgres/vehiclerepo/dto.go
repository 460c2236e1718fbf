// Package vehiclerepo persists vehicle aggregates with GORM.
package vehiclerepo

import (
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
)

// VehicleDTO is the row layout of the vehicles table. Status holds the
// integer enum value, so the table stays valid if wire names change.
type VehicleDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"not null"`
	Status          int       `gorm:"not null;index"`
	MaxCapacity     float64   `gorm:"not null"`
	Odometer        float64   `gorm:"not null"`
	LastMaintenance *time.Time
}

func (VehicleDTO) TableName() string {
	return "vehicles"
}

func fromDomain(v *vehicle.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:              v.ID().Bytes(),
		Name:            v.Name(),
		Status:          int(v.Status()),
		MaxCapacity:     v.MaxCapacity(),
		Odometer:        v.Odometer(),
		LastMaintenance: v.LastMaintenance(),
	}
}

func toDomain(dto VehicleDTO) (*vehicle.Vehicle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var lastMaintenance *time.Time
	if dto.LastMaintenance != nil {
		t := dto.LastMaintenance.UTC()
		lastMaintenance = &t
	}

	return vehicle.RestoreVehicle(
		id,
		dto.Name,
		vehicle.Status(dto.Status),
		dto.MaxCapacity,
		dto.Odometer,
		lastMaintenance,
	)
}
