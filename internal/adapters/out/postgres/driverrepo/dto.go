// Package driverrepo persists driver aggregates with GORM.
package driverrepo

import (
	"time"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO is the row layout of the drivers table.
type DriverDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"not null"`
	Status         int       `gorm:"not null;index"`
	LicenseExpiry  time.Time `gorm:"not null"`
	TripsCompleted int       `gorm:"not null;default:0"`
	SafetyScore    int       `gorm:"not null"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:             d.ID().Bytes(),
		Name:           d.Name(),
		Status:         int(d.Status()),
		LicenseExpiry:  d.LicenseExpiry(),
		TripsCompleted: d.TripsCompleted(),
		SafetyScore:    d.SafetyScore(),
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(
		id,
		dto.Name,
		driver.Status(dto.Status),
		dto.LicenseExpiry.UTC(),
		dto.TripsCompleted,
		dto.SafetyScore,
	)
}
