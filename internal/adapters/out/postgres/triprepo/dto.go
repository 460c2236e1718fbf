// Package triprepo persists trip aggregates with GORM.
package triprepo

import (
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"

	"github.com/google/uuid"
)

// TripDTO is the row layout of the trips table. The vehicle and driver
// columns are indexed for the dispatched trip counts.
type TripDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleID     uuid.UUID `gorm:"type:uuid;not null;index:idx_trips_vehicle_status,priority:1"`
	DriverID      uuid.UUID `gorm:"type:uuid;not null;index:idx_trips_driver_status,priority:1"`
	Status        int       `gorm:"not null;index:idx_trips_vehicle_status,priority:2;index:idx_trips_driver_status,priority:2"`
	CargoWeight   float64   `gorm:"not null"`
	StartOdometer *float64
	EndOdometer   *float64
}

func (TripDTO) TableName() string {
	return "trips"
}

func fromDomain(t *trip.Trip) TripDTO {
	return TripDTO{
		ID:            t.ID().Bytes(),
		VehicleID:     t.VehicleID().Bytes(),
		DriverID:      t.DriverID().Bytes(),
		Status:        int(t.Status()),
		CargoWeight:   t.CargoWeight(),
		StartOdometer: t.StartOdometer(),
		EndOdometer:   t.EndOdometer(),
	}
}

func toDomain(dto TripDTO) (*trip.Trip, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vehicleID, err := kernel.UUIDFromBytes(dto.VehicleID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	return trip.RestoreTrip(
		id,
		vehicleID,
		driverID,
		trip.Status(dto.Status),
		dto.CargoWeight,
		dto.StartOdometer,
		dto.EndOdometer,
	)
}
