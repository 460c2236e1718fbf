package triprepo

import (
	"context"
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTripRepository implements ports.TripRepository using GORM.
type GormTripRepository struct {
	db *gorm.DB
}

var _ ports.TripRepository = (*GormTripRepository)(nil)

func NewGormTripRepository(db *gorm.DB) *GormTripRepository {
	return &GormTripRepository{db: db}
}

func (r *GormTripRepository) Add(ctx context.Context, aggregate *trip.Trip) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes every column. Select("*") is needed so a start odometer
// cleared by compensation is stored as NULL.
func (r *GormTripRepository) Update(ctx context.Context, aggregate *trip.Trip) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&TripDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("trip", aggregate.ID().String())
	}

	return nil
}

func (r *GormTripRepository) UpdateStatus(ctx context.Context, id kernel.UUID, status trip.Status) error {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&TripDTO{}).Where("id = ?", id.Bytes()).Update("status", int(status))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("trip", id.String())
	}

	return nil
}

func (r *GormTripRepository) Get(ctx context.Context, id kernel.UUID) (*trip.Trip, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TripDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trip", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormTripRepository) GetAll(ctx context.Context) ([]*trip.Trip, error) {
	var dtos []TripDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	trips := make([]*trip.Trip, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}

	return trips, nil
}

func (r *GormTripRepository) CountDispatchedByVehicle(ctx context.Context, vehicleID kernel.UUID) (int64, error) {
	return r.countDispatched(ctx, "vehicle_id", vehicleID)
}

func (r *GormTripRepository) CountDispatchedByDriver(ctx context.Context, driverID kernel.UUID) (int64, error) {
	return r.countDispatched(ctx, "driver_id", driverID)
}

func (r *GormTripRepository) countDispatched(ctx context.Context, column string, id kernel.UUID) (int64, error) {
	if err := id.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&TripDTO{}).
		Where(column+" = ? AND status = ?", id.Bytes(), int(trip.Dispatched)).
		Count(&count).Error
	return count, err
}
