// Package memory keeps entities and history in process memory. It backs
// tests and the single-node demo mode; nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

type vehicleRow struct {
	name            string
	status          vehicle.Status
	maxCapacity     float64
	odometer        float64
	lastMaintenance *time.Time
}

type driverRow struct {
	name           string
	status         driver.Status
	licenseExpiry  time.Time
	tripsCompleted int
	safetyScore    int
}

type tripRow struct {
	vehicleID     kernel.UUID
	driverID      kernel.UUID
	status        trip.Status
	cargoWeight   float64
	startOdometer *float64
	endOdometer   *float64
}

// EntityStore holds rows rather than aggregates, so callers never share
// state with the store through a returned pointer.
type EntityStore struct {
	mu       sync.RWMutex
	vehicles map[kernel.UUID]vehicleRow
	drivers  map[kernel.UUID]driverRow
	trips    map[kernel.UUID]tripRow
}

var _ ports.EntityStore = (*EntityStore)(nil)

func NewEntityStore() *EntityStore {
	return &EntityStore{
		vehicles: make(map[kernel.UUID]vehicleRow),
		drivers:  make(map[kernel.UUID]driverRow),
		trips:    make(map[kernel.UUID]tripRow),
	}
}

func (s *EntityStore) VehicleRepository() ports.VehicleRepository {
	return (*vehicleRepository)(s)
}

func (s *EntityStore) DriverRepository() ports.DriverRepository {
	return (*driverRepository)(s)
}

func (s *EntityStore) TripRepository() ports.TripRepository {
	return (*tripRepository)(s)
}

type vehicleRepository EntityStore

func (r *vehicleRepository) Add(_ context.Context, v *vehicle.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles[v.ID()] = vehicleRowOf(v)
	return nil
}

func (r *vehicleRepository) Update(_ context.Context, v *vehicle.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[v.ID()]; !ok {
		return errs.NewObjectNotFoundError("vehicle", v.ID().String())
	}
	r.vehicles[v.ID()] = vehicleRowOf(v)
	return nil
}

func (r *vehicleRepository) UpdateStatus(_ context.Context, id kernel.UUID, status vehicle.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.vehicles[id]
	if !ok {
		return errs.NewObjectNotFoundError("vehicle", id.String())
	}
	row.status = status
	r.vehicles[id] = row
	return nil
}

func (r *vehicleRepository) Get(_ context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	r.mu.RLock()
	row, ok := r.vehicles[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("vehicle", id.String())
	}
	return row.restore(id)
}

func (r *vehicleRepository) GetAll(_ context.Context) ([]*vehicle.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*vehicle.Vehicle, 0, len(r.vehicles))
	for id, row := range r.vehicles {
		v, err := row.restore(id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func vehicleRowOf(v *vehicle.Vehicle) vehicleRow {
	return vehicleRow{
		name:            v.Name(),
		status:          v.Status(),
		maxCapacity:     v.MaxCapacity(),
		odometer:        v.Odometer(),
		lastMaintenance: v.LastMaintenance(),
	}
}

func (row vehicleRow) restore(id kernel.UUID) (*vehicle.Vehicle, error) {
	return vehicle.RestoreVehicle(id, row.name, row.status, row.maxCapacity, row.odometer, row.lastMaintenance)
}

type driverRepository EntityStore

func (r *driverRepository) Add(_ context.Context, d *driver.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[d.ID()] = driverRowOf(d)
	return nil
}

func (r *driverRepository) Update(_ context.Context, d *driver.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[d.ID()]; !ok {
		return errs.NewObjectNotFoundError("driver", d.ID().String())
	}
	r.drivers[d.ID()] = driverRowOf(d)
	return nil
}

func (r *driverRepository) UpdateStatus(_ context.Context, id kernel.UUID, status driver.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.drivers[id]
	if !ok {
		return errs.NewObjectNotFoundError("driver", id.String())
	}
	row.status = status
	r.drivers[id] = row
	return nil
}

func (r *driverRepository) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	r.mu.RLock()
	row, ok := r.drivers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id.String())
	}
	return row.restore(id)
}

func (r *driverRepository) GetAll(_ context.Context) ([]*driver.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*driver.Driver, 0, len(r.drivers))
	for id, row := range r.drivers {
		d, err := row.restore(id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func driverRowOf(d *driver.Driver) driverRow {
	return driverRow{
		name:           d.Name(),
		status:         d.Status(),
		licenseExpiry:  d.LicenseExpiry(),
		tripsCompleted: d.TripsCompleted(),
		safetyScore:    d.SafetyScore(),
	}
}

func (row driverRow) restore(id kernel.UUID) (*driver.Driver, error) {
	return driver.RestoreDriver(id, row.name, row.status, row.licenseExpiry, row.tripsCompleted, row.safetyScore)
}

type tripRepository EntityStore

func (r *tripRepository) Add(_ context.Context, t *trip.Trip) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trips[t.ID()] = tripRowOf(t)
	return nil
}

func (r *tripRepository) Update(_ context.Context, t *trip.Trip) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trips[t.ID()]; !ok {
		return errs.NewObjectNotFoundError("trip", t.ID().String())
	}
	r.trips[t.ID()] = tripRowOf(t)
	return nil
}

func (r *tripRepository) UpdateStatus(_ context.Context, id kernel.UUID, status trip.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.trips[id]
	if !ok {
		return errs.NewObjectNotFoundError("trip", id.String())
	}
	row.status = status
	r.trips[id] = row
	return nil
}

func (r *tripRepository) Get(_ context.Context, id kernel.UUID) (*trip.Trip, error) {
	r.mu.RLock()
	row, ok := r.trips[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("trip", id.String())
	}
	return row.restore(id)
}

func (r *tripRepository) GetAll(_ context.Context) ([]*trip.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*trip.Trip, 0, len(r.trips))
	for id, row := range r.trips {
		t, err := row.restore(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *tripRepository) CountDispatchedByVehicle(_ context.Context, vehicleID kernel.UUID) (int64, error) {
	return r.countDispatched(func(row tripRow) bool { return row.vehicleID.IsEqual(vehicleID) }), nil
}

func (r *tripRepository) CountDispatchedByDriver(_ context.Context, driverID kernel.UUID) (int64, error) {
	return r.countDispatched(func(row tripRow) bool { return row.driverID.IsEqual(driverID) }), nil
}

func (r *tripRepository) countDispatched(match func(tripRow) bool) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, row := range r.trips {
		if row.status == trip.Dispatched && match(row) {
			n++
		}
	}
	return n
}

func tripRowOf(t *trip.Trip) tripRow {
	return tripRow{
		vehicleID:     t.VehicleID(),
		driverID:      t.DriverID(),
		status:        t.Status(),
		cargoWeight:   t.CargoWeight(),
		startOdometer: t.StartOdometer(),
		endOdometer:   t.EndOdometer(),
	}
}

func (row tripRow) restore(id kernel.UUID) (*trip.Trip, error) {
	return trip.RestoreTrip(id, row.vehicleID, row.driverID, row.status, row.cargoWeight, row.startOdometer, row.endOdometer)
}
