package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fleet/internal/adapters/out/memory"
	"fleet/internal/core/application/notifier"
	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/clock"
	"fleet/internal/pkg/keylock"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	now = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)

	errStoreDown   = errors.New("store unavailable")
	errHistoryDown = errors.New("history unavailable")
)

// engine wires the handlers over in-memory adapters.
type engine struct {
	store     *memory.EntityStore
	history   *memory.HistoryRepository
	clock     *clock.Fixed
	locks     *keylock.KeyLock
	notifier  *notifier.Notifier
	validator services.TransitionValidator
	logger    *slog.Logger

	mu     sync.Mutex
	events []history.StatusChanged
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	c := clock.NewFixed(now)
	logger := slog.New(slog.DiscardHandler)
	e := &engine{
		store:     memory.NewEntityStore(),
		history:   memory.NewHistoryRepository(c),
		clock:     c,
		locks:     keylock.New(),
		notifier:  notifier.New(logger),
		validator: services.NewTransitionValidator(),
		logger:    logger,
	}
	e.notifier.Subscribe("test", notifier.ListenerFunc(func(_ context.Context, ev history.StatusChanged) error {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.events = append(e.events, ev)
		return nil
	}))
	return e
}

func (e *engine) recorder(h ports.StatusHistoryRepository) *commands.StatusRecorder {
	if h == nil {
		h = e.history
	}
	return commands.NewStatusRecorder(h, e.notifier, e.logger)
}

func (e *engine) vehicleHandler(store ports.EntityStore, h ports.StatusHistoryRepository) *commands.TransitionVehicleStatusCommandHandler {
	if store == nil {
		store = e.store
	}
	return commands.NewTransitionVehicleStatusCommandHandler(store, e.locks, e.recorder(h), e.validator, e.clock)
}

func (e *engine) driverHandler() *commands.TransitionDriverStatusCommandHandler {
	return commands.NewTransitionDriverStatusCommandHandler(e.store, e.locks, e.recorder(nil), e.validator)
}

func (e *engine) tripHandler() *commands.TransitionTripStatusCommandHandler {
	return commands.NewTransitionTripStatusCommandHandler(
		e.store, e.locks, e.recorder(nil), e.validator, e.dispatchHandler(nil, nil), e.cancelHandler(),
	)
}

func (e *engine) dispatchHandler(store ports.EntityStore, h ports.StatusHistoryRepository) *commands.DispatchTripCommandHandler {
	if store == nil {
		store = e.store
	}
	return commands.NewDispatchTripCommandHandler(store, e.locks, e.recorder(h), e.validator, e.clock, e.logger)
}

func (e *engine) completeHandler(store ports.EntityStore) *commands.CompleteTripCommandHandler {
	if store == nil {
		store = e.store
	}
	return commands.NewCompleteTripCommandHandler(store, e.locks, e.recorder(nil), e.validator, e.logger)
}

func (e *engine) cancelHandler() *commands.CancelTripCommandHandler {
	return commands.NewCancelTripCommandHandler(e.store, e.locks, e.recorder(nil), e.validator, e.logger)
}

func (e *engine) correctHandler(observer commands.CorrectionObserver) *commands.CorrectStatusCommandHandler {
	return commands.NewCorrectStatusCommandHandler(e.store, e.history, e.locks, observer, e.logger)
}

func (e *engine) addVehicle(t *testing.T, capacity, odometer float64) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(kernel.NewUUID(), "TRK-"+kernel.NewUUID().String()[:4], capacity, odometer)
	require.NoError(t, err)
	require.NoError(t, e.store.VehicleRepository().Add(t.Context(), v))
	return v
}

func (e *engine) addDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), "Morgan", now.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, e.store.DriverRepository().Add(t.Context(), d))
	return d
}

func (e *engine) addTrip(t *testing.T, v *vehicle.Vehicle, d *driver.Driver, cargo float64) *trip.Trip {
	t.Helper()
	tr, err := trip.NewTrip(kernel.NewUUID(), v.ID(), d.ID(), cargo)
	require.NoError(t, err)
	require.NoError(t, e.store.TripRepository().Add(t.Context(), tr))
	return tr
}

// addDispatchedTrip seeds an available 20t vehicle at 45000 km, an on-duty
// driver and dispatches a trip between them.
func (e *engine) addDispatchedTrip(t *testing.T) (*vehicle.Vehicle, *driver.Driver, *trip.Trip) {
	t.Helper()
	v := e.addVehicle(t, 20000, 45000)
	d := e.addDriver(t)
	tr := e.addTrip(t, v, d, 18000)

	cmd, err := commands.NewDispatchTripCommand(tr.ID())
	require.NoError(t, err)
	_, err = e.dispatchHandler(nil, nil).Handle(t.Context(), cmd)
	require.NoError(t, err)
	return v, d, tr
}

func (e *engine) vehicle(t *testing.T, id kernel.UUID) *vehicle.Vehicle {
	t.Helper()
	v, err := e.store.VehicleRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return v
}

func (e *engine) driver(t *testing.T, id kernel.UUID) *driver.Driver {
	t.Helper()
	d, err := e.store.DriverRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return d
}

func (e *engine) trip(t *testing.T, id kernel.UUID) *trip.Trip {
	t.Helper()
	tr, err := e.store.TripRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return tr
}

// records returns the entity's history, newest first.
func (e *engine) records(t *testing.T, entityType kernel.EntityType, id kernel.UUID) []*history.Record {
	t.Helper()
	recs, err := e.history.List(t.Context(), entityType, id, 0, 0)
	require.NoError(t, err)
	return recs
}

func (e *engine) publishedEvents() []history.StatusChanged {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]history.StatusChanged(nil), e.events...)
}

// faultyStore swaps individual repositories of the memory store.
type faultyStore struct {
	*memory.EntityStore
	vehicles ports.VehicleRepository
	drivers  ports.DriverRepository
	trips    ports.TripRepository
}

func (s faultyStore) VehicleRepository() ports.VehicleRepository {
	if s.vehicles != nil {
		return s.vehicles
	}
	return s.EntityStore.VehicleRepository()
}

func (s faultyStore) DriverRepository() ports.DriverRepository {
	if s.drivers != nil {
		return s.drivers
	}
	return s.EntityStore.DriverRepository()
}

func (s faultyStore) TripRepository() ports.TripRepository {
	if s.trips != nil {
		return s.trips
	}
	return s.EntityStore.TripRepository()
}

// faultyVehicles fails UpdateStatus towards one status and every Update when failUpdate is set.
type faultyVehicles struct {
	ports.VehicleRepository
	failStatus vehicle.Status
	failUpdate bool
}

func (r faultyVehicles) UpdateStatus(ctx context.Context, id kernel.UUID, s vehicle.Status) error {
	if s == r.failStatus {
		return errStoreDown
	}
	return r.VehicleRepository.UpdateStatus(ctx, id, s)
}

func (r faultyVehicles) Update(ctx context.Context, v *vehicle.Vehicle) error {
	if r.failUpdate {
		return errStoreDown
	}
	return r.VehicleRepository.Update(ctx, v)
}

type faultyDrivers struct {
	ports.DriverRepository
	failStatus driver.Status
}

func (r faultyDrivers) UpdateStatus(ctx context.Context, id kernel.UUID, s driver.Status) error {
	if s == r.failStatus {
		return errStoreDown
	}
	return r.DriverRepository.UpdateStatus(ctx, id, s)
}

type faultyTrips struct {
	ports.TripRepository
}

func (r faultyTrips) Update(context.Context, *trip.Trip) error {
	return errStoreDown
}

// flakyHistory refuses to append records of one entity type.
type flakyHistory struct {
	ports.StatusHistoryRepository
	failFor kernel.EntityType
}

func (h flakyHistory) Append(ctx context.Context, entry history.Entry) (*history.Record, error) {
	if entry.EntityType == h.failFor {
		return nil, errHistoryDown
	}
	return h.StatusHistoryRepository.Append(ctx, entry)
}

type MockCorrectionObserver struct{ mock.Mock }

func (m *MockCorrectionObserver) ObserveCorrection(entityType, from, to string) {
	m.Called(entityType, from, to)
}
