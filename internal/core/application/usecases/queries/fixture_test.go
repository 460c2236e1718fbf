package queries_test

import (
	"testing"
	"time"

	"fleet/internal/adapters/out/memory"
	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/clock"
	"fleet/internal/pkg/keylock"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.EntityStore
	history *memory.HistoryRepository
	clock   *clock.Fixed
	locks   *keylock.KeyLock
}

func newFixture() *fixture {
	c := clock.NewFixed(now)
	return &fixture{
		store:   memory.NewEntityStore(),
		history: memory.NewHistoryRepository(c),
		clock:   c,
		locks:   keylock.New(),
	}
}

func (f *fixture) addVehicle(t *testing.T) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(kernel.NewUUID(), "VAN-042", 20000, 45000)
	require.NoError(t, err)
	require.NoError(t, f.store.VehicleRepository().Add(t.Context(), v))
	return v
}

func (f *fixture) addDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), "Morgan", now.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, f.store.DriverRepository().Add(t.Context(), d))
	return d
}

// moveVehicle sets the live status and records it, as the engine would.
func (f *fixture) moveVehicle(t *testing.T, id kernel.UUID, from, to vehicle.Status) *history.Record {
	t.Helper()
	require.NoError(t, f.store.VehicleRepository().UpdateStatus(t.Context(), id, to))
	return f.record(t, kernel.EntityTypeVehicle, id, from.String(), to.String())
}

func (f *fixture) record(t *testing.T, entityType kernel.EntityType, id kernel.UUID, from, to string) *history.Record {
	t.Helper()
	entry, err := history.NewEntry(entityType, id, from, to, "")
	require.NoError(t, err)
	rec, err := f.history.Append(t.Context(), entry)
	require.NoError(t, err)
	return rec
}
