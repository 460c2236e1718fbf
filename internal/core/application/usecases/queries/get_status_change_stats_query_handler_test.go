package queries_test

import (
	"testing"
	"time"

	"fleet/internal/core/application/usecases/queries"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatusChangeStatsQueryHandler_Handle(t *testing.T) {
	f := newFixture()
	v := f.addVehicle(t)

	// available -> on-trip (3h) -> available (1h) -> on-trip (1h) -> available (open)
	f.moveVehicle(t, v.ID(), vehicle.Available, vehicle.OnTrip)
	f.clock.Advance(3 * time.Hour)
	f.moveVehicle(t, v.ID(), vehicle.OnTrip, vehicle.Available)
	f.clock.Advance(time.Hour)
	f.moveVehicle(t, v.ID(), vehicle.Available, vehicle.OnTrip)
	f.clock.Advance(time.Hour)
	f.moveVehicle(t, v.ID(), vehicle.OnTrip, vehicle.Available)

	handler := queries.NewGetStatusChangeStatsQueryHandler(f.history)

	t.Run("whole window", func(t *testing.T) {
		query, err := queries.NewGetStatusChangeStatsQuery(kernel.EntityTypeVehicle, v.ID(), now, now.Add(24*time.Hour))
		require.NoError(t, err)

		got, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, 4, got.TotalChanges)
		assert.Equal(t, []string{"on-trip", "available"}, got.UniqueStatuses)

		onTrip := got.Breakdown["on-trip"]
		assert.Equal(t, 2, onTrip.Entries)
		assert.Equal(t, 2, onTrip.TimedStays)
		assert.Equal(t, 4*time.Hour, onTrip.TotalDuration)
		assert.Equal(t, 2*time.Hour, onTrip.AverageDuration)

		available := got.Breakdown["available"]
		assert.Equal(t, 2, available.Entries)
		assert.Equal(t, 1, available.TimedStays, "the last stay is still open")
		assert.Equal(t, time.Hour, available.TotalDuration)
		assert.Equal(t, time.Hour, available.AverageDuration)
	})

	t.Run("narrow window", func(t *testing.T) {
		query, err := queries.NewGetStatusChangeStatsQuery(kernel.EntityTypeVehicle, v.ID(), now.Add(time.Hour), now.Add(4*time.Hour))
		require.NoError(t, err)

		got, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, 2, got.TotalChanges)
		assert.Equal(t, []string{"available", "on-trip"}, got.UniqueStatuses)
		assert.Equal(t, time.Hour, got.Breakdown["available"].TotalDuration)
		assert.Zero(t, got.Breakdown["on-trip"].TimedStays)
		assert.Zero(t, got.Breakdown["on-trip"].AverageDuration)
	})

	t.Run("no history", func(t *testing.T) {
		query, err := queries.NewGetStatusChangeStatsQuery(kernel.EntityTypeDriver, kernel.NewUUID(), now, now)
		require.NoError(t, err)

		got, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Zero(t, got.TotalChanges)
		assert.Empty(t, got.UniqueStatuses)
		assert.Empty(t, got.Breakdown)
	})

	t.Run("zero value query", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), queries.GetStatusChangeStatsQuery{})

		require.ErrorIs(t, err, queries.ErrGetStatusChangeStatsQueryIsNotConstructed)
	})
}

func TestNewGetStatusChangeStatsQuery(t *testing.T) {
	id := kernel.NewUUID()

	_, err := queries.NewGetStatusChangeStatsQuery(kernel.EntityTypeVehicle, id, time.Time{}, now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetStatusChangeStatsQuery(kernel.EntityTypeVehicle, id, now, time.Time{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = queries.NewGetStatusChangeStatsQuery(kernel.EntityTypeVehicle, id, now, now.Add(-time.Second))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	local := time.FixedZone("UTC+3", 3*60*60)
	query, err := queries.NewGetStatusChangeStatsQuery(kernel.EntityTypeVehicle, id, now.In(local), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, query.From().Location())
	assert.True(t, query.From().Equal(now))
}
