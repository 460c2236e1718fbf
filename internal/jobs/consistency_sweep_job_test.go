package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fleet/internal/adapters/out/memory"
	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/jobs"
	"fleet/internal/pkg/clock"
	"fleet/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)

type MockStatusCorrector struct{ mock.Mock }

func (m *MockStatusCorrector) Handle(ctx context.Context, cmd commands.CorrectStatusCommand) (commands.CorrectStatusResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.CorrectStatusResult), args.Error(1)
}

func record(t *testing.T, h *memory.HistoryRepository, entityType kernel.EntityType, id kernel.UUID, from, to string) {
	t.Helper()
	entry, err := history.NewEntry(entityType, id, from, to, "")
	require.NoError(t, err)
	_, err = h.Append(t.Context(), entry)
	require.NoError(t, err)
}

func TestConsistencySweepJob_Sweep(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	store := memory.NewEntityStore()
	h := memory.NewHistoryRepository(clock.NewFixed(now))
	corrector := commands.NewCorrectStatusCommandHandler(store, h, keylock.New(), nil, logger)

	drifted, err := vehicle.NewVehicle(kernel.NewUUID(), "VAN-042", 20000, 45000)
	require.NoError(t, err)
	require.NoError(t, store.VehicleRepository().Add(t.Context(), drifted))
	record(t, h, kernel.EntityTypeVehicle, drifted.ID(), "available", "in-shop")

	untouched, err := vehicle.NewVehicle(kernel.NewUUID(), "VAN-043", 20000, 0)
	require.NoError(t, err)
	require.NoError(t, store.VehicleRepository().Add(t.Context(), untouched))

	d, err := driver.NewDriver(kernel.NewUUID(), "Morgan", now.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, store.DriverRepository().Add(t.Context(), d))
	record(t, h, kernel.EntityTypeDriver, d.ID(), "off-duty", d.Status().String())

	tr, err := trip.NewTrip(kernel.NewUUID(), drifted.ID(), d.ID(), 100)
	require.NoError(t, err)
	require.NoError(t, store.TripRepository().Add(t.Context(), tr))

	job := jobs.NewConsistencySweepJob(store, corrector, "@every 5m", logger)

	report := job.Sweep(t.Context())

	assert.Equal(t, jobs.SweepReport{Checked: 4, Corrected: 1}, report)
	got, err := store.VehicleRepository().Get(t.Context(), drifted.ID())
	require.NoError(t, err)
	assert.Equal(t, vehicle.InShop, got.Status())

	assert.Equal(t, jobs.SweepReport{Checked: 4}, job.Sweep(t.Context()), "a second pass finds nothing")
}

func TestConsistencySweepJob_Sweep_CountsFailures(t *testing.T) {
	store := memory.NewEntityStore()
	v, err := vehicle.NewVehicle(kernel.NewUUID(), "VAN-042", 20000, 0)
	require.NoError(t, err)
	require.NoError(t, store.VehicleRepository().Add(t.Context(), v))
	d, err := driver.NewDriver(kernel.NewUUID(), "Morgan", now.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, store.DriverRepository().Add(t.Context(), d))

	corrector := &MockStatusCorrector{}
	corrector.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CorrectStatusCommand) bool {
		return cmd.EntityType() == kernel.EntityTypeVehicle
	})).Return(commands.CorrectStatusResult{}, errors.New("history unavailable")).Once()
	corrector.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CorrectStatusCommand) bool {
		return cmd.EntityType() == kernel.EntityTypeDriver
	})).Return(commands.CorrectStatusResult{Corrected: true}, nil).Once()

	report := jobs.NewConsistencySweepJob(store, corrector, "@every 5m", slog.New(slog.DiscardHandler)).Sweep(t.Context())

	corrector.AssertExpectations(t)
	assert.Equal(t, jobs.SweepReport{Checked: 2, Corrected: 1, Failed: 1}, report)
}

func TestConsistencySweepJob_Start_InvalidSchedule(t *testing.T) {
	job := jobs.NewConsistencySweepJob(memory.NewEntityStore(), &MockStatusCorrector{}, "not a schedule", slog.New(slog.DiscardHandler))

	require.Error(t, job.Start())
}
