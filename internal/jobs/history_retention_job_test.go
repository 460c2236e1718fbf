package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fleet/internal/adapters/out/memory"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/ports"
	"fleet/internal/jobs"
	"fleet/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPurgeObserver struct{ mock.Mock }

func (m *MockPurgeObserver) ObservePurge(n int64) {
	m.Called(n)
}

type failingPurge struct {
	ports.StatusHistoryRepository
}

func (failingPurge) PurgeOlderThan(context.Context, time.Time) (int64, error) {
	return 0, errors.New("history unavailable")
}

func TestHistoryRetentionJob_Purge(t *testing.T) {
	c := clock.NewFixed(now)
	h := memory.NewHistoryRepository(c)
	id := kernel.NewUUID()
	record(t, h, kernel.EntityTypeVehicle, id, "available", "in-shop")
	record(t, h, kernel.EntityTypeVehicle, id, "in-shop", "available")
	c.Advance(100 * 24 * time.Hour)
	record(t, h, kernel.EntityTypeVehicle, id, "available", "on-trip")

	observer := &MockPurgeObserver{}
	observer.On("ObservePurge", int64(2)).Once()
	job := jobs.NewHistoryRetentionJob(h, c, 90*24*time.Hour, observer, "0 0 3 * * *", slog.New(slog.DiscardHandler))

	n, err := job.Purge(t.Context())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	observer.AssertExpectations(t)
	latest, err := h.Latest(t.Context(), kernel.EntityTypeVehicle, id)
	require.NoError(t, err)
	assert.Equal(t, "on-trip", latest.NewStatus())
}

func TestHistoryRetentionJob_Purge_Failure(t *testing.T) {
	observer := &MockPurgeObserver{}
	job := jobs.NewHistoryRetentionJob(failingPurge{}, clock.NewFixed(now), time.Hour, observer, "0 0 3 * * *", slog.New(slog.DiscardHandler))

	_, err := job.Purge(t.Context())

	require.Error(t, err)
	observer.AssertNotCalled(t, "ObservePurge", mock.Anything)
}

func TestHistoryRetentionJob_Purge_WithoutObserver(t *testing.T) {
	c := clock.NewFixed(now)
	job := jobs.NewHistoryRetentionJob(memory.NewHistoryRepository(c), c, time.Hour, nil, "0 0 3 * * *", slog.New(slog.DiscardHandler))

	n, err := job.Purge(t.Context())

	require.NoError(t, err)
	assert.Zero(t, n)
}
