package jobs_test

import (
	"errors"
	"testing"

	"fleet/internal/jobs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJob struct{ mock.Mock }

func (m *MockJob) Start() error {
	return m.Called().Error(0)
}

func (m *MockJob) Stop() {
	m.Called()
}

func TestJobManager_StartAllStopAll(t *testing.T) {
	first, second := &MockJob{}, &MockJob{}
	mock.InOrder(
		first.On("Start").Return(nil).Once(),
		second.On("Start").Return(nil).Once(),
		second.On("Stop").Once(),
		first.On("Stop").Once(),
	)
	manager := jobs.NewJobManager(first, second)

	require.NoError(t, manager.StartAll())
	manager.StopAll()

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestJobManager_StartAll_StopsStartedJobsOnFailure(t *testing.T) {
	first, second := &MockJob{}, &MockJob{}
	first.On("Start").Return(nil).Once()
	second.On("Start").Return(errors.New("bad schedule")).Once()
	first.On("Stop").Once()
	manager := jobs.NewJobManager(first, second)

	err := manager.StartAll()

	require.ErrorContains(t, err, "bad schedule")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
	second.AssertNotCalled(t, "Stop")
}
