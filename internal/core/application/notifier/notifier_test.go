package notifier_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"fleet/internal/core/application/notifier"
	"fleet/internal/core/domain/model/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockListener struct {
	mock.Mock
}

func (m *mockListener) OnStatusChanged(ctx context.Context, event history.StatusChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newEvent() history.StatusChanged {
	return history.StatusChanged{
		EntityType:     "vehicle",
		EntityID:       "v-1",
		PreviousStatus: "available",
		NewStatus:      "in-shop",
	}
}

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func TestNotifier_PublishInOrder(t *testing.T) {
	n := notifier.New(slog.New(slog.DiscardHandler))
	ev := newEvent()
	var got []string
	var mu sync.Mutex
	record := func(name string) notifier.ListenerFunc {
		return func(_ context.Context, e history.StatusChanged) error {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, ev, e)
			got = append(got, name)
			return nil
		}
	}

	n.Subscribe("first", record("first"))
	n.Subscribe("second", record("second"))
	n.Subscribe("third", record("third"))

	n.Publish(t.Context(), ev)

	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestNotifier_FailingListenerIsIsolated(t *testing.T) {
	var buf bytes.Buffer
	n := notifier.New(newLogger(&buf))
	ev := newEvent()

	failing := &mockListener{}
	failing.On("OnStatusChanged", mock.Anything, ev).Return(errors.New("broker down")).Once()
	after := &mockListener{}
	after.On("OnStatusChanged", mock.Anything, ev).Return(nil).Once()

	n.Subscribe("mqtt", failing)
	n.Subscribe("metrics", after)

	assert.NotPanics(t, func() { n.Publish(t.Context(), ev) })

	failing.AssertExpectations(t)
	after.AssertExpectations(t)
	assert.Contains(t, buf.String(), "status listener failed")
	assert.Contains(t, buf.String(), "broker down")
	assert.Contains(t, buf.String(), `"listener":"mqtt"`)
}

func TestNotifier_PanickingListenerIsIsolated(t *testing.T) {
	var buf bytes.Buffer
	n := notifier.New(newLogger(&buf))
	called := false

	n.Subscribe("boom", notifier.ListenerFunc(func(context.Context, history.StatusChanged) error {
		panic("nil map write")
	}))
	n.Subscribe("next", notifier.ListenerFunc(func(context.Context, history.StatusChanged) error {
		called = true
		return nil
	}))

	require.NotPanics(t, func() { n.Publish(t.Context(), newEvent()) })

	assert.True(t, called)
	assert.Contains(t, buf.String(), "listener panicked: nil map write")
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := notifier.New(slog.New(slog.DiscardHandler))
	l := &mockListener{}
	other := &mockListener{}
	other.On("OnStatusChanged", mock.Anything, mock.Anything).Return(nil)

	unsubscribe := n.Subscribe("removed", l)
	n.Subscribe("kept", other)
	require.Equal(t, 2, n.Len())

	unsubscribe()
	unsubscribe()
	n.Publish(t.Context(), newEvent())

	assert.Equal(t, 1, n.Len())
	l.AssertNotCalled(t, "OnStatusChanged", mock.Anything, mock.Anything)
	other.AssertNumberOfCalls(t, "OnStatusChanged", 1)
}

func TestNotifier_SubscribeDuringPublish(t *testing.T) {
	n := notifier.New(slog.New(slog.DiscardHandler))
	lateCalls := 0

	n.Subscribe("registrar", notifier.ListenerFunc(func(context.Context, history.StatusChanged) error {
		n.Subscribe("late", notifier.ListenerFunc(func(context.Context, history.StatusChanged) error {
			lateCalls++
			return nil
		}))
		return nil
	}))

	n.Publish(t.Context(), newEvent())

	assert.Equal(t, 0, lateCalls, "listeners added during publish wait for the next event")
	assert.Equal(t, 2, n.Len())
}
