package keylock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fleet/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLock_SerializesSameKey(t *testing.T) {
	l := keylock.New()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(t.Context(), "vehicle:1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.Len())
}

func TestKeyLock_DifferentKeysDoNotBlock(t *testing.T) {
	l := keylock.New()

	unlockA, err := l.Lock(t.Context(), "vehicle:a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, "vehicle:b")
	require.NoError(t, err)
	unlockB()
}

func TestKeyLock_ContextCancelled(t *testing.T) {
	l := keylock.New()
	unlock, err := l.Lock(t.Context(), "trip:1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "trip:1")

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, l.Len())

	unlock()
	assert.Equal(t, 0, l.Len())
}

func TestKeyLock_UnlockIsIdempotent(t *testing.T) {
	l := keylock.New()
	unlock, err := l.Lock(t.Context(), "driver:1")
	require.NoError(t, err)

	unlock()
	unlock()

	again, err := l.Lock(t.Context(), "driver:1")
	require.NoError(t, err)
	again()
}

func TestKeyLock_LockAll(t *testing.T) {
	t.Run("locks every key and skips duplicates", func(t *testing.T) {
		l := keylock.New()

		release, err := l.LockAll(t.Context(), "trip:1", "vehicle:1", "driver:1", "vehicle:1")
		require.NoError(t, err)
		assert.Equal(t, 3, l.Len())

		release()
		assert.Equal(t, 0, l.Len())
	})

	t.Run("releases what it took when a later key times out", func(t *testing.T) {
		l := keylock.New()
		holdDriver, err := l.Lock(t.Context(), "driver:1")
		require.NoError(t, err)
		defer holdDriver()

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()
		_, err = l.LockAll(ctx, "trip:1", "vehicle:1", "driver:1")
		require.Error(t, err)

		unlockTrip, err := l.Lock(t.Context(), "trip:1")
		require.NoError(t, err)
		unlockTrip()
	})

	t.Run("same order from many goroutines does not deadlock", func(t *testing.T) {
		l := keylock.New()
		var wg sync.WaitGroup
		ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
		defer cancel()

		for i := range 30 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				trip := "trip:a"
				if i%2 == 0 {
					trip = "trip:b"
				}
				release, err := l.LockAll(ctx, trip, "vehicle:shared", "driver:shared")
				if assert.NoError(t, err) {
					release()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 0, l.Len())
	})
}
