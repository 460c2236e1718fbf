// Package keylock serializes work per string key.
//
// Each key owns a mutex that exists only while someone holds or waits for it,
// so the table does not grow with the number of entities ever touched.
package keylock

import (
	"context"
	"slices"
	"sync"
)

type entry struct {
	// sem is a one slot semaphore; a channel lets Lock honour ctx.
	sem  chan struct{}
	refs int
}

// KeyLock is a set of mutexes addressed by key. The zero value is not usable; call New.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New returns an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{entries: make(map[string]*entry)}
}

// Lock blocks until key is free or ctx is done. On success the returned
// function releases the key and must be called exactly once.
func (l *KeyLock) Lock(ctx context.Context, key string) (func(), error) {
	e := l.acquireRef(key)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseRef(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.releaseRef(key, e)
		})
	}, nil
}

// LockAll takes every key in the order given and returns one function
// that releases them in reverse. Duplicate keys are locked once.
// Callers that lock overlapping key sets must pass them in the same order.
func (l *KeyLock) LockAll(ctx context.Context, keys ...string) (func(), error) {
	unlocks := make([]func(), 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	release := func() {
		for _, unlock := range slices.Backward(unlocks) {
			unlock()
		}
	}

	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		unlock, err := l.Lock(ctx, key)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

// Len reports how many keys are currently held or awaited.
func (l *KeyLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *KeyLock) acquireRef(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *KeyLock) releaseRef(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
