// Package commands contains business operations that change entity status.
// Every command follows the same pattern: constructor validation, entity
// locking, rule validation, persistence, history recording and notification.
package commands

import (
	"context"

	"fleet/internal/core/domain/model/history"
)

// Collaborators shared by the command handlers. The entity store itself is
// ports.EntityStore; these cover the engine-side concerns around it.
type (
	// Locker serializes operations per entity key (see kernel.EntityType.LockKey).
	// LockAll acquires the keys in the given order and the returned function
	// releases them in reverse.
	//
	// Example:
	//   unlock, err := locker.LockAll(ctx, kernel.EntityTypeVehicle.LockKey(id))
	//   if err != nil {
	//       return err
	//   }
	//   defer unlock()
	Locker interface {
		LockAll(ctx context.Context, keys ...string) (func(), error)
	}

	// EventPublisher delivers status change events to listeners.
	// Implementations must not fail the caller.
	EventPublisher interface {
		Publish(ctx context.Context, event history.StatusChanged)
	}

	// CorrectionObserver is told about every drift correction. Optional.
	CorrectionObserver interface {
		ObserveCorrection(entityType, from, to string)
	}
)
