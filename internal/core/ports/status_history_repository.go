package ports

import (
	"context"
	"time"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
)

// StatusHistoryRepository is the append-only history log.
//
// Records are never updated. The only deletion is PurgeOlderThan, which is a
// retention operation and not part of normal status handling.
type StatusHistoryRepository interface {
	// Append stores the entry and returns the record with its assigned id,
	// sequence and creation time.
	Append(ctx context.Context, entry history.Entry) (*history.Record, error)

	// Latest returns the newest record of the entity, or errs.ObjectNotFoundError
	// when the entity has no history.
	Latest(ctx context.Context, entityType kernel.EntityType, entityID kernel.UUID) (*history.Record, error)

	// Query returns the entity's records created within [from, to], oldest first.
	Query(
		ctx context.Context,
		entityType kernel.EntityType,
		entityID kernel.UUID,
		from, to time.Time,
	) ([]*history.Record, error)

	// List pages through the entity's records, newest first.
	List(
		ctx context.Context,
		entityType kernel.EntityType,
		entityID kernel.UUID,
		limit, offset int,
	) ([]*history.Record, error)

	// Recent returns records of any entity of the given type created at or
	// after since, newest first, at most limit of them.
	Recent(ctx context.Context, entityType kernel.EntityType, since time.Time, limit int) ([]*history.Record, error)

	// PurgeOlderThan deletes records created before cutoff and reports how many went.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
