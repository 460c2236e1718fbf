package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// HistoryRepository is an in-memory append-only history log.
// Records are kept in append order, which is also sequence order.
type HistoryRepository struct {
	clock ports.Clock

	mu      sync.RWMutex
	seq     int64
	records []*history.Record
}

var _ ports.StatusHistoryRepository = (*HistoryRepository)(nil)

func NewHistoryRepository(clock ports.Clock) *HistoryRepository {
	return &HistoryRepository{clock: clock}
}

func (r *HistoryRepository) Append(_ context.Context, entry history.Entry) (*history.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := history.NewRecord(kernel.NewUUID(), r.seq+1, entry, r.clock.Now())
	if err != nil {
		return nil, err
	}
	r.seq++
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *HistoryRepository) Latest(_ context.Context, entityType kernel.EntityType, entityID kernel.UUID) (*history.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *history.Record
	for _, rec := range r.records {
		if !belongsTo(rec, entityType, entityID) {
			continue
		}
		if latest == nil || latest.Before(rec) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, errs.NewObjectNotFoundError("history of "+entityType.String(), entityID.String())
	}
	return latest, nil
}

func (r *HistoryRepository) Query(
	_ context.Context,
	entityType kernel.EntityType,
	entityID kernel.UUID,
	from, to time.Time,
) ([]*history.Record, error) {
	out := r.filter(func(rec *history.Record) bool {
		return belongsTo(rec, entityType, entityID) &&
			!rec.CreatedAt().Before(from) && !rec.CreatedAt().After(to)
	})
	sortAscending(out)
	return out, nil
}

func (r *HistoryRepository) List(
	_ context.Context,
	entityType kernel.EntityType,
	entityID kernel.UUID,
	limit, offset int,
) ([]*history.Record, error) {
	out := r.filter(func(rec *history.Record) bool {
		return belongsTo(rec, entityType, entityID)
	})
	sortAscending(out)
	slices.Reverse(out)
	return page(out, limit, offset), nil
}

func (r *HistoryRepository) Recent(
	_ context.Context,
	entityType kernel.EntityType,
	since time.Time,
	limit int,
) ([]*history.Record, error) {
	out := r.filter(func(rec *history.Record) bool {
		return rec.EntityType() == entityType && !rec.CreatedAt().Before(since)
	})
	sortAscending(out)
	slices.Reverse(out)
	return page(out, limit, 0), nil
}

func (r *HistoryRepository) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.records)
	r.records = slices.DeleteFunc(r.records, func(rec *history.Record) bool {
		return rec.CreatedAt().Before(cutoff)
	})
	return int64(before - len(r.records)), nil
}

func (r *HistoryRepository) filter(keep func(*history.Record) bool) []*history.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*history.Record
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func belongsTo(rec *history.Record, entityType kernel.EntityType, entityID kernel.UUID) bool {
	return rec.EntityType() == entityType && rec.EntityID().IsEqual(entityID)
}

func sortAscending(records []*history.Record) {
	slices.SortStableFunc(records, func(a, b *history.Record) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		default:
			return 0
		}
	})
}

func page(records []*history.Record, limit, offset int) []*history.Record {
	if offset >= len(records) {
		return []*history.Record{}
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
