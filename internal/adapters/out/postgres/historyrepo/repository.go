package historyrepo

import (
	"context"
	"errors"
	"time"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"

	"gorm.io/gorm"
)

const (
	newestFirst = "created_at DESC, sequence DESC"
	oldestFirst = "created_at ASC, sequence ASC"
)

// GormHistoryRepository implements ports.StatusHistoryRepository on the
// status_changes table.
type GormHistoryRepository struct {
	db    *gorm.DB
	clock ports.Clock
}

var _ ports.StatusHistoryRepository = (*GormHistoryRepository)(nil)

func NewGormHistoryRepository(db *gorm.DB, clock ports.Clock) *GormHistoryRepository {
	return &GormHistoryRepository{db: db, clock: clock}
}

// Append inserts the entry. The database assigns the sequence and returns it.
func (r *GormHistoryRepository) Append(ctx context.Context, entry history.Entry) (*history.Record, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.clock.Now().UTC().Truncate(time.Millisecond)
	dto := fromEntry(kernel.NewUUID(), entry, createdAt)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormHistoryRepository) Latest(
	ctx context.Context,
	entityType kernel.EntityType,
	entityID kernel.UUID,
) (*history.Record, error) {
	if err := errors.Join(entityType.Validate(), entityID.Validate()); err != nil {
		return nil, err
	}

	var dto StatusChangeDTO
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType.String(), entityID.Bytes()).
		Order(newestFirst).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("history of "+entityType.String(), entityID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormHistoryRepository) Query(
	ctx context.Context,
	entityType kernel.EntityType,
	entityID kernel.UUID,
	from, to time.Time,
) ([]*history.Record, error) {
	if err := errors.Join(entityType.Validate(), entityID.Validate()); err != nil {
		return nil, err
	}

	var dtos []StatusChangeDTO
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType.String(), entityID.Bytes()).
		Where("created_at >= ? AND created_at <= ?", from.UTC(), to.UTC()).
		Order(oldestFirst).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// List pages newest first. A limit of zero returns everything after offset.
func (r *GormHistoryRepository) List(
	ctx context.Context,
	entityType kernel.EntityType,
	entityID kernel.UUID,
	limit, offset int,
) ([]*history.Record, error) {
	if err := errors.Join(entityType.Validate(), entityID.Validate()); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType.String(), entityID.Bytes()).
		Order(newestFirst).
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var dtos []StatusChangeDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormHistoryRepository) Recent(
	ctx context.Context,
	entityType kernel.EntityType,
	since time.Time,
	limit int,
) ([]*history.Record, error) {
	if err := entityType.Validate(); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).
		Where("entity_type = ? AND created_at >= ?", entityType.String(), since.UTC()).
		Order(newestFirst)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var dtos []StatusChangeDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormHistoryRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&StatusChangeDTO{})
	return result.RowsAffected, result.Error
}
