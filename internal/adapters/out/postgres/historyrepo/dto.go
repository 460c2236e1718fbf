// Package historyrepo is the Postgres implementation of the status history log.
package historyrepo

import (
	"time"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// StatusChangeDTO is one row of status_changes. Rows are inserted once and
// only ever deleted by the retention purge.
//
// Sequence is a database sequence; it breaks ties between records created
// within the same millisecond.
type StatusChangeDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Sequence       int64     `gorm:"autoIncrement;not null;uniqueIndex"`
	EntityType     string    `gorm:"type:varchar(16);not null;index:idx_status_changes_entity,priority:1;index:idx_status_changes_type_time,priority:1"`
	EntityID       uuid.UUID `gorm:"type:uuid;not null;index:idx_status_changes_entity,priority:2"`
	PreviousStatus string    `gorm:"type:varchar(32);not null"`
	NewStatus      string    `gorm:"type:varchar(32);not null"`
	Reason         *string
	CreatedAt      time.Time `gorm:"not null;index:idx_status_changes_entity,priority:3;index:idx_status_changes_type_time,priority:2;index"`
}

func (StatusChangeDTO) TableName() string {
	return "status_changes"
}

func fromEntry(id kernel.UUID, entry history.Entry, createdAt time.Time) StatusChangeDTO {
	return StatusChangeDTO{
		ID:             id.Bytes(),
		EntityType:     entry.EntityType.String(),
		EntityID:       entry.EntityID.Bytes(),
		PreviousStatus: entry.PreviousStatus,
		NewStatus:      entry.NewStatus,
		Reason:         entry.Reason,
		CreatedAt:      createdAt,
	}
}

func toDomain(dto StatusChangeDTO) (*history.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	entityType, err := kernel.ParseEntityType(dto.EntityType)
	if err != nil {
		return nil, err
	}

	entityID, err := kernel.UUIDFromBytes(dto.EntityID[:])
	if err != nil {
		return nil, err
	}

	return history.NewRecord(id, dto.Sequence, history.Entry{
		EntityType:     entityType,
		EntityID:       entityID,
		PreviousStatus: dto.PreviousStatus,
		NewStatus:      dto.NewStatus,
		Reason:         dto.Reason,
	}, dto.CreatedAt)
}

func toDomainList(dtos []StatusChangeDTO) ([]*history.Record, error) {
	records := make([]*history.Record, 0, len(dtos))
	for _, dto := range dtos {
		r, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
