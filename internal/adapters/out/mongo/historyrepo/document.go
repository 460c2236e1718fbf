// Package historyrepo is the MongoDB implementation of the status history log.
package historyrepo

import (
	"time"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
)

// statusChangeDocument is one document of the status_changes collection.
// Identifiers are stored in their string form.
type statusChangeDocument struct {
	ID             string    `bson:"_id"`
	Sequence       int64     `bson:"sequence"`
	EntityType     string    `bson:"entity_type"`
	EntityID       string    `bson:"entity_id"`
	PreviousStatus string    `bson:"previous_status"`
	NewStatus      string    `bson:"new_status"`
	Reason         *string   `bson:"reason"`
	CreatedAt      time.Time `bson:"created_at"`
}

type counterDocument struct {
	ID    string `bson:"_id"`
	Value int64  `bson:"value"`
}

func fromEntry(id kernel.UUID, sequence int64, entry history.Entry, createdAt time.Time) statusChangeDocument {
	return statusChangeDocument{
		ID:             id.String(),
		Sequence:       sequence,
		EntityType:     entry.EntityType.String(),
		EntityID:       entry.EntityID.String(),
		PreviousStatus: entry.PreviousStatus,
		NewStatus:      entry.NewStatus,
		Reason:         entry.Reason,
		CreatedAt:      createdAt,
	}
}

func toDomain(doc statusChangeDocument) (*history.Record, error) {
	id, err := kernel.UUIDFromString(doc.ID)
	if err != nil {
		return nil, err
	}

	entityType, err := kernel.ParseEntityType(doc.EntityType)
	if err != nil {
		return nil, err
	}

	entityID, err := kernel.UUIDFromString(doc.EntityID)
	if err != nil {
		return nil, err
	}

	return history.NewRecord(id, doc.Sequence, history.Entry{
		EntityType:     entityType,
		EntityID:       entityID,
		PreviousStatus: doc.PreviousStatus,
		NewStatus:      doc.NewStatus,
		Reason:         doc.Reason,
	}, doc.CreatedAt)
}
