// Package queries contains read operations over live status and status history.
// Queries never change state; the consistency check is here for that reason
// even though it takes the entity lock.
package queries

import (
	"context"
	"time"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
)

// Locker is the per-entity lock shared with the command handlers.
type Locker interface {
	LockAll(ctx context.Context, keys ...string) (func(), error)
}

// StatusChangeResponse is the read model of one history record.
type StatusChangeResponse struct {
	ID             kernel.UUID
	EntityType     string
	EntityID       kernel.UUID
	PreviousStatus string
	NewStatus      string
	Reason         *string
	CreatedAt      time.Time
}

func toStatusChangeResponses(records []*history.Record) []StatusChangeResponse {
	out := make([]StatusChangeResponse, 0, len(records))
	for _, r := range records {
		out = append(out, StatusChangeResponse{
			ID:             r.ID(),
			EntityType:     r.EntityType().String(),
			EntityID:       r.EntityID(),
			PreviousStatus: r.PreviousStatus(),
			NewStatus:      r.NewStatus(),
			Reason:         r.Reason(),
			CreatedAt:      r.CreatedAt(),
		})
	}
	return out
}
