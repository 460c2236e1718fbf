package history

import (
	"time"
)

// StatusChanged is published after a status change was recorded.
// It is a plain value so listeners can serialize it directly.
type StatusChanged struct {
	RecordID       string    `json:"recordId"`
	EntityType     string    `json:"entityType"`
	EntityID       string    `json:"entityId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Reason         *string   `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewStatusChanged derives the event from the record it announces.
func NewStatusChanged(r *Record) StatusChanged {
	return StatusChanged{
		RecordID:       r.ID().String(),
		EntityType:     r.EntityType().String(),
		EntityID:       r.EntityID().String(),
		PreviousStatus: r.PreviousStatus(),
		NewStatus:      r.NewStatus(),
		Reason:         r.Reason(),
		Timestamp:      r.CreatedAt(),
	}
}
