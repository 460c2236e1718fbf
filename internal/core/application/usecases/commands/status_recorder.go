package commands

import (
	"context"
	"log/slog"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// StatusRecorder appends a history record for a status change that has
// already been applied to the entity store, then publishes the event.
//
// The live status is already mutated when Record runs, so an append failure
// cannot be rolled back here; it is reported as *errs.PartialFailureError
// and the consistency corrector is the way to repair it.
type StatusRecorder struct {
	history   ports.StatusHistoryRepository
	publisher EventPublisher
	logger    *slog.Logger
}

// NewStatusRecorder creates a recorder writing to history and announcing through publisher.
func NewStatusRecorder(history ports.StatusHistoryRepository, publisher EventPublisher, logger *slog.Logger) *StatusRecorder {
	return &StatusRecorder{
		history:   history,
		publisher: publisher,
		logger:    logger.With("component", "status-recorder"),
	}
}

// Record appends the change and publishes it.
//
// Parameters:
//   - entityType, entityID: the entity whose status changed
//   - previous, next: statuses in wire form
//   - reason: free text, blank means none
//
// Returns the stored record, or *errs.PartialFailureError with step "history".
func (r *StatusRecorder) Record(
	ctx context.Context,
	entityType kernel.EntityType,
	entityID kernel.UUID,
	previous, next, reason string,
) (rec *history.Record, err error) {
	entry, err := history.NewEntry(entityType, entityID, previous, next, reason)
	if err == nil {
		rec, err = r.history.Append(ctx, entry)
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "status changed but history append failed",
			"entityType", entityType.String(),
			"entityId", entityID.String(),
			"previousStatus", previous,
			"newStatus", next,
			"error", err)
		return nil, errs.NewPartialFailureError(entityType.String(), entityID.String(), "history", err)
	}

	r.publisher.Publish(ctx, history.NewStatusChanged(rec))
	return rec, nil
}
