package queries

import (
	"context"
	"time"

	"fleet/internal/core/ports"
)

type GetRecentStatusChangesQueryHandler struct {
	history ports.StatusHistoryRepository
	clock   ports.Clock
}

func NewGetRecentStatusChangesQueryHandler(history ports.StatusHistoryRepository, clock ports.Clock) GetRecentStatusChangesQueryHandler {
	return GetRecentStatusChangesQueryHandler{history: history, clock: clock}
}

func (h GetRecentStatusChangesQueryHandler) Handle(
	ctx context.Context,
	query GetRecentStatusChangesQuery,
) ([]StatusChangeResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	since := h.clock.Now().Add(-time.Duration(query.Minutes()) * time.Minute)

	records, err := h.history.Recent(ctx, query.EntityType(), since, query.Limit())
	if err != nil {
		return nil, err
	}

	return toStatusChangeResponses(records), nil
}
