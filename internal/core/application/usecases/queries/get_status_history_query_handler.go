package queries

import (
	"context"

	"fleet/internal/core/application/entitystatus"
	"fleet/internal/core/ports"
)

type GetStatusHistoryQueryHandler struct {
	store   ports.EntityStore
	history ports.StatusHistoryRepository
}

func NewGetStatusHistoryQueryHandler(store ports.EntityStore, history ports.StatusHistoryRepository) GetStatusHistoryQueryHandler {
	return GetStatusHistoryQueryHandler{store: store, history: history}
}

// Handle checks the entity exists first, so an unknown id is
// errs.ObjectNotFoundError rather than an empty page.
func (h GetStatusHistoryQueryHandler) Handle(ctx context.Context, query GetStatusHistoryQuery) ([]StatusChangeResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if _, err := entitystatus.Read(ctx, h.store, query.EntityType(), query.EntityID()); err != nil {
		return nil, err
	}

	records, err := h.history.List(ctx, query.EntityType(), query.EntityID(), query.Limit(), query.Offset())
	if err != nil {
		return nil, err
	}

	return toStatusChangeResponses(records), nil
}
