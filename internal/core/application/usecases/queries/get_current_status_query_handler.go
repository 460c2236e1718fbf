package queries

import (
	"context"
	"errors"

	"fleet/internal/core/application/entitystatus"
	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

type GetCurrentStatusQueryHandler struct {
	store   ports.EntityStore
	history ports.StatusHistoryRepository
}

func NewGetCurrentStatusQueryHandler(store ports.EntityStore, history ports.StatusHistoryRepository) GetCurrentStatusQueryHandler {
	return GetCurrentStatusQueryHandler{store: store, history: history}
}

func (h GetCurrentStatusQueryHandler) Handle(
	ctx context.Context,
	query GetCurrentStatusQuery,
) (GetCurrentStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCurrentStatusQueryResponse{}, err
	}

	status, err := entitystatus.Read(ctx, h.store, query.EntityType(), query.EntityID())
	if err != nil {
		return GetCurrentStatusQueryResponse{}, err
	}

	res := GetCurrentStatusQueryResponse{
		EntityType: query.EntityType().String(),
		EntityID:   query.EntityID(),
		Status:     status,
	}

	latest, err := h.history.Latest(ctx, query.EntityType(), query.EntityID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return res, nil
	case err != nil:
		return GetCurrentStatusQueryResponse{}, err
	}

	last := toStatusChangeResponses([]*history.Record{latest})[0]
	res.LastChange = &last
	return res, nil
}
