package queries

import (
	"context"
	"errors"

	"fleet/internal/core/application/entitystatus"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// CheckStatusConsistencyQueryHandler runs under the entity lock so it never
// observes the gap between a status mutation and its history append.
type CheckStatusConsistencyQueryHandler struct {
	store   ports.EntityStore
	history ports.StatusHistoryRepository
	locker  Locker
}

func NewCheckStatusConsistencyQueryHandler(
	store ports.EntityStore,
	history ports.StatusHistoryRepository,
	locker Locker,
) CheckStatusConsistencyQueryHandler {
	return CheckStatusConsistencyQueryHandler{
		store:   store,
		history: history,
		locker:  locker,
	}
}

// Handle returns errs.ObjectNotFoundError only when the entity itself is
// missing; missing history is a normal, consistent outcome.
func (h CheckStatusConsistencyQueryHandler) Handle(
	ctx context.Context,
	query CheckStatusConsistencyQuery,
) (CheckStatusConsistencyQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckStatusConsistencyQueryResponse{}, err
	}

	unlock, err := h.locker.LockAll(ctx, query.EntityType().LockKey(query.EntityID()))
	if err != nil {
		return CheckStatusConsistencyQueryResponse{}, err
	}
	defer unlock()

	actual, err := entitystatus.Read(ctx, h.store, query.EntityType(), query.EntityID())
	if err != nil {
		return CheckStatusConsistencyQueryResponse{}, err
	}

	res := CheckStatusConsistencyQueryResponse{
		EntityType:   query.EntityType().String(),
		EntityID:     query.EntityID(),
		IsConsistent: true,
		ActualStatus: actual,
	}

	latest, err := h.history.Latest(ctx, query.EntityType(), query.EntityID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return res, nil
	}
	if err != nil {
		return CheckStatusConsistencyQueryResponse{}, err
	}

	res.HasHistory = true
	res.ExpectedStatus = latest.NewStatus()
	res.IsConsistent = res.ExpectedStatus == actual
	return res, nil
}
