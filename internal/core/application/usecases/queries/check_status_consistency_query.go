package queries

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var ErrCheckStatusConsistencyQueryIsNotConstructed = errors.New(
	"CheckStatusConsistencyQuery must be created via NewCheckStatusConsistencyQuery constructor",
)

// CheckStatusConsistencyQuery compares an entity's live status with its newest history record.
//
// Example:
//
//	query, err := NewCheckStatusConsistencyQuery(kernel.EntityTypeVehicle, vehicleID)
//	if err != nil {
//	    return err
//	}
//	res, err := handler.Handle(ctx, query)
//	if err == nil && !res.IsConsistent {
//	    log.Printf("vehicle is %s, history says %s", res.ActualStatus, res.ExpectedStatus)
//	}
type CheckStatusConsistencyQuery struct {
	entityType kernel.EntityType
	entityID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewCheckStatusConsistencyQuery(entityType kernel.EntityType, entityID kernel.UUID) (CheckStatusConsistencyQuery, error) {
	if err := errors.Join(entityType.Validate(), entityID.Validate()); err != nil {
		return CheckStatusConsistencyQuery{}, err
	}

	return CheckStatusConsistencyQuery{
		entityType: entityType,
		entityID:   entityID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q CheckStatusConsistencyQuery) Validate() error {
	return q.guard.Validate(ErrCheckStatusConsistencyQueryIsNotConstructed)
}

func (q CheckStatusConsistencyQuery) EntityType() kernel.EntityType {
	return q.entityType
}

func (q CheckStatusConsistencyQuery) EntityID() kernel.UUID {
	return q.entityID
}

// CheckStatusConsistencyQueryResponse is the outcome of a check.
// Without history ExpectedStatus is empty and the entity counts as consistent.
type CheckStatusConsistencyQueryResponse struct {
	EntityType     string
	EntityID       kernel.UUID
	IsConsistent   bool
	ExpectedStatus string
	ActualStatus   string
	HasHistory     bool
}
