package queries

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var ErrGetCurrentStatusQueryIsNotConstructed = errors.New(
	"GetCurrentStatusQuery must be created via NewGetCurrentStatusQuery constructor",
)

// GetCurrentStatusQuery reads one entity's live status together with the
// change that produced it.
type GetCurrentStatusQuery struct {
	entityType kernel.EntityType
	entityID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCurrentStatusQuery(entityType kernel.EntityType, entityID kernel.UUID) (GetCurrentStatusQuery, error) {
	if err := errors.Join(entityType.Validate(), entityID.Validate()); err != nil {
		return GetCurrentStatusQuery{}, err
	}
	return GetCurrentStatusQuery{
		entityType: entityType,
		entityID:   entityID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetCurrentStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetCurrentStatusQueryIsNotConstructed)
}

func (q GetCurrentStatusQuery) EntityType() kernel.EntityType { return q.entityType }
func (q GetCurrentStatusQuery) EntityID() kernel.UUID         { return q.entityID }

// GetCurrentStatusQueryResponse carries LastChange only when the entity has history.
type GetCurrentStatusQueryResponse struct {
	EntityType string
	EntityID   kernel.UUID
	Status     string
	LastChange *StatusChangeResponse
}
