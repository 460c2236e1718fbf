package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var ErrCorrectStatusCommandIsNotConstructed = errors.New(
	"CorrectStatusCommand must be created via NewCorrectStatusCommand constructor",
)

// CorrectStatusCommand asks to bring an entity's live status back in line
// with its newest history record.
type CorrectStatusCommand struct { //nolint:recvcheck //using for validation
	entityType kernel.EntityType
	entityID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewCorrectStatusCommand(entityType kernel.EntityType, entityID kernel.UUID) (CorrectStatusCommand, error) {
	if err := errors.Join(entityType.Validate(), entityID.Validate()); err != nil {
		return CorrectStatusCommand{}, err
	}

	return CorrectStatusCommand{
		entityType: entityType,
		entityID:   entityID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CorrectStatusCommand) Validate() error {
	return c.guard.Validate(ErrCorrectStatusCommandIsNotConstructed)
}

func (c CorrectStatusCommand) EntityType() kernel.EntityType {
	return c.entityType
}

func (c CorrectStatusCommand) EntityID() kernel.UUID {
	return c.entityID
}
