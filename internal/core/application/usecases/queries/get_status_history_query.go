package queries

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

var ErrGetStatusHistoryQueryIsNotConstructed = errors.New(
	"GetStatusHistoryQuery must be created via NewGetStatusHistoryQuery constructor",
)

// GetStatusHistoryQuery pages through one entity's history, newest first.
type GetStatusHistoryQuery struct {
	entityType kernel.EntityType
	entityID   kernel.UUID
	limit      int
	offset     int

	guard guard.ConstructorGuard
}

// NewGetStatusHistoryQuery requires 1 <= limit <= MaxPageLimit and offset >= 0.
func NewGetStatusHistoryQuery(
	entityType kernel.EntityType,
	entityID kernel.UUID,
	limit, offset int,
) (GetStatusHistoryQuery, error) {
	var limitErr, offsetErr error
	if limit < 1 || limit > MaxPageLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageLimit)
	}
	if offset < 0 {
		offsetErr = errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	if err := errors.Join(entityType.Validate(), entityID.Validate(), limitErr, offsetErr); err != nil {
		return GetStatusHistoryQuery{}, err
	}

	return GetStatusHistoryQuery{
		entityType: entityType,
		entityID:   entityID,
		limit:      limit,
		offset:     offset,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetStatusHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusHistoryQueryIsNotConstructed)
}

func (q GetStatusHistoryQuery) EntityType() kernel.EntityType { return q.entityType }
func (q GetStatusHistoryQuery) EntityID() kernel.UUID         { return q.entityID }
func (q GetStatusHistoryQuery) Limit() int                    { return q.limit }
func (q GetStatusHistoryQuery) Offset() int                   { return q.offset }
