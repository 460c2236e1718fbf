package queries

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

const (
	DefaultRecentMinutes = 60
	// MaxRecentMinutes is one week.
	MaxRecentMinutes = 7 * 24 * 60
)

var ErrGetRecentStatusChangesQueryIsNotConstructed = errors.New(
	"GetRecentStatusChangesQuery must be created via NewGetRecentStatusChangesQuery constructor",
)

// GetRecentStatusChangesQuery lists the changes of every entity of one type
// within the last few minutes, newest first.
type GetRecentStatusChangesQuery struct {
	entityType kernel.EntityType
	minutes    int
	limit      int

	guard guard.ConstructorGuard
}

func NewGetRecentStatusChangesQuery(entityType kernel.EntityType, minutes, limit int) (GetRecentStatusChangesQuery, error) {
	var minutesErr, limitErr error
	if minutes < 1 || minutes > MaxRecentMinutes {
		minutesErr = errs.NewValueIsOutOfRangeError("minutes", minutes, 1, MaxRecentMinutes)
	}
	if limit < 1 || limit > MaxPageLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageLimit)
	}
	if err := errors.Join(entityType.Validate(), minutesErr, limitErr); err != nil {
		return GetRecentStatusChangesQuery{}, err
	}

	return GetRecentStatusChangesQuery{
		entityType: entityType,
		minutes:    minutes,
		limit:      limit,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetRecentStatusChangesQuery) Validate() error {
	return q.guard.Validate(ErrGetRecentStatusChangesQueryIsNotConstructed)
}

func (q GetRecentStatusChangesQuery) EntityType() kernel.EntityType { return q.entityType }
func (q GetRecentStatusChangesQuery) Minutes() int                  { return q.minutes }
func (q GetRecentStatusChangesQuery) Limit() int                    { return q.limit }
