package queries

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var ErrGetStatusOverviewQueryIsNotConstructed = errors.New(
	"GetStatusOverviewQuery must be created via NewGetStatusOverviewQuery constructor",
)

// GetStatusOverviewQuery groups the recent changes of one entity type by the
// status they moved into.
type GetStatusOverviewQuery struct {
	entityType kernel.EntityType
	minutes    int

	guard guard.ConstructorGuard
}

func NewGetStatusOverviewQuery(entityType kernel.EntityType, minutes int) (GetStatusOverviewQuery, error) {
	var minutesErr error
	if minutes < 1 || minutes > MaxRecentMinutes {
		minutesErr = errs.NewValueIsOutOfRangeError("minutes", minutes, 1, MaxRecentMinutes)
	}
	if err := errors.Join(entityType.Validate(), minutesErr); err != nil {
		return GetStatusOverviewQuery{}, err
	}
	return GetStatusOverviewQuery{
		entityType: entityType,
		minutes:    minutes,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetStatusOverviewQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusOverviewQueryIsNotConstructed)
}

func (q GetStatusOverviewQuery) EntityType() kernel.EntityType { return q.entityType }
func (q GetStatusOverviewQuery) Minutes() int                  { return q.minutes }

type GetStatusOverviewQueryResponse struct {
	EntityType   string
	Minutes      int
	TotalChanges int
	// ByStatus maps a status to the number of changes into it.
	ByStatus map[string]int
}
