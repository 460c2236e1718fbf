package queries

import (
	"errors"
	"fmt"
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var ErrGetStatusChangeStatsQueryIsNotConstructed = errors.New(
	"GetStatusChangeStatsQuery must be created via NewGetStatusChangeStatsQuery constructor",
)

// GetStatusChangeStatsQuery summarizes one entity's history within [from, to].
type GetStatusChangeStatsQuery struct {
	entityType kernel.EntityType
	entityID   kernel.UUID
	from       time.Time
	to         time.Time

	guard guard.ConstructorGuard
}

func NewGetStatusChangeStatsQuery(
	entityType kernel.EntityType,
	entityID kernel.UUID,
	from, to time.Time,
) (GetStatusChangeStatsQuery, error) {
	var rangeErr error
	switch {
	case from.IsZero():
		rangeErr = errs.NewValueIsRequiredError("from")
	case to.IsZero():
		rangeErr = errs.NewValueIsRequiredError("to")
	case to.Before(from):
		rangeErr = errs.NewValueIsInvalidErrorWithCause("to", fmt.Errorf("%s is before %s", to, from))
	}
	if err := errors.Join(entityType.Validate(), entityID.Validate(), rangeErr); err != nil {
		return GetStatusChangeStatsQuery{}, err
	}

	return GetStatusChangeStatsQuery{
		entityType: entityType,
		entityID:   entityID,
		from:       from.UTC(),
		to:         to.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetStatusChangeStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatusChangeStatsQueryIsNotConstructed)
}

func (q GetStatusChangeStatsQuery) EntityType() kernel.EntityType { return q.entityType }
func (q GetStatusChangeStatsQuery) EntityID() kernel.UUID         { return q.entityID }
func (q GetStatusChangeStatsQuery) From() time.Time               { return q.from }
func (q GetStatusChangeStatsQuery) To() time.Time                 { return q.to }

// StatusBreakdown describes the time an entity spent in one status.
//
// Entries counts every change into the status. Durations only cover stays
// that ended inside the window, so the stay in the final status is not timed.
type StatusBreakdown struct {
	Entries         int
	TimedStays      int
	TotalDuration   time.Duration
	AverageDuration time.Duration
}

type GetStatusChangeStatsQueryResponse struct {
	EntityType     string
	EntityID       kernel.UUID
	From           time.Time
	To             time.Time
	TotalChanges   int
	UniqueStatuses []string
	Breakdown      map[string]StatusBreakdown
}
