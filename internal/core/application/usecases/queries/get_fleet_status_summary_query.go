package queries

import (
	"errors"

	"fleet/internal/pkg/guard"
)

var ErrGetFleetStatusSummaryQueryIsNotConstructed = errors.New(
	"GetFleetStatusSummaryQuery must be created via NewGetFleetStatusSummaryQuery constructor",
)

// GetFleetStatusSummaryQuery counts live vehicles, drivers and trips per status.
//
// Example:
//
//	handler := NewGetFleetStatusSummaryQueryHandler(db)
//	summary, err := handler.Handle(ctx, NewGetFleetStatusSummaryQuery())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d vehicles available\n", summary.Vehicles["available"])
type GetFleetStatusSummaryQuery struct {
	guard guard.ConstructorGuard
}

func NewGetFleetStatusSummaryQuery() GetFleetStatusSummaryQuery {
	return GetFleetStatusSummaryQuery{guard: guard.NewConstructorGuard()}
}

func (q GetFleetStatusSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetFleetStatusSummaryQueryIsNotConstructed)
}

// GetFleetStatusSummaryQueryResponse maps wire statuses to entity counts.
// Statuses nobody is in are absent.
type GetFleetStatusSummaryQueryResponse struct {
	Vehicles map[string]int64
	Drivers  map[string]int64
	Trips    map[string]int64
}
