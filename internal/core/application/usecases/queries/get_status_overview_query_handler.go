package queries

import (
	"context"
	"time"

	"fleet/internal/core/ports"
)

// overviewScanLimit caps how many recent records one overview inspects.
const overviewScanLimit = MaxPageLimit

type GetStatusOverviewQueryHandler struct {
	history ports.StatusHistoryRepository
	clock   ports.Clock
}

func NewGetStatusOverviewQueryHandler(history ports.StatusHistoryRepository, clock ports.Clock) GetStatusOverviewQueryHandler {
	return GetStatusOverviewQueryHandler{history: history, clock: clock}
}

func (h GetStatusOverviewQueryHandler) Handle(
	ctx context.Context,
	query GetStatusOverviewQuery,
) (GetStatusOverviewQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStatusOverviewQueryResponse{}, err
	}

	since := h.clock.Now().Add(-time.Duration(query.Minutes()) * time.Minute)
	records, err := h.history.Recent(ctx, query.EntityType(), since, overviewScanLimit)
	if err != nil {
		return GetStatusOverviewQueryResponse{}, err
	}

	res := GetStatusOverviewQueryResponse{
		EntityType:   query.EntityType().String(),
		Minutes:      query.Minutes(),
		TotalChanges: len(records),
		ByStatus:     make(map[string]int),
	}
	for _, r := range records {
		res.ByStatus[r.NewStatus()]++
	}
	return res, nil
}
