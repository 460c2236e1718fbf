package queries

import (
	"context"
	"time"

	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/ports"
)

type GetStatusChangeStatsQueryHandler struct {
	history ports.StatusHistoryRepository
}

func NewGetStatusChangeStatsQueryHandler(history ports.StatusHistoryRepository) GetStatusChangeStatsQueryHandler {
	return GetStatusChangeStatsQueryHandler{history: history}
}

// Handle walks the window oldest first. The time spent in a status is the
// gap between the record entering it and the next record.
func (h GetStatusChangeStatsQueryHandler) Handle(
	ctx context.Context,
	query GetStatusChangeStatsQuery,
) (GetStatusChangeStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStatusChangeStatsQueryResponse{}, err
	}

	records, err := h.history.Query(ctx, query.EntityType(), query.EntityID(), query.From(), query.To())
	if err != nil {
		return GetStatusChangeStatsQueryResponse{}, err
	}

	res := GetStatusChangeStatsQueryResponse{
		EntityType: query.EntityType().String(),
		EntityID:   query.EntityID(),
		From:       query.From(),
		To:         query.To(),
	}
	res.TotalChanges, res.UniqueStatuses, res.Breakdown = summarize(records)
	return res, nil
}

func summarize(records []*history.Record) (int, []string, map[string]StatusBreakdown) {
	unique := make([]string, 0)
	breakdown := make(map[string]StatusBreakdown)

	for i, rec := range records {
		status := rec.NewStatus()
		b, seen := breakdown[status]
		if !seen {
			unique = append(unique, status)
		}
		b.Entries++
		if i+1 < len(records) {
			b.TimedStays++
			b.TotalDuration += records[i+1].CreatedAt().Sub(rec.CreatedAt())
		}
		breakdown[status] = b
	}

	for status, b := range breakdown {
		if b.TimedStays > 0 {
			b.AverageDuration = b.TotalDuration / time.Duration(b.TimedStays)
			breakdown[status] = b
		}
	}

	return len(records), unique, breakdown
}
