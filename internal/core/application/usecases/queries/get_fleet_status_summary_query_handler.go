package queries

import (
	"context"
	"fmt"

	"fleet/internal/core/domain/model/driver"
	"fleet/internal/core/domain/model/trip"
	"fleet/internal/core/domain/model/vehicle"

	"gorm.io/gorm"
)

// GetFleetStatusSummaryQueryHandler reads the entity tables directly with
// one grouped query instead of loading aggregates.
type GetFleetStatusSummaryQueryHandler struct {
	db *gorm.DB
}

func NewGetFleetStatusSummaryQueryHandler(db *gorm.DB) GetFleetStatusSummaryQueryHandler {
	return GetFleetStatusSummaryQueryHandler{db: db}
}

func (h GetFleetStatusSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetFleetStatusSummaryQuery,
) (GetFleetStatusSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetFleetStatusSummaryQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT 'vehicle' AS entity_type, status, COUNT(*) FROM vehicles GROUP BY status
		UNION ALL
		SELECT 'driver' AS entity_type, status, COUNT(*) FROM drivers GROUP BY status
		UNION ALL
		SELECT 'trip' AS entity_type, status, COUNT(*) FROM trips GROUP BY status
	`).Rows()
	if err != nil {
		return GetFleetStatusSummaryQueryResponse{}, err
	}
	defer rows.Close()

	res := GetFleetStatusSummaryQueryResponse{
		Vehicles: make(map[string]int64),
		Drivers:  make(map[string]int64),
		Trips:    make(map[string]int64),
	}

	for rows.Next() {
		var entityType string
		var status int
		var count int64

		if err = rows.Scan(&entityType, &status, &count); err != nil {
			return GetFleetStatusSummaryQueryResponse{}, err
		}

		switch entityType {
		case "vehicle":
			res.Vehicles[vehicle.Status(status).String()] = count
		case "driver":
			res.Drivers[driver.Status(status).String()] = count
		case "trip":
			res.Trips[trip.Status(status).String()] = count
		default:
			return GetFleetStatusSummaryQueryResponse{}, fmt.Errorf("unexpected entity type %q in summary", entityType)
		}
	}

	if err = rows.Err(); err != nil {
		return GetFleetStatusSummaryQueryResponse{}, err
	}

	return res, nil
}
