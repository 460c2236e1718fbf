package http

import (
	"time"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/application/usecases/queries"
	"fleet/internal/core/domain/model/history"
	"fleet/internal/core/domain/model/trip"
)

// TimestampLayout is RFC 3339 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Error struct {
	Code                     int    `json:"code"`
	Message                  string `json:"message"`
	ConsistencyCheckRequired bool   `json:"consistencyCheckRequired,omitempty"`
}

type TransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type CompleteTripRequest struct {
	EndOdometer float64 `json:"endOdometer"`
}

type CancelTripRequest struct {
	Reason string `json:"reason,omitempty"`
}

type StatusChange struct {
	ID             string  `json:"id"`
	EntityType     string  `json:"entityType"`
	EntityID       string  `json:"entityId"`
	PreviousStatus string  `json:"previousStatus"`
	NewStatus      string  `json:"newStatus"`
	Reason         *string `json:"reason"`
	CreatedAt      string  `json:"createdAt"`
}

type Trip struct {
	ID            string   `json:"id"`
	VehicleID     string   `json:"vehicleId"`
	DriverID      string   `json:"driverId"`
	Status        string   `json:"status"`
	CargoWeight   float64  `json:"cargoWeight"`
	StartOdometer *float64 `json:"startOdometer"`
	EndOdometer   *float64 `json:"endOdometer"`
}

type ConsistencyCheck struct {
	EntityType     string `json:"entityType"`
	EntityID       string `json:"entityId"`
	IsConsistent   bool   `json:"isConsistent"`
	ExpectedStatus string `json:"expectedStatus"`
	ActualStatus   string `json:"actualStatus"`
	HasHistory     bool   `json:"hasHistory"`
}

type Correction struct {
	Corrected       bool   `json:"corrected"`
	PreviousStatus  string `json:"previousStatus"`
	CorrectedStatus string `json:"correctedStatus"`
}

type CurrentStatus struct {
	EntityType string        `json:"entityType"`
	EntityID   string        `json:"entityId"`
	Status     string        `json:"status"`
	LastChange *StatusChange `json:"lastChange"`
}

type StatusOverview struct {
	EntityType   string         `json:"entityType"`
	Minutes      int            `json:"minutes"`
	TotalChanges int            `json:"totalChanges"`
	ByStatus     map[string]int `json:"byStatus"`
}

type FleetStatusSummary struct {
	Vehicles map[string]int64 `json:"vehicles"`
	Drivers  map[string]int64 `json:"drivers"`
	Trips    map[string]int64 `json:"trips"`
}

type StatusBreakdown struct {
	Entries        int     `json:"entries"`
	TimedStays     int     `json:"timedStays"`
	TotalSeconds   float64 `json:"totalSeconds"`
	AverageSeconds float64 `json:"averageSeconds"`
}

type StatusChangeStats struct {
	EntityType     string                     `json:"entityType"`
	EntityID       string                     `json:"entityId"`
	From           string                     `json:"from"`
	To             string                     `json:"to"`
	TotalChanges   int                        `json:"totalChanges"`
	UniqueStatuses []string                   `json:"uniqueStatuses"`
	Breakdown      map[string]StatusBreakdown `json:"breakdown"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func fromRecord(r *history.Record) StatusChange {
	return StatusChange{
		ID:             r.ID().String(),
		EntityType:     r.EntityType().String(),
		EntityID:       r.EntityID().String(),
		PreviousStatus: r.PreviousStatus(),
		NewStatus:      r.NewStatus(),
		Reason:         r.Reason(),
		CreatedAt:      formatTime(r.CreatedAt()),
	}
}

func fromStatusChangeResponse(r queries.StatusChangeResponse) StatusChange {
	return StatusChange{
		ID:             r.ID.String(),
		EntityType:     r.EntityType,
		EntityID:       r.EntityID.String(),
		PreviousStatus: r.PreviousStatus,
		NewStatus:      r.NewStatus,
		Reason:         r.Reason,
		CreatedAt:      formatTime(r.CreatedAt),
	}
}

func fromStatusChangeResponses(rs []queries.StatusChangeResponse) []StatusChange {
	out := make([]StatusChange, len(rs))
	for i, r := range rs {
		out[i] = fromStatusChangeResponse(r)
	}
	return out
}

func fromTrip(t *trip.Trip) Trip {
	return Trip{
		ID:            t.ID().String(),
		VehicleID:     t.VehicleID().String(),
		DriverID:      t.DriverID().String(),
		Status:        t.Status().String(),
		CargoWeight:   t.CargoWeight(),
		StartOdometer: t.StartOdometer(),
		EndOdometer:   t.EndOdometer(),
	}
}

func fromCorrection(r commands.CorrectStatusResult) Correction {
	return Correction{
		Corrected:       r.Corrected,
		PreviousStatus:  r.PreviousStatus,
		CorrectedStatus: r.CorrectedStatus,
	}
}

func fromStats(r queries.GetStatusChangeStatsQueryResponse) StatusChangeStats {
	breakdown := make(map[string]StatusBreakdown, len(r.Breakdown))
	for status, b := range r.Breakdown {
		breakdown[status] = StatusBreakdown{
			Entries:        b.Entries,
			TimedStays:     b.TimedStays,
			TotalSeconds:   b.TotalDuration.Seconds(),
			AverageSeconds: b.AverageDuration.Seconds(),
		}
	}

	unique := r.UniqueStatuses
	if unique == nil {
		unique = []string{}
	}

	return StatusChangeStats{
		EntityType:     r.EntityType,
		EntityID:       r.EntityID.String(),
		From:           formatTime(r.From),
		To:             formatTime(r.To),
		TotalChanges:   r.TotalChanges,
		UniqueStatuses: unique,
		Breakdown:      breakdown,
	}
}
