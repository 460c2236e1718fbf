package http

import (
	"log/slog"
	"net/http"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/application/usecases/queries"
	"fleet/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Handlers are the use cases the server exposes.
// FleetStatusSummary is nil when live state is not kept in Postgres.
type Handlers struct {
	TransitionVehicleStatus *commands.TransitionVehicleStatusCommandHandler
	TransitionDriverStatus  *commands.TransitionDriverStatusCommandHandler
	TransitionTripStatus    *commands.TransitionTripStatusCommandHandler
	DispatchTrip            *commands.DispatchTripCommandHandler
	CompleteTrip            *commands.CompleteTripCommandHandler
	CancelTrip              *commands.CancelTripCommandHandler
	CorrectStatus           *commands.CorrectStatusCommandHandler

	CheckStatusConsistency queries.CheckStatusConsistencyQueryHandler
	GetStatusHistory       queries.GetStatusHistoryQueryHandler
	GetRecentStatusChanges queries.GetRecentStatusChangesQueryHandler
	GetStatusChangeStats   queries.GetStatusChangeStatsQueryHandler
	GetCurrentStatus       queries.GetCurrentStatusQueryHandler
	GetStatusOverview      queries.GetStatusOverviewQueryHandler
	FleetStatusSummary     *queries.GetFleetStatusSummaryQueryHandler
}

// Server implements ServerInterface on top of the status engine.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{
		h:      h,
		logger: logger.With("component", "http-server"),
	}
}

// TransitionVehicleStatus handles POST /api/v1/vehicles/{vehicleId}/status.
func (s *Server) TransitionVehicleStatus(ctx echo.Context, vehicleId openapi_types.UUID) error {
	var body TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return s.invalidBody(ctx)
	}

	id, err := kernel.UUIDFromBytes(vehicleId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewTransitionVehicleStatusCommand(id, body.Status, body.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	rec, err := s.h.TransitionVehicleStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromRecord(rec))
}

// TransitionDriverStatus handles POST /api/v1/drivers/{driverId}/status.
func (s *Server) TransitionDriverStatus(ctx echo.Context, driverId openapi_types.UUID) error {
	var body TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return s.invalidBody(ctx)
	}

	id, err := kernel.UUIDFromBytes(driverId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewTransitionDriverStatusCommand(id, body.Status, body.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	rec, err := s.h.TransitionDriverStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromRecord(rec))
}

// TransitionTripStatus handles POST /api/v1/trips/{tripId}/status.
func (s *Server) TransitionTripStatus(ctx echo.Context, tripId openapi_types.UUID) error {
	var body TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return s.invalidBody(ctx)
	}

	id, err := kernel.UUIDFromBytes(tripId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewTransitionTripStatusCommand(id, body.Status, body.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	rec, err := s.h.TransitionTripStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromRecord(rec))
}

// DispatchTrip handles POST /api/v1/trips/{tripId}/dispatch.
func (s *Server) DispatchTrip(ctx echo.Context, tripId openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(tripId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewDispatchTripCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	t, err := s.h.DispatchTrip.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromTrip(t))
}

// CompleteTrip handles POST /api/v1/trips/{tripId}/complete.
func (s *Server) CompleteTrip(ctx echo.Context, tripId openapi_types.UUID) error {
	var body CompleteTripRequest
	if err := ctx.Bind(&body); err != nil {
		return s.invalidBody(ctx)
	}

	id, err := kernel.UUIDFromBytes(tripId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCompleteTripCommand(id, body.EndOdometer)
	if err != nil {
		return s.fail(ctx, err)
	}

	t, err := s.h.CompleteTrip.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromTrip(t))
}

// CancelTrip handles POST /api/v1/trips/{tripId}/cancel. The body is optional.
func (s *Server) CancelTrip(ctx echo.Context, tripId openapi_types.UUID) error {
	var body CancelTripRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&body); err != nil {
			return s.invalidBody(ctx)
		}
	}

	id, err := kernel.UUIDFromBytes(tripId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCancelTripCommand(id, body.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	t, err := s.h.CancelTrip.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromTrip(t))
}

// GetFleetStatusSummary handles GET /api/v1/status/summary.
func (s *Server) GetFleetStatusSummary(ctx echo.Context) error {
	if s.h.FleetStatusSummary == nil {
		return ctx.JSON(http.StatusNotImplemented, Error{
			Code:    http.StatusNotImplemented,
			Message: "Fleet summary needs the Postgres entity store",
		})
	}

	res, err := s.h.FleetStatusSummary.Handle(ctx.Request().Context(), queries.NewGetFleetStatusSummaryQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, FleetStatusSummary{
		Vehicles: res.Vehicles,
		Drivers:  res.Drivers,
		Trips:    res.Trips,
	})
}

// GetRecentStatusChanges handles GET /api/v1/status/{entityType}/recent.
func (s *Server) GetRecentStatusChanges(ctx echo.Context, entityType string, params GetRecentStatusChangesParams) error {
	t, err := kernel.ParseEntityType(entityType)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetRecentStatusChangesQuery(t,
		valueOr(params.Minutes, queries.DefaultRecentMinutes),
		valueOr(params.Limit, queries.DefaultPageLimit))
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := s.h.GetRecentStatusChanges.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromStatusChangeResponses(res))
}

// GetStatusOverview handles GET /api/v1/status/{entityType}/overview.
func (s *Server) GetStatusOverview(ctx echo.Context, entityType string, params GetStatusOverviewParams) error {
	t, err := kernel.ParseEntityType(entityType)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetStatusOverviewQuery(t, valueOr(params.Minutes, queries.DefaultRecentMinutes))
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := s.h.GetStatusOverview.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StatusOverview{
		EntityType:   res.EntityType,
		Minutes:      res.Minutes,
		TotalChanges: res.TotalChanges,
		ByStatus:     res.ByStatus,
	})
}

// GetCurrentStatus handles GET /api/v1/status/{entityType}/{entityId}/current.
func (s *Server) GetCurrentStatus(ctx echo.Context, entityType string, entityId openapi_types.UUID) error {
	t, id, err := parseEntity(entityType, entityId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetCurrentStatusQuery(t, id)
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := s.h.GetCurrentStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	out := CurrentStatus{
		EntityType: res.EntityType,
		EntityID:   res.EntityID.String(),
		Status:     res.Status,
	}
	if res.LastChange != nil {
		last := fromStatusChangeResponse(*res.LastChange)
		out.LastChange = &last
	}

	return ctx.JSON(http.StatusOK, out)
}

// CheckStatusConsistency handles GET /api/v1/status/{entityType}/{entityId}/consistency.
func (s *Server) CheckStatusConsistency(ctx echo.Context, entityType string, entityId openapi_types.UUID) error {
	t, id, err := parseEntity(entityType, entityId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewCheckStatusConsistencyQuery(t, id)
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := s.h.CheckStatusConsistency.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ConsistencyCheck{
		EntityType:     res.EntityType,
		EntityID:       res.EntityID.String(),
		IsConsistent:   res.IsConsistent,
		ExpectedStatus: res.ExpectedStatus,
		ActualStatus:   res.ActualStatus,
		HasHistory:     res.HasHistory,
	})
}

// CorrectStatus handles POST /api/v1/status/{entityType}/{entityId}/correct.
func (s *Server) CorrectStatus(ctx echo.Context, entityType string, entityId openapi_types.UUID) error {
	t, id, err := parseEntity(entityType, entityId)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCorrectStatusCommand(t, id)
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := s.h.CorrectStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromCorrection(res))
}

// GetStatusHistory handles GET /api/v1/status/{entityType}/{entityId}/history.
func (s *Server) GetStatusHistory(
	ctx echo.Context,
	entityType string,
	entityId openapi_types.UUID,
	params GetStatusHistoryParams,
) error {
	t, id, err := parseEntity(entityType, entityId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetStatusHistoryQuery(t, id,
		valueOr(params.Limit, queries.DefaultPageLimit),
		valueOr(params.Offset, 0))
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := s.h.GetStatusHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromStatusChangeResponses(res))
}

// GetStatusChangeStats handles GET /api/v1/status/{entityType}/{entityId}/stats.
func (s *Server) GetStatusChangeStats(
	ctx echo.Context,
	entityType string,
	entityId openapi_types.UUID,
	params GetStatusChangeStatsParams,
) error {
	t, id, err := parseEntity(entityType, entityId)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetStatusChangeStatsQuery(t, id, params.From, params.To)
	if err != nil {
		return s.fail(ctx, err)
	}

	res, err := s.h.GetStatusChangeStats.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, fromStats(res))
}

func (s *Server) invalidBody(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
	})
}

func parseEntity(entityType string, entityID openapi_types.UUID) (kernel.EntityType, kernel.UUID, error) {
	t, err := kernel.ParseEntityType(entityType)
	if err != nil {
		return t, kernel.UUID{}, err
	}
	id, err := kernel.UUIDFromBytes(entityID[:])
	return t, id, err
}

func valueOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
