package http

import (
	"net/http"
	"time"

	"fleet/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/vehicles/{vehicleId}/status)
	TransitionVehicleStatus(ctx echo.Context, vehicleId openapi_types.UUID) error
	// (POST /api/v1/drivers/{driverId}/status)
	TransitionDriverStatus(ctx echo.Context, driverId openapi_types.UUID) error
	// (POST /api/v1/trips/{tripId}/status)
	TransitionTripStatus(ctx echo.Context, tripId openapi_types.UUID) error
	// (POST /api/v1/trips/{tripId}/dispatch)
	DispatchTrip(ctx echo.Context, tripId openapi_types.UUID) error
	// (POST /api/v1/trips/{tripId}/complete)
	CompleteTrip(ctx echo.Context, tripId openapi_types.UUID) error
	// (POST /api/v1/trips/{tripId}/cancel)
	CancelTrip(ctx echo.Context, tripId openapi_types.UUID) error
	// (GET /api/v1/status/summary)
	GetFleetStatusSummary(ctx echo.Context) error
	// (GET /api/v1/status/{entityType}/recent)
	GetRecentStatusChanges(ctx echo.Context, entityType string, params GetRecentStatusChangesParams) error
	// (GET /api/v1/status/{entityType}/overview)
	GetStatusOverview(ctx echo.Context, entityType string, params GetStatusOverviewParams) error
	// (GET /api/v1/status/{entityType}/{entityId}/current)
	GetCurrentStatus(ctx echo.Context, entityType string, entityId openapi_types.UUID) error
	// (GET /api/v1/status/{entityType}/{entityId}/consistency)
	CheckStatusConsistency(ctx echo.Context, entityType string, entityId openapi_types.UUID) error
	// (POST /api/v1/status/{entityType}/{entityId}/correct)
	CorrectStatus(ctx echo.Context, entityType string, entityId openapi_types.UUID) error
	// (GET /api/v1/status/{entityType}/{entityId}/history)
	GetStatusHistory(ctx echo.Context, entityType string, entityId openapi_types.UUID, params GetStatusHistoryParams) error
	// (GET /api/v1/status/{entityType}/{entityId}/stats)
	GetStatusChangeStats(ctx echo.Context, entityType string, entityId openapi_types.UUID, params GetStatusChangeStatsParams) error
}

type GetRecentStatusChangesParams struct {
	Minutes *int
	Limit   *int
}

type GetStatusOverviewParams struct {
	Minutes *int
}

type GetStatusHistoryParams struct {
	Limit  *int
	Offset *int
}

type GetStatusChangeStatsParams struct {
	From time.Time
	To   time.Time
}

// EchoRouter is the part of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// ServerInterfaceWrapper binds path and query parameters before calling the server.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) TransitionVehicleStatus(ctx echo.Context) error {
	id, err := bindUUID(ctx, "vehicleId")
	if err != nil {
		return badParameter(ctx, err)
	}
	return w.Handler.TransitionVehicleStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) TransitionDriverStatus(ctx echo.Context) error {
	id, err := bindUUID(ctx, "driverId")
	if err != nil {
		return badParameter(ctx, err)
	}
	return w.Handler.TransitionDriverStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) TransitionTripStatus(ctx echo.Context) error {
	id, err := bindUUID(ctx, "tripId")
	if err != nil {
		return badParameter(ctx, err)
	}
	return w.Handler.TransitionTripStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) DispatchTrip(ctx echo.Context) error {
	id, err := bindUUID(ctx, "tripId")
	if err != nil {
		return badParameter(ctx, err)
	}
	return w.Handler.DispatchTrip(ctx, id)
}

func (w *ServerInterfaceWrapper) CompleteTrip(ctx echo.Context) error {
	id, err := bindUUID(ctx, "tripId")
	if err != nil {
		return badParameter(ctx, err)
	}
	return w.Handler.CompleteTrip(ctx, id)
}

func (w *ServerInterfaceWrapper) CancelTrip(ctx echo.Context) error {
	id, err := bindUUID(ctx, "tripId")
	if err != nil {
		return badParameter(ctx, err)
	}
	return w.Handler.CancelTrip(ctx, id)
}

func (w *ServerInterfaceWrapper) GetFleetStatusSummary(ctx echo.Context) error {
	return w.Handler.GetFleetStatusSummary(ctx)
}

func (w *ServerInterfaceWrapper) GetRecentStatusChanges(ctx echo.Context) error {
	entityType, err := bindString(ctx, "entityType")
	if err != nil {
		return badParameter(ctx, err)
	}

	var params GetRecentStatusChangesParams
	if err = bindQuery(ctx, "minutes", false, &params.Minutes); err != nil {
		return badParameter(ctx, err)
	}
	if err = bindQuery(ctx, "limit", false, &params.Limit); err != nil {
		return badParameter(ctx, err)
	}

	return w.Handler.GetRecentStatusChanges(ctx, entityType, params)
}

func (w *ServerInterfaceWrapper) GetStatusOverview(ctx echo.Context) error {
	entityType, err := bindString(ctx, "entityType")
	if err != nil {
		return badParameter(ctx, err)
	}

	var params GetStatusOverviewParams
	if err = bindQuery(ctx, "minutes", false, &params.Minutes); err != nil {
		return badParameter(ctx, err)
	}

	return w.Handler.GetStatusOverview(ctx, entityType, params)
}

func (w *ServerInterfaceWrapper) GetCurrentStatus(ctx echo.Context) error {
	entityType, entityID, err := bindEntity(ctx)
	if err != nil {
		return badParameter(ctx, err)
	}
	return w.Handler.GetCurrentStatus(ctx, entityType, entityID)
}

func (w *ServerInterfaceWrapper) CheckStatusConsistency(ctx echo.Context) error {
	entityType, entityID, err := bindEntity(ctx)
	if err != nil {
		return badParameter(ctx, err)
	}
	return w.Handler.CheckStatusConsistency(ctx, entityType, entityID)
}

func (w *ServerInterfaceWrapper) CorrectStatus(ctx echo.Context) error {
	entityType, entityID, err := bindEntity(ctx)
	if err != nil {
		return badParameter(ctx, err)
	}
	return w.Handler.CorrectStatus(ctx, entityType, entityID)
}

func (w *ServerInterfaceWrapper) GetStatusHistory(ctx echo.Context) error {
	entityType, entityID, err := bindEntity(ctx)
	if err != nil {
		return badParameter(ctx, err)
	}

	var params GetStatusHistoryParams
	if err = bindQuery(ctx, "limit", false, &params.Limit); err != nil {
		return badParameter(ctx, err)
	}
	if err = bindQuery(ctx, "offset", false, &params.Offset); err != nil {
		return badParameter(ctx, err)
	}

	return w.Handler.GetStatusHistory(ctx, entityType, entityID, params)
}

func (w *ServerInterfaceWrapper) GetStatusChangeStats(ctx echo.Context) error {
	entityType, entityID, err := bindEntity(ctx)
	if err != nil {
		return badParameter(ctx, err)
	}

	var params GetStatusChangeStatsParams
	if err = bindQuery(ctx, "from", true, &params.From); err != nil {
		return badParameter(ctx, err)
	}
	if err = bindQuery(ctx, "to", true, &params.To); err != nil {
		return badParameter(ctx, err)
	}

	return w.Handler.GetStatusChangeStats(ctx, entityType, entityID, params)
}

// RegisterHandlers adds every operation to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL adds every operation to router with paths
// prefixed by baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/vehicles/:vehicleId/status", w.TransitionVehicleStatus)
	router.POST(baseURL+"/api/v1/drivers/:driverId/status", w.TransitionDriverStatus)
	router.POST(baseURL+"/api/v1/trips/:tripId/status", w.TransitionTripStatus)
	router.POST(baseURL+"/api/v1/trips/:tripId/dispatch", w.DispatchTrip)
	router.POST(baseURL+"/api/v1/trips/:tripId/complete", w.CompleteTrip)
	router.POST(baseURL+"/api/v1/trips/:tripId/cancel", w.CancelTrip)
	router.GET(baseURL+"/api/v1/status/summary", w.GetFleetStatusSummary)
	router.GET(baseURL+"/api/v1/status/:entityType/recent", w.GetRecentStatusChanges)
	router.GET(baseURL+"/api/v1/status/:entityType/overview", w.GetStatusOverview)
	router.GET(baseURL+"/api/v1/status/:entityType/:entityId/current", w.GetCurrentStatus)
	router.GET(baseURL+"/api/v1/status/:entityType/:entityId/consistency", w.CheckStatusConsistency)
	router.POST(baseURL+"/api/v1/status/:entityType/:entityId/correct", w.CorrectStatus)
	router.GET(baseURL+"/api/v1/status/:entityType/:entityId/history", w.GetStatusHistory)
	router.GET(baseURL+"/api/v1/status/:entityType/:entityId/stats", w.GetStatusChangeStats)
}

func bindUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return id, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func bindString(ctx echo.Context, name string) (string, error) {
	var s string
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &s, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return s, nil
}

func bindEntity(ctx echo.Context) (string, openapi_types.UUID, error) {
	entityType, err := bindString(ctx, "entityType")
	if err != nil {
		return "", openapi_types.UUID{}, err
	}
	entityID, err := bindUUID(ctx, "entityId")
	if err != nil {
		return "", openapi_types.UUID{}, err
	}
	return entityType, entityID, nil
}

func bindQuery(ctx echo.Context, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, ctx.QueryParams(), dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

func badParameter(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}
