package http

import (
	"context"
	"errors"
	"net/http"

	"fleet/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusCode maps engine errors to HTTP status codes. Order matters: a saga
// abort wraps the step error that caused it.
func statusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrPartialFailure):
		return http.StatusInternalServerError
	case errors.Is(err, errs.ErrSagaAborted):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrCargoViolation),
		errors.Is(err, errs.ErrLicenseExpired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrNotAvailable),
		errors.Is(err, errs.ErrActiveTrips):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(ctx echo.Context, err error) error {
	code := statusCode(err)
	body := Error{Code: code, Message: err.Error()}

	switch {
	case errors.Is(err, errs.ErrPartialFailure):
		body.ConsistencyCheckRequired = true
	case code == http.StatusInternalServerError:
		body.Message = "Internal server error"
	}

	if code >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err)
	}

	return ctx.JSON(code, body)
}
