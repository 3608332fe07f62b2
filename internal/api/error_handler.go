package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sipe/inventory-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally and hides them from the client unless
//     exposeInternal is set (development only).
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, exposeInternal bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c, exposeInternal)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, exposeInternal bool) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code == http.StatusBadRequest {
			return he.Code, "invalid payload"
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Reason
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, domainMessage(err)
	case errors.Is(err, domain.ErrMissingToken),
		errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domainMessage(err)
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrEquipmentNotFound):
		return http.StatusNotFound, domainMessage(err)
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrCodeExists),
		errors.Is(err, domain.ErrDuplicateCheckout):
		return http.StatusConflict, domainMessage(err)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if exposeInternal {
		return http.StatusInternalServerError, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// domainMessage returns the sentinel's own text, dropping any wrapping context.
func domainMessage(err error) string {
	for _, s := range []error{
		domain.ErrInvalidCredentials, domain.ErrTokenInvalid, domain.ErrTokenExpired,
		domain.ErrMissingToken, domain.ErrForbidden,
		domain.ErrUserNotFound, domain.ErrEquipmentNotFound,
		domain.ErrUserExists, domain.ErrCodeExists, domain.ErrDuplicateCheckout,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return err.Error()
}
