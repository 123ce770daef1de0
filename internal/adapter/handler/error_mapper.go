package handler

import (
	"errors"
	"net/http"

	"session-gate/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrUnknownTemplate):
		return echo.NewHTTPError(http.StatusBadRequest, "unknown sandbox template")

	case errors.Is(err, domain.ErrSandboxNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "no active sandbox")

	case errors.Is(err, domain.ErrBackendUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "fragment backend unavailable")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
