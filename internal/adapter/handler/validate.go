package handler

import (
	"net/http"

	"session-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ValidateHandler handles /validate for nginx auth_request subrequests.
type ValidateHandler struct {
	uc *usecase.ResolveSession
}

// NewValidateHandler creates a new validate handler.
func NewValidateHandler(uc *usecase.ResolveSession) *ValidateHandler {
	return &ValidateHandler{uc: uc}
}

// Handle resolves the trust header and answers 200 with identity headers, or
// 401 when no identity is available. Mock-auth rules apply exactly as on the
// session endpoint.
func (h *ValidateHandler) Handle(c echo.Context) error {
	session := h.uc.Execute(c.Request().Context(), c.Request().Header.Get(TrustHeader))
	if session == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	c.Response().Header().Set("X-User-Id", session.User.ID)
	c.Response().Header().Set("X-User-Email", session.User.Email)
	return c.NoContent(http.StatusOK)
}
