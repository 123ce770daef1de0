package handler

import (
	"log/slog"
	"net/http"

	"session-gate/internal/domain"
	"session-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// InternalHandler handles internal service-to-service requests. Routes using
// it sit behind the shared-secret middleware.
type InternalHandler struct {
	uc *usecase.ResolveSession
}

// NewInternalHandler creates a new internal handler.
func NewInternalHandler(uc *usecase.ResolveSession) *InternalHandler {
	return &InternalHandler{uc: uc}
}

// HandleIdentity resolves the forwarded trust header for a sibling service
// and returns the full identity record as JSON.
func (h *InternalHandler) HandleIdentity(c echo.Context) error {
	ctx := c.Request().Context()

	session := h.uc.Execute(ctx, c.Request().Header.Get(TrustHeader))
	if session == nil {
		return mapDomainError(domain.ErrAuthRequired)
	}

	slog.DebugContext(ctx, "identity resolved for internal caller",
		"user_id", session.User.ID, "remote_addr", c.RealIP())
	return c.JSON(http.StatusOK, session.User)
}
