package handler

import (
	"net/http"

	"session-gate/internal/domain"
	"session-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// TrustHeader is stamped by the identity-aware proxy after it has verified
// the caller. Its contents are trusted without re-verification.
const TrustHeader = "X-Goog-IAP-JWT-Assertion"

// SessionHandler handles the session endpoint returning JSON for the frontend.
type SessionHandler struct {
	uc *usecase.ResolveSession
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(uc *usecase.ResolveSession) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// sessionResponse represents the JSON response structure. A null user is the
// normal "not logged in" shape, not an error.
type sessionResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token,omitempty"`
}

// Handle processes GET /api/auth/session. Always responds 200: absence of
// identity is a successful response, never a failure.
func (h *SessionHandler) Handle(c echo.Context) error {
	session := h.uc.Execute(c.Request().Context(), c.Request().Header.Get(TrustHeader))
	if session == nil {
		return c.JSON(http.StatusOK, sessionResponse{User: nil})
	}

	return c.JSON(http.StatusOK, sessionResponse{
		User:        &session.User,
		AccessToken: session.AccessToken,
	})
}
