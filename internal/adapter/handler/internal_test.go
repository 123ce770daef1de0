package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"session-gate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalHandler_Identity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/internal/identity", nil)
	req.Header.Set(TrustHeader, validAssertion)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewInternalHandler(usecase.NewResolveSession(false, slog.Default()))
	require.NoError(t, h.HandleIdentity(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var user map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "a@b.com", user["email"])
}

func TestInternalHandler_NoIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/internal/identity", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewInternalHandler(usecase.NewResolveSession(false, slog.Default()))
	err := h.HandleIdentity(c)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
