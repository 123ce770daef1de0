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

// Assertion with payload {"email":"a@b.com","sub":"u1"}.
const validAssertion = "eyJhbGciOiJub25lIn0.eyJlbWFpbCI6ImFAYi5jb20iLCJzdWIiOiJ1MSJ9.sig"

func performSession(t *testing.T, mockAuth bool, header string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	if header != "" {
		req.Header.Set(TrustHeader, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewSessionHandler(usecase.NewResolveSession(mockAuth, slog.Default()))
	require.NoError(t, h.Handle(c))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSessionHandler_ValidHeader(t *testing.T) {
	rec, body := performSession(t, false, validAssertion)

	assert.Equal(t, http.StatusOK, rec.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, validAssertion, body["access_token"])
}

func TestSessionHandler_NoHeaderMockEnabled(t *testing.T) {
	rec, body := performSession(t, true, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "dev-user-001", user["id"])
	assert.Equal(t, "developer@localhost.dev", user["email"])
	assert.Equal(t, "Local Developer", user["name"])
	_, hasToken := body["access_token"]
	assert.False(t, hasToken)
}

func TestSessionHandler_NoHeaderMockDisabled(t *testing.T) {
	rec, body := performSession(t, false, "")

	// Absence of identity is a normal 200 response, never an error status.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body["user"])
	_, hasToken := body["access_token"]
	assert.False(t, hasToken)
}

func TestSessionHandler_MalformedHeaderMockDisabled(t *testing.T) {
	rec, body := performSession(t, false, "definitely-not-a-jwt")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body["user"])
}

func TestSessionHandler_MalformedHeaderMockEnabled(t *testing.T) {
	rec, body := performSession(t, true, "definitely-not-a-jwt")

	assert.Equal(t, http.StatusOK, rec.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "dev-user-001", user["id"])
}

func TestSessionHandler_HeaderBeatsMockAuth(t *testing.T) {
	_, body := performSession(t, true, validAssertion)

	user := body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, validAssertion, body["access_token"])
}
