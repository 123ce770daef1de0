package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limitedEcho(rl *RateLimiter) *echo.Echo {
	e := echo.New()
	e.Use(rl.Middleware())
	e.GET("/api/auth/session", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	e := limitedEcho(NewRateLimiter(rate.Limit(10), 10))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	// 1 req/s, burst 1: the immediate second request must be rejected
	e := limitedEcho(NewRateLimiter(rate.Limit(1), 1))

	rec1 := httptest.NewRecorder()
	e.ServeHTTP(rec1, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusOK, rec1.Code)

	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
	assert.NotEmpty(t, rec2.Header().Get("Retry-After"))
}

func TestRateLimiter_SeparateLimitsPerIP(t *testing.T) {
	e := limitedEcho(NewRateLimiter(rate.Limit(1), 1))

	req1 := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req1.RemoteAddr = "10.0.0.1:1234"
	rec1 := httptest.NewRecorder()
	e.ServeHTTP(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	// Different client, fresh budget
	req2 := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	rec2 := httptest.NewRecorder()
	e.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusOK, rec2.Code)
}

func TestPerMinute(t *testing.T) {
	assert.InDelta(t, 0.5, float64(PerMinute(30)), 1e-9)
	assert.InDelta(t, 1.0/6.0, float64(PerMinute(10)), 1e-9)
}
