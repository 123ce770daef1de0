package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) (*tracetest.SpanRecorder, func()) {
	t.Helper()

	spanRecorder := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(spanRecorder),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tracerProvider)

	return spanRecorder, func() {
		otel.SetTracerProvider(originalProvider)
	}
}

func runWithSpan(t *testing.T, handler echo.HandlerFunc) (*tracetest.SpanRecorder, error) {
	t.Helper()

	spanRecorder, cleanup := setupTestTracer(t)
	defer cleanup()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/validate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ctx, span := otel.Tracer("test").Start(req.Context(), "test-span")
	c.SetRequest(req.WithContext(ctx))

	err := OTelStatusMiddleware()(handler)(c)
	span.End()
	return spanRecorder, err
}

func statusAttr(t *testing.T, spans []sdktrace.ReadOnlySpan) int64 {
	t.Helper()
	require.Len(t, spans, 1)
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "http.response.status_code" {
			return attr.Value.AsInt64()
		}
	}
	t.Fatal("http.response.status_code attribute not found")
	return 0
}

func TestOTelStatusMiddleware_2xx_StatusUnset(t *testing.T) {
	recorder, err := runWithSpan(t, func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, err)

	spans := recorder.Ended()
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, int64(200), statusAttr(t, spans))
}

func TestOTelStatusMiddleware_4xx_StatusUnset(t *testing.T) {
	recorder, err := runWithSpan(t, func(c echo.Context) error {
		return c.String(http.StatusUnauthorized, "unauthorized")
	})
	require.NoError(t, err)

	spans := recorder.Ended()
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, int64(401), statusAttr(t, spans))
}

func TestOTelStatusMiddleware_4xxHTTPError(t *testing.T) {
	recorder, err := runWithSpan(t, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	})
	require.Error(t, err)

	spans := recorder.Ended()
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, int64(401), statusAttr(t, spans))
}

func TestOTelStatusMiddleware_5xx_StatusError(t *testing.T) {
	recorder, err := runWithSpan(t, func(c echo.Context) error {
		return c.String(http.StatusInternalServerError, "internal error")
	})
	require.NoError(t, err)

	spans := recorder.Ended()
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "Internal Server Error", spans[0].Status().Description)
	assert.Equal(t, int64(500), statusAttr(t, spans))
}

func TestOTelStatusMiddleware_5xxWithError_RecordsError(t *testing.T) {
	backendErr := errors.New("fragment backend connection failed")

	recorder, err := runWithSpan(t, func(c echo.Context) error {
		c.Response().WriteHeader(http.StatusInternalServerError)
		return backendErr
	})
	assert.Equal(t, backendErr, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	var exceptionFound bool
	for _, event := range spans[0].Events() {
		if event.Name == "exception" {
			exceptionFound = true
		}
	}
	assert.True(t, exceptionFound, "exception event not found in span")
}
