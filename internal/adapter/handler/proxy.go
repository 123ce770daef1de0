package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"session-gate/internal/domain"
	"session-gate/internal/templates"
	"session-gate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ProxyHandler forwards chat and sandbox requests to the fragment backend
// with the resolved identity stamped on. Request and response bodies stay
// opaque; only the template ID is peeked at for early validation.
type ProxyHandler struct {
	resolver  *usecase.ResolveSession
	backend   domain.FragmentBackend
	tracker   domain.SandboxTracker
	registry  *templates.Registry
	analytics domain.Analytics
}

// NewProxyHandler creates a new proxy handler.
func NewProxyHandler(resolver *usecase.ResolveSession, backend domain.FragmentBackend, tracker domain.SandboxTracker, registry *templates.Registry, analytics domain.Analytics) *ProxyHandler {
	return &ProxyHandler{resolver: resolver, backend: backend, tracker: tracker, registry: registry, analytics: analytics}
}

// chatEnvelope is the slice of the chat request body this handler inspects.
type chatEnvelope struct {
	Template string `json:"template"`
}

// sandboxEnvelope is the slice of the sandbox request body this handler inspects.
type sandboxEnvelope struct {
	Fragment struct {
		Template string `json:"template"`
	} `json:"fragment"`
}

// resolveOrReject returns the session for the request or the 401 error.
func (h *ProxyHandler) resolveOrReject(c echo.Context) (*domain.Session, error) {
	session := h.resolver.Execute(c.Request().Context(), c.Request().Header.Get(TrustHeader))
	if session == nil {
		return nil, mapDomainError(domain.ErrAuthRequired)
	}
	return session, nil
}

// streamThrough runs the shared chat-shaped flow: resolve identity, validate
// the requested template when the body names one, then stream the backend's
// response through.
func (h *ProxyHandler) streamThrough(c echo.Context, forward func(context.Context, domain.Attribution, io.Reader) (io.ReadCloser, error), failEvent string) error {
	ctx := c.Request().Context()

	session, err := h.resolveOrReject(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
	}

	var envelope chatEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Template != "" {
		if _, ok := h.registry.Get(envelope.Template); !ok {
			return mapDomainError(domain.ErrUnknownTemplate)
		}
	}

	stream, err := forward(ctx, session.Attribution(), bytes.NewReader(body))
	if err != nil {
		slog.ErrorContext(ctx, failEvent, "error", err, "user_id", session.User.ID)
		return mapDomainError(err)
	}
	defer stream.Close()

	return c.Stream(http.StatusOK, "text/plain; charset=utf-8", stream)
}

// HandleChat processes POST /api/chat: fragment generation from a prompt.
func (h *ProxyHandler) HandleChat(c echo.Context) error {
	return h.streamThrough(c, h.backend.GenerateStream, "chat generation failed")
}

// HandleMorphChat processes POST /api/morph-chat: an edit against an existing
// fragment. Same request shape and attribution as chat; the backend rejects
// bodies without a current fragment.
func (h *ProxyHandler) HandleMorphChat(c echo.Context) error {
	return h.streamThrough(c, h.backend.MorphStream, "morph edit failed")
}

// HandleSandbox processes POST /api/sandbox: resolve identity, forward, and
// track the launched sandbox for the user.
func (h *ProxyHandler) HandleSandbox(c echo.Context) error {
	ctx := c.Request().Context()

	session, err := h.resolveOrReject(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
	}

	var envelope sandboxEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Fragment.Template != "" {
		if _, ok := h.registry.Get(envelope.Fragment.Template); !ok {
			return mapDomainError(domain.ErrUnknownTemplate)
		}
	}

	info, err := h.backend.RunFragment(ctx, session.Attribution(), bytes.NewReader(body))
	if err != nil {
		slog.ErrorContext(ctx, "sandbox launch failed", "error", err, "user_id", session.User.ID)
		return mapDomainError(err)
	}

	h.tracker.Set(session.User.ID, *info)
	slog.InfoContext(ctx, "sandbox launched",
		"sandbox_id", info.SandboxID, "template", info.TemplateID, "user_id", session.User.ID)

	if h.analytics != nil {
		if err := h.analytics.Identify(ctx, session.User); err != nil {
			slog.WarnContext(ctx, "analytics identify failed", "error", err, "user_id", session.User.ID)
		}
	}

	return c.JSON(http.StatusOK, info)
}

// HandleActiveSandbox processes GET /api/sandbox/active: the sandbox
// currently tracked for the resolved user.
func (h *ProxyHandler) HandleActiveSandbox(c echo.Context) error {
	session, err := h.resolveOrReject(c)
	if err != nil {
		return err
	}

	info, found := h.tracker.Get(session.User.ID)
	if !found {
		return mapDomainError(domain.ErrSandboxNotFound)
	}

	return c.JSON(http.StatusOK, info)
}
