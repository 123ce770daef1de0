package usecase

import (
	"context"
	"log/slog"

	"session-gate/internal/domain"
	"session-gate/internal/infrastructure/token"
)

// ResolveSession derives a session from the proxy trust header, with a
// configuration-gated mock fallback for local development.
type ResolveSession struct {
	mockAuth bool
	logger   *slog.Logger
}

// NewResolveSession creates the resolver. mockAuth must come from
// Config.MockAuthEnabled so the fallback cannot activate unintentionally in
// a deployed environment.
func NewResolveSession(mockAuth bool, l *slog.Logger) *ResolveSession {
	return &ResolveSession{mockAuth: mockAuth, logger: l}
}

// Execute resolves the session for one request. assertion is the raw
// x-goog-iap-jwt-assertion header value, "" when absent. Returns nil when no
// identity is available; it never fails the request.
//
// A valid header-derived identity always wins: the mock fallback is only
// consulted when the header is absent or did not yield an identity. A
// present-but-malformed header still falls through to the mock fallback when
// that is enabled, so local tooling keeps working with stale or garbled
// headers; the warn log records the discarded header.
func (uc *ResolveSession) Execute(ctx context.Context, assertion string) *domain.Session {
	if assertion != "" {
		claims, err := token.DecodeUnverified(assertion)
		if err != nil {
			uc.logger.WarnContext(ctx, "trust header present but invalid", "error", err)
		} else {
			user, err := token.ExtractUser(claims)
			if err != nil {
				uc.logger.WarnContext(ctx, "trust header decoded but unusable", "error", err)
			} else {
				return &domain.Session{User: *user, AccessToken: assertion}
			}
		}
	}

	if uc.mockAuth {
		uc.logger.DebugContext(ctx, "mock auth session issued", "user_id", domain.MockUser().ID)
		return &domain.Session{User: domain.MockUser()}
	}

	uc.logger.DebugContext(ctx, "no session resolved")
	return nil
}
