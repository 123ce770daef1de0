// Package token decodes identity-aware proxy assertions without verifying
// them. The proxy at the network edge has already validated the signature;
// this package is deliberately not a security boundary on its own.
package token

import (
	"fmt"

	"session-gate/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeUnverified parses a compact three-segment token (header.payload.sig)
// and returns its claims payload. The signature is not checked. Every
// malformation — wrong segment count, bad base64url, bad JSON — comes back
// as a wrapped domain.ErrMalformedToken, never a panic.
func DecodeUnverified(raw string) (domain.Claims, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedToken, err)
	}

	return domain.Claims(claims), nil
}

// ExtractUser projects a claims payload onto the canonical user identity.
// A non-empty email claim is required; everything else is best effort.
func ExtractUser(claims domain.Claims) (*domain.User, error) {
	email := claims.String("email")
	if email == "" {
		return nil, domain.ErrMissingEmailClaim
	}

	id := claims.String("sub")
	if id == "" {
		id = email
	}

	avatar := claims.String("picture")
	if avatar == "" {
		avatar = claims.String("avatar_url")
	}

	return &domain.User{
		ID:        id,
		Email:     email,
		Name:      claims.String("name"),
		AvatarURL: avatar,
	}, nil
}
