package client

import "session-gate/internal/domain"

// Legacy session shapes consumed by UI code written against the previous
// auth provider. The mapping is explicit field-by-field; no dynamic probing.

// LegacyUserMetadata nests the avatar the way the old provider did.
type LegacyUserMetadata struct {
	AvatarURL string `json:"avatar_url,omitempty"`
}

// LegacyUser is the user record in the legacy shape.
type LegacyUser struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	UserMetadata LegacyUserMetadata `json:"user_metadata"`
}

// LegacySession is the session record in the legacy shape.
type LegacySession struct {
	User        LegacyUser `json:"user"`
	AccessToken string     `json:"access_token,omitempty"`
}

// UserTeam is the billing/attribution record derived for legacy consumers.
// Tier is always "default": the platform has no paid tiers.
type UserTeam struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Tier  string `json:"tier"`
}

// ToLegacySession projects a session into the legacy shape. Returns nil for a
// nil session.
func ToLegacySession(s *domain.Session) *LegacySession {
	if s == nil {
		return nil
	}
	return &LegacySession{
		User: LegacyUser{
			ID:           s.User.ID,
			Email:        s.User.Email,
			UserMetadata: LegacyUserMetadata{AvatarURL: s.User.AvatarURL},
		},
		AccessToken: s.AccessToken,
	}
}

// ToUserTeam derives the legacy team record. Name falls back to the email
// when the identity carries no display name.
func ToUserTeam(s *domain.Session) *UserTeam {
	if s == nil {
		return nil
	}
	name := s.User.Name
	if name == "" {
		name = s.User.Email
	}
	return &UserTeam{
		ID:    s.User.ID,
		Email: s.User.Email,
		Name:  name,
		Tier:  "default",
	}
}
