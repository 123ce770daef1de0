package domain

// Claims is the decoded payload of a trust-header token. Keys beyond the
// recognized identity claims are preserved but unused.
type Claims map[string]any

// String returns the named claim as a string, or "" when absent or not a string.
func (c Claims) String(key string) string {
	v, ok := c[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// User is the canonical identity derived from the identity-aware proxy.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Session pairs a resolved user with the raw trust-header value. The token is
// opaque pass-through for downstream attribution and is never parsed again.
// A session without a user does not exist; the resolver returns nil instead.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token,omitempty"`
}

// MockUser returns the fixed development identity used when mock auth is
// enabled. Constant for the process lifetime.
func MockUser() User {
	return User{
		ID:    "dev-user-001",
		Email: "developer@localhost.dev",
		Name:  "Local Developer",
	}
}

// SandboxInfo describes a sandbox the backend launched for a user.
type SandboxInfo struct {
	SandboxID  string `json:"sbxId"`
	TemplateID string `json:"template"`
	URL        string `json:"url,omitempty"`
}

// Attribution carries the identity stamped onto backend calls. The access
// token is forwarded verbatim; the gateway does not interpret it.
type Attribution struct {
	UserID      string
	Email       string
	AccessToken string
}

// Attribution derives the backend attribution for this session.
func (s *Session) Attribution() Attribution {
	return Attribution{
		UserID:      s.User.ID,
		Email:       s.User.Email,
		AccessToken: s.AccessToken,
	}
}
