package domain

import "errors"

// Identity resolution errors. None of these fail a request by themselves;
// the resolver degrades to "no identity" and the mapper only sees the ones
// surfaced by endpoints that require a user.
var (
	ErrMalformedToken    = errors.New("malformed trust-header token")
	ErrMissingEmailClaim = errors.New("token payload has no email claim")
	ErrAuthRequired      = errors.New("authentication required")
)

// Downstream backend errors.
var (
	ErrBackendUnavailable = errors.New("fragment backend unavailable")
	ErrUnknownTemplate    = errors.New("unknown sandbox template")
	ErrSandboxNotFound    = errors.New("no active sandbox for user")
)
