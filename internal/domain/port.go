package domain

import (
	"context"
	"io"
)

// FragmentBackend is the boundary to the code-generation and
// sandbox-execution service. Calls carry user attribution; request and
// response bodies are opaque to this module.
type FragmentBackend interface {
	// GenerateStream forwards a chat request and returns the backend's
	// streaming response body. The caller must close it.
	GenerateStream(ctx context.Context, attr Attribution, body io.Reader) (io.ReadCloser, error)
	// MorphStream forwards an edit request against an existing fragment
	// and returns the streaming updated fragment. The caller must close it.
	MorphStream(ctx context.Context, attr Attribution, body io.Reader) (io.ReadCloser, error)
	// RunFragment forwards a sandbox request and returns the launched
	// sandbox description.
	RunFragment(ctx context.Context, attr Attribution, body io.Reader) (*SandboxInfo, error)
}

// SandboxTracker records which sandbox is currently attributed to a user.
type SandboxTracker interface {
	Get(userID string) (*SandboxInfo, bool)
	Set(userID string, info SandboxInfo)
}

// Analytics identifies resolved users to the analytics subsystem.
type Analytics interface {
	Identify(ctx context.Context, user User) error
	Close() error
}
