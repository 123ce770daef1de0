package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"session-gate/internal/domain"
)

// Attribution headers stamped on every forwarded call. The backend uses them
// for sandbox metadata and billing; it never re-validates the token.
const (
	headerUserID    = "X-User-Id"
	headerUserEmail = "X-User-Email"
)

// BackendGateway is the HTTP client for the code-generation / sandbox
// backend. Implements domain.FragmentBackend.
type BackendGateway struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewBackendGateway creates a gateway with tuned HTTP transport. timeout
// bounds non-streaming calls; streamed chat responses are bounded by the
// request context instead.
func NewBackendGateway(baseURL string, timeout time.Duration) *BackendGateway {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &BackendGateway{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: transport},
		timeout:    timeout,
	}
}

// newRequest builds a forwarded request with attribution stamped on.
func (g *BackendGateway) newRequest(ctx context.Context, path string, attr domain.Attribution, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerUserID, attr.UserID)
	req.Header.Set(headerUserEmail, attr.Email)
	if attr.AccessToken != "" {
		// Opaque pass-through of the trust-header value
		req.Header.Set("Authorization", "Bearer "+attr.AccessToken)
	}
	return req, nil
}

// GenerateStream forwards a chat request and hands back the backend's
// streaming body. The caller owns closing it.
func (g *BackendGateway) GenerateStream(ctx context.Context, attr domain.Attribution, body io.Reader) (io.ReadCloser, error) {
	req, err := g.newRequest(ctx, "/api/chat", attr, body)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: backend returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	return resp.Body, nil
}

// MorphStream forwards an edit request against an existing fragment and hands
// back the backend's streaming body with the updated fragment. The caller
// owns closing it.
func (g *BackendGateway) MorphStream(ctx context.Context, attr domain.Attribution, body io.Reader) (io.ReadCloser, error) {
	req, err := g.newRequest(ctx, "/api/morph-chat", attr, body)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: backend returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	return resp.Body, nil
}

// RunFragment forwards a sandbox request and decodes the launched sandbox.
func (g *BackendGateway) RunFragment(ctx context.Context, attr domain.Attribution, body io.Reader) (*domain.SandboxInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := g.newRequest(ctx, "/api/sandbox", attr, body)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: backend returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	var info domain.SandboxInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	return &info, nil
}
