// Package client is the Go consumer side of the session endpoint: a
// page-lifetime session store for frontends and tools that talk to
// session-gate, plus projections for code written against the legacy
// session shape.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"session-gate/internal/domain"
)

// Snapshot is the state consumers observe: the resolved session (nil when not
// logged in) and whether the initial fetch is still in flight.
type Snapshot struct {
	Session *domain.Session
	Loading bool
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient overrides the HTTP client used for the session fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) { s.httpClient = c }
}

// WithAnalytics forwards resolved identities to the analytics subsystem.
func WithAnalytics(a domain.Analytics) Option {
	return func(s *Store) { s.analytics = a }
}

// WithLogger overrides the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store caches the session for the lifetime of one mount. The session
// endpoint is fetched exactly once, on the first Load; subscribers observe
// the loading→resolved transition exactly once. A fetch failure resolves to
// "no session" — consumers must treat it as not logged in, never as an error
// state that leaves them stuck loading.
type Store struct {
	endpoint   string
	httpClient *http.Client
	analytics  domain.Analytics
	logger     *slog.Logger

	once sync.Once

	mu      sync.Mutex
	snap    Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore creates a store for the given session endpoint URL
// (e.g. "https://host/api/auth/session").
func NewStore(endpoint string, opts ...Option) *Store {
	s := &Store{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
		snap:       Snapshot{Loading: true},
		subs:       make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sessionPayload mirrors the session endpoint's response body.
type sessionPayload struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// Load performs the one-shot session fetch. Subsequent calls are no-ops, so
// it is safe to call from every mount path. Blocks until resolved; run it on
// its own goroutine when the caller must not wait.
func (s *Store) Load(ctx context.Context) {
	s.once.Do(func() {
		session, err := s.fetch(ctx)
		if err != nil {
			s.logger.Warn("session fetch failed", "error", err)
			session = nil
		}

		s.publish(Snapshot{Session: session, Loading: false})

		if session != nil && s.analytics != nil {
			if err := s.analytics.Identify(ctx, session.User); err != nil {
				s.logger.Warn("analytics identify failed", "error", err)
			}
		}
	})
}

func (s *Store) fetch(ctx context.Context) (*domain.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session endpoint returned status %d", resp.StatusCode)
	}

	var payload sessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if payload.User == nil {
		return nil, nil
	}
	return &domain.Session{User: *payload.User, AccessToken: payload.AccessToken}, nil
}

// publish replaces the snapshot and notifies subscribers outside the lock.
func (s *Store) publish(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	listeners := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn and immediately delivers the current snapshot so
// late subscribers never miss the resolved state. The returned cancel
// function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	current := s.snap
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
