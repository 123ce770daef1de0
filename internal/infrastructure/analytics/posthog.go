// Package analytics forwards resolved identities to the analytics subsystem.
package analytics

import (
	"context"
	"fmt"

	"session-gate/internal/domain"

	"github.com/posthog/posthog-go"
)

// PostHogSink identifies users to PostHog.
// Implements domain.Analytics.
type PostHogSink struct {
	client posthog.Client
}

// NewPostHogSink creates a sink for the given project API key and ingestion
// endpoint.
func NewPostHogSink(apiKey, endpoint string) (*PostHogSink, error) {
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		return nil, fmt.Errorf("posthog client: %w", err)
	}
	return &PostHogSink{client: client}, nil
}

// Identify enqueues an identify event for the user. Delivery is asynchronous;
// a queue error is returned for logging but callers must not treat it as a
// session failure.
func (s *PostHogSink) Identify(_ context.Context, user domain.User) error {
	props := posthog.NewProperties().Set("email", user.Email)
	if user.Name != "" {
		props.Set("name", user.Name)
	}
	return s.client.Enqueue(posthog.Identify{
		DistinctId: user.ID,
		Properties: props,
	})
}

// Close flushes pending events.
func (s *PostHogSink) Close() error {
	return s.client.Close()
}

// NopSink discards identify events. Used when no analytics key is configured.
type NopSink struct{}

func (NopSink) Identify(context.Context, domain.User) error { return nil }
func (NopSink) Close() error                                { return nil }
