package analytics

import (
	"context"
	"testing"

	"session-gate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostHogSink(t *testing.T) {
	sink, err := NewPostHogSink("phc_test", "https://us.i.posthog.com")
	require.NoError(t, err)
	defer sink.Close()

	// Enqueue is asynchronous; a valid identify must be accepted.
	err = sink.Identify(context.Background(), domain.User{
		ID:    "u1",
		Email: "a@b.com",
		Name:  "Alice",
	})
	assert.NoError(t, err)
}

func TestNopSink(t *testing.T) {
	sink := NopSink{}

	assert.NoError(t, sink.Identify(context.Background(), domain.User{ID: "u1"}))
	assert.NoError(t, sink.Close())
}
