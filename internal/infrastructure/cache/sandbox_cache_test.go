package cache

import (
	"testing"
	"time"

	"session-gate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandboxCache_SetAndGet(t *testing.T) {
	c := NewSandboxCache(time.Minute)

	c.Set("user-1", domain.SandboxInfo{
		SandboxID:  "sbx-abc",
		TemplateID: "nextjs-developer",
		URL:        "https://sbx-abc.e2b.dev",
	})

	info, found := c.Get("user-1")
	require.True(t, found)
	assert.Equal(t, "sbx-abc", info.SandboxID)
	assert.Equal(t, "nextjs-developer", info.TemplateID)
}

func TestSandboxCache_MissForUnknownUser(t *testing.T) {
	c := NewSandboxCache(time.Minute)

	_, found := c.Get("nobody")
	assert.False(t, found)
}

func TestSandboxCache_ReplacesPreviousSandbox(t *testing.T) {
	c := NewSandboxCache(time.Minute)

	c.Set("user-1", domain.SandboxInfo{SandboxID: "sbx-old"})
	c.Set("user-1", domain.SandboxInfo{SandboxID: "sbx-new"})

	info, found := c.Get("user-1")
	require.True(t, found)
	assert.Equal(t, "sbx-new", info.SandboxID)
}

func TestSandboxCache_Expiry(t *testing.T) {
	c := NewSandboxCache(10 * time.Millisecond)

	c.Set("user-1", domain.SandboxInfo{SandboxID: "sbx-abc"})
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("user-1")
	assert.False(t, found)
}

func TestSandboxCache_CleanupRemovesExpired(t *testing.T) {
	c := NewSandboxCache(10 * time.Millisecond)

	c.Set("user-1", domain.SandboxInfo{SandboxID: "sbx-abc"})
	time.Sleep(20 * time.Millisecond)
	c.cleanup()

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Empty(t, c.entries)
}
