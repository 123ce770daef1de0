package cache

import (
	"sync"
	"time"

	"session-gate/internal/domain"
)

// trackerEntry pairs a sandbox record with its expiry.
type trackerEntry struct {
	info      domain.SandboxInfo
	expiresAt time.Time
}

// SandboxCache tracks the sandbox currently attributed to each user, expiring
// entries after the backend's sandbox timeout. Sessions themselves are never
// cached here; only sandbox attribution records are.
// Implements domain.SandboxTracker.
type SandboxCache struct {
	mu      sync.RWMutex
	entries map[string]*trackerEntry
	ttl     time.Duration
}

// NewSandboxCache creates a tracker whose entries live for ttl.
func NewSandboxCache(ttl time.Duration) *SandboxCache {
	c := &SandboxCache{
		entries: make(map[string]*trackerEntry),
		ttl:     ttl,
	}
	go c.cleanupLoop()
	return c
}

// Get returns the tracked sandbox for a user, if one is still live.
func (c *SandboxCache) Get(userID string) (*domain.SandboxInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[userID]
	if !found || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return &entry.info, true
}

// Set records a freshly launched sandbox for a user, replacing any previous one.
func (c *SandboxCache) Set(userID string, info domain.SandboxInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = &trackerEntry{
		info:      info,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// cleanup removes expired entries.
func (c *SandboxCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries.
func (c *SandboxCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}
