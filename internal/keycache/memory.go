package keycache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/litenotes/internal/crypto/domain"
)

// entry holds one cached key and its expiry deadline.
type entry struct {
	key       []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache implementation with per-entry TTL.
//
// Expired entries are dropped lazily on Get and swept periodically by a
// background goroutine so abandoned sessions do not pin key material in
// memory for longer than their TTL. Key bytes are copied on Put and Get and
// zeroed when an entry is removed.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]entry
	now     func() time.Time
	done    chan struct{}
	wg      sync.WaitGroup
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithClock injects the time source, used by tests to simulate expiry.
func WithClock(now func() time.Time) MemoryCacheOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache creates a MemoryCache and starts its sweep goroutine.
// Callers must Close it when done.
func NewMemoryCache(sweepInterval time.Duration, opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[uuid.UUID]entry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.wg.Add(1)
	go c.sweep(sweepInterval)

	return c
}

// Put stores a copy of key for the user with the given TTL, replacing any
// previous entry. Replacement only happens at login and is idempotent.
func (c *MemoryCache) Put(ctx context.Context, userID uuid.UUID, key []byte, ttl time.Duration) error {
	stored := make([]byte, len(key))
	copy(stored, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, exists := c.entries[userID]; exists {
		cryptoDomain.Zero(old.key)
	}
	c.entries[userID] = entry{
		key:       stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Get returns a copy of the cached key for the user. Expired entries are
// removed on the spot and reported as absent.
func (c *MemoryCache) Get(ctx context.Context, userID uuid.UUID) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[userID]
	if !exists {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		cryptoDomain.Zero(e.key)
		delete(c.entries, userID)
		return nil, false, nil
	}

	key := make([]byte, len(e.key))
	copy(key, e.key)
	return key, true, nil
}

// Delete removes the cached key for the user.
func (c *MemoryCache) Delete(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, exists := c.entries[userID]; exists {
		cryptoDomain.Zero(e.key)
		delete(c.entries, userID)
	}
	return nil
}

// Close stops the sweep goroutine and zeroes all cached keys.
func (c *MemoryCache) Close() {
	close(c.done)
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.entries {
		cryptoDomain.Zero(e.key)
		delete(c.entries, id)
	}
}

// sweep periodically drops expired entries.
func (c *MemoryCache) sweep(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for id, e := range c.entries {
				if !now.Before(e.expiresAt) {
					cryptoDomain.Zero(e.key)
					delete(c.entries, id)
				}
			}
			c.mu.Unlock()
		}
	}
}
