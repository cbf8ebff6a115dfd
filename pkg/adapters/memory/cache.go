package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/algotrace/pkg/domain"
)

type entry struct {
	run     *domain.Run
	expires time.Time // zero means never
}

// Cache implements ports.RunCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]entry
	mu   sync.RWMutex
	now  func() time.Time
}

// Option configures the Cache.
type Option func(*Cache)

// WithNow replaces the time source used for expiration.
func WithNow(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a new in-memory cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Put stores a deep copy of run.
func (c *Cache) Put(ctx context.Context, key string, run *domain.Run, ttl time.Duration) error {
	e := entry{run: run.Clone()}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = e
	return nil
}

// Get returns a copy so callers can't mutate the cached run.
// Expired entries are dropped lazily.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Run, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.ErrRunNotFound
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		_ = c.Delete(ctx, key)
		return nil, domain.ErrRunNotFound
	}
	return e.run.Clone(), nil
}

// Delete removes the entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
