package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/algotrace/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces cache keys.
const DefaultPrefix = "algotrace:run:"

// Cache implements ports.RunCache using Redis. Runs are stored as JSON.
type Cache struct {
	client *backend.Client
	prefix string
}

// Option configures the Cache.
type Option func(*Cache)

// WithPrefix sets the key prefix for runs.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func (c *Cache) key(key string) string {
	return c.prefix + key
}

// Put stores the run. Redis handles expiration; a ttl of 0 keeps the key.
func (c *Cache) Put(ctx context.Context, key string, run *domain.Run, ttl time.Duration) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves the run from Redis.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Run, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal(val, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// Delete removes the run.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
