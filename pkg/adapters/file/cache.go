// Package file implements ports.RunCache on the local filesystem, one JSON
// file per run. It lets the CLI reuse traces across invocations.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/algotrace/pkg/domain"
)

// DefaultDir is used when NewCache gets an empty path.
var DefaultDir = filepath.Join(".algotrace", "runs")

type envelope struct {
	Expires *time.Time  `json:"expires,omitempty"`
	Run     *domain.Run `json:"run"`
}

// Cache stores runs as JSON files in a directory.
type Cache struct {
	BasePath string
	now      func() time.Time
}

// Option configures the Cache.
type Option func(*Cache)

// WithNow replaces the time source used for expiration.
func WithNow(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a cache rooted at basePath.
func NewCache(basePath string, opts ...Option) *Cache {
	if basePath == "" {
		basePath = DefaultDir
	}
	c := &Cache{BasePath: basePath, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var unsafeChars = strings.NewReplacer("/", "_", `\`, "_", ":", "_", "..", "_")

func (c *Cache) path(key string) string {
	return filepath.Join(c.BasePath, unsafeChars.Replace(key)+".json")
}

// Put writes the run through a temp file and a rename, so readers never
// see a partial file.
func (c *Cache) Put(ctx context.Context, key string, run *domain.Run, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if err := os.MkdirAll(c.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure cache directory: %w", err)
	}

	env := envelope{Run: run}
	if ttl > 0 {
		expires := c.now().Add(ttl)
		env.Expires = &expires
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	tmp, err := os.CreateTemp(c.BasePath, ".put-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Get reads the run. Expired files are removed lazily.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Run, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	if env.Run == nil {
		return nil, fmt.Errorf("failed to unmarshal run: empty entry")
	}
	if env.Expires != nil && !c.now().Before(*env.Expires) {
		_ = c.Delete(ctx, key)
		return nil, domain.ErrRunNotFound
	}
	return env.Run, nil
}

// Delete removes the file.
func (c *Cache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// List returns the stored keys in their on-disk form.
func (c *Cache) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}
