package ports

import (
	"context"
	"time"

	"github.com/aretw0/algotrace/pkg/domain"
)

// RunCache stores produced runs. Runs are deterministic for a given
// algorithm and input, so a hit is always equivalent to producing again.
type RunCache interface {
	// Get returns the run stored under key.
	// Returns domain.ErrRunNotFound if nothing is stored or the entry expired.
	Get(ctx context.Context, key string) (*domain.Run, error)

	// Put stores run under key. A ttl of 0 means no expiration.
	Put(ctx context.Context, key string, run *domain.Run, ttl time.Duration) error

	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
