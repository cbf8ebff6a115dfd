package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/algotrace/pkg/adapters/memory"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Contract(t *testing.T) {
	cache := memory.NewCache()
	ports.RunCacheContract(t, cache)
}

func TestMemoryCache_Expiration(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := memory.NewCache(memory.WithNow(func() time.Time { return now }))
	ctx := context.Background()

	run := &domain.Run{Algorithm: "stack"}
	require.NoError(t, cache.Put(ctx, "short", run, time.Minute))
	require.NoError(t, cache.Put(ctx, "forever", run, 0))

	_, err := cache.Get(ctx, "short")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = cache.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
	assert.Equal(t, 1, cache.Len(), "expired entry is dropped on read")

	_, err = cache.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemoryCache_PutCopiesRun(t *testing.T) {
	cache := memory.NewCache()
	ctx := context.Background()
	run := &domain.Run{Initial: domain.VisualState{Array: []int{1}}}

	require.NoError(t, cache.Put(ctx, "k", run, 0))
	run.Initial.Array[0] = 42

	loaded, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, loaded.Initial.Array)
}
