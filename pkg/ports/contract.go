package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCacheContract runs a suite of tests to verify that a RunCache
// implementation adheres to the interface contract.
func RunCacheContract(t *testing.T, cache RunCache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	run := &domain.Run{
		Algorithm: "contract",
		Initial:   domain.VisualState{Array: []int{2, 1}, Legend: "initial"},
		Steps: []domain.Step{
			{
				ID:          "compare-0",
				Kind:        domain.KindCompare,
				Description: "Compare indices 0 and 1",
				SourceLine:  5,
				Variables:   domain.NewVars("a", 2, "b", 1, "queue", []string{"A"}),
				State: domain.VisualState{
					Array:     []int{2, 1},
					Highlight: &domain.Highlight{Indices: []int{0, 1}},
					Counters:  map[string]int{"comparisons": 1},
				},
			},
			{
				ID:          "swap-0",
				Kind:        domain.KindSwap,
				Description: "Swap 2 and 1",
				SourceLine:  6,
				Variables:   domain.NewVars("arr", []int{1, 2}),
				CallStack:   []domain.Frame{{Name: "sort", Params: domain.NewVars("n", 2), ReturnLine: 1}},
				State:       domain.VisualState{Array: []int{1, 2}},
			},
		},
	}

	t.Run("Put and Get", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, run, 0), "Put should not return error")

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")

		want, err := json.Marshal(run)
		require.NoError(t, err)
		got, err := json.Marshal(loaded)
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(got))
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, run, 0))

		first, err := cache.Get(ctx, key)
		require.NoError(t, err)
		first.Steps[0].State.Array[0] = 99

		second, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, second.Steps[0].State.Array)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := cache.Get(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		other := &domain.Run{Algorithm: "other", Steps: []domain.Step{}}
		require.NoError(t, cache.Put(ctx, key+"-overwrite", run, 0))
		require.NoError(t, cache.Put(ctx, key+"-overwrite", other, 0))

		loaded, err := cache.Get(ctx, key+"-overwrite")
		require.NoError(t, err)
		assert.Equal(t, "other", loaded.Algorithm)
		assert.Equal(t, 0, loaded.Len())
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Put(ctx, key, run, 0))
		require.NoError(t, cache.Delete(ctx, key), "Delete should not return error")

		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Get after Delete should return ErrRunNotFound")

		assert.NoError(t, cache.Delete(ctx, key), "deleting a missing key is not an error")
	})
}
