package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/algotrace/pkg/adapters/file"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/ports"
)

func TestFileCache_Contract(t *testing.T) {
	ports.RunCacheContract(t, file.NewCache(t.TempDir()))
}

func TestFileCache_Expiration(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dir := t.TempDir()
	cache := file.NewCache(dir, file.WithNow(func() time.Time { return now }))
	ctx := context.Background()

	run := &domain.Run{Algorithm: "stack"}
	require.NoError(t, cache.Put(ctx, "short", run, time.Minute))
	require.NoError(t, cache.Put(ctx, "forever", run, 0))

	_, err := cache.Get(ctx, "short")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = cache.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	keys, err := cache.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"forever"}, keys, "expired file is removed on read")
}

func TestFileCache_KeysAreSafeFileNames(t *testing.T) {
	dir := t.TempDir()
	cache := file.NewCache(dir)
	ctx := context.Background()

	run, err := algorithms.Build(algorithms.IDBFS, domain.Input{})
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, "bfs:abc/../x", run, 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bfs_abc___x.json", entries[0].Name())

	loaded, err := cache.Get(ctx, "bfs:abc/../x")
	require.NoError(t, err)
	assert.Equal(t, run.Len(), loaded.Len())
	want, err := json.Marshal(run.Final())
	require.NoError(t, err)
	got, err := json.Marshal(loaded.Final())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestFileCache_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	cache := file.NewCache(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err := cache.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRunNotFound)
}

func TestFileCache_ListMissingDir(t *testing.T) {
	cache := file.NewCache(filepath.Join(t.TempDir(), "missing"))
	keys, err := cache.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileCache_VariablesSurviveRoundTrip(t *testing.T) {
	cache := file.NewCache(t.TempDir())
	ctx := context.Background()
	run := algorithms.BFS(domain.Input{})
	require.NoError(t, cache.Put(ctx, "bfs", run, 0))

	got, err := cache.Get(ctx, "bfs")
	require.NoError(t, err)
	require.Equal(t, run.Len(), got.Len())
	for i, step := range run.Steps {
		for _, kv := range step.Variables {
			value, ok := got.Steps[i].Variables.Get(kv.Name)
			require.True(t, ok, "step %d lost %q", i, kv.Name)
			assert.Equal(t, kv.Value, value, "step %d %q", i, kv.Name)
		}
	}
}
