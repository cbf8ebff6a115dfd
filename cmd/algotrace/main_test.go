package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/algotrace/internal/config"
	"github.com/aretw0/algotrace/pkg/adapters/file"
	"github.com/aretw0/algotrace/pkg/adapters/memory"
	"github.com/aretw0/algotrace/pkg/adapters/redis"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/permalink"
	"github.com/aretw0/algotrace/pkg/session"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvRedisAddr, "")
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInputFlags_Resolve(t *testing.T) {
	def, in, err := inputFlags{input: `{"array":[3,1,2]}`}.resolve([]string{"bubble-sort"})
	require.NoError(t, err)
	assert.Equal(t, algorithms.IDBubbleSort, def.ID)
	assert.Equal(t, []int{3, 1, 2}, in.Array)

	state := permalink.Encode(algorithms.IDQueue, domain.Input{Queue: []int{4}})
	def, in, err = inputFlags{permalink: "https://example.com/?state=" + state}.resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, algorithms.IDQueue, def.ID)
	assert.Equal(t, []int{4}, in.Queue)

	_, in, err = inputFlags{random: 5, seed: 42}.resolve([]string{"quick-sort"})
	require.NoError(t, err)
	assert.Len(t, in.Array, 5)
	_, again, err := inputFlags{random: 5, seed: 42}.resolve([]string{"quick-sort"})
	require.NoError(t, err)
	assert.Equal(t, in.Array, again.Array, "same seed, same input")

	_, in, err = inputFlags{random: 3, seed: 7, input: `{"target":10}`}.resolve([]string{"two-sum"})
	require.NoError(t, err)
	assert.Len(t, in.Array, 3)
	require.NotNil(t, in.Target)
	assert.Equal(t, 10, *in.Target)
}

func TestInputFlags_ResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags inputFlags
		args  []string
		want  error
	}{
		{"No Algorithm", inputFlags{}, nil, domain.ErrInvalidInput},
		{"Unknown Algorithm", inputFlags{}, []string{"nope"}, domain.ErrAlgorithmNotFound},
		{"Malformed Input", inputFlags{input: "{"}, []string{"bfs"}, domain.ErrInvalidInput},
		{"Unknown Field", inputFlags{input: `{"colour":1}`}, []string{"bfs"}, domain.ErrInvalidInput},
		{"Bad Permalink", inputFlags{permalink: "!!"}, nil, domain.ErrInvalidPermalink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.flags.resolve(tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPermalinkState(t *testing.T) {
	assert.Equal(t, "abc", permalinkState("abc"))
	assert.Equal(t, "abc", permalinkState("/?state=abc&x=1"))
	assert.Equal(t, "https://x/?state=", permalinkState("https://x/?state="))
}

func TestDescribeMarkdown(t *testing.T) {
	def := algorithms.MustLookup(algorithms.IDStack)
	in := domain.Input{Stack: []int{1, 2}}
	run := def.Produce(in)

	doc := describeMarkdown(def, in, run)
	assert.Contains(t, doc, "# Stack Push/Pop")
	assert.Contains(t, doc, "3 steps.")
	assert.Contains(t, doc, "| push | 2 |")
	assert.Contains(t, doc, "| pop | 1 |")
	assert.Contains(t, doc, "## First steps")
	assert.Contains(t, doc, `"stack": [`)
}

func TestFilterCategory(t *testing.T) {
	assert.Len(t, filterCategory(algorithms.All(), ""), len(algorithms.All()))
	graphs := filterCategory(algorithms.All(), "GRAPHS")
	require.Len(t, graphs, 2)
	assert.Equal(t, algorithms.IDBFS, graphs[0].ID)
	assert.Empty(t, filterCategory(algorithms.All(), "nope"))
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list", "--category", "trees")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, algorithms.IDTreeInorder)
	assert.Contains(t, out, algorithms.IDTreeHeight)
	assert.NotContains(t, out, algorithms.IDBubbleSort)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "algotrace version "))
}

func TestRunCommand_JSON(t *testing.T) {
	out, err := execute(t, "run", "stack", "--json", "--input", `{"stack":[1,2]}`)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	var last session.Event
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &last))
	require.NotNil(t, last.Emission)
	assert.Equal(t, 2, last.Emission.Index)
	assert.Equal(t, []int{1}, last.Emission.State.Stack)
}

func TestPermalinkCommands(t *testing.T) {
	out, err := execute(t, "permalink", "encode", "queue", "--input", `{"queue":[5,6]}`, "--base-url", "https://algo.example/")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "https://algo.example/?state="))

	out, err = execute(t, "permalink", "decode", lines[1])
	require.NoError(t, err)
	var p permalink.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, algorithms.IDQueue, p.AlgorithmID)
	assert.Equal(t, []int{5, 6}, p.Input.Queue)

	_, err = execute(t, "permalink", "decode", "%%%")
	assert.ErrorIs(t, err, domain.ErrInvalidPermalink)
}

func TestExportCommands(t *testing.T) {
	out, err := execute(t, "export", "mermaid", "bfs")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph LR"))

	_, err = execute(t, "export", "mermaid", "bubble-sort")
	assert.Error(t, err, "arrays have no diagram")

	out, err = execute(t, "export", "json", "stack", "--input", `{"stack":[9]}`)
	require.NoError(t, err)
	var run domain.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, algorithms.IDStack, run.Algorithm)
	assert.Equal(t, 2, run.Len())
}

func TestRootCommand_BadLogLevel(t *testing.T) {
	_, err := execute(t, "version", "--log-level", "chatty")
	assert.Error(t, err)
	require.NoError(t, rootCmd.PersistentFlags().Set("log-level", ""))
}

func TestNewCache(t *testing.T) {
	ctx := t.Context()

	c, release := newCache(ctx, config.CacheConfig{})
	defer release()
	assert.IsType(t, &memory.Cache{}, c)

	dir := t.TempDir()
	c, release = newCache(ctx, config.CacheConfig{Dir: dir})
	defer release()
	require.IsType(t, &file.Cache{}, c)
	assert.Equal(t, dir, c.(*file.Cache).BasePath)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	c, release = newCache(ctx, config.CacheConfig{RedisAddr: addr, Prefix: "t:"})
	defer release()
	assert.IsType(t, &redis.Cache{}, c)

	mr.Close()
	c, release = newCache(ctx, config.CacheConfig{RedisAddr: addr})
	defer release()
	assert.IsType(t, &memory.Cache{}, c, "unreachable redis falls back to memory")
}
