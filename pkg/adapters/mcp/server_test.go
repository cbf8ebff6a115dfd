package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/algotrace"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/permalink"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestListAlgorithms(t *testing.T) {
	s := NewServer(algotrace.New())
	ctx := context.Background()

	res, err := s.handleListAlgorithms(ctx, callRequest("list_algorithms", nil))
	require.NoError(t, err)
	var all []algorithms.Definition
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &all))
	assert.Len(t, all, len(algorithms.All()))

	res, err = s.handleListAlgorithms(ctx, callRequest("list_algorithms", map[string]any{"category": "graphs"}))
	require.NoError(t, err)
	var graphs []algorithms.Definition
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &graphs))
	require.Len(t, graphs, 2)
	assert.Equal(t, algorithms.IDBFS, graphs[0].ID)
	assert.Equal(t, algorithms.IDDFS, graphs[1].ID)
}

func TestBuildRun(t *testing.T) {
	s := NewServer(algotrace.New())
	args := map[string]any{"algorithm_id": "bubble-sort", "input": `{"array":[5,1,4,2,8,3]}`}

	summary, err := s.handleBuildRun(context.Background(), callRequest("build_run", args), args)
	require.NoError(t, err)
	assert.Equal(t, "bubble-sort", summary.AlgorithmID)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 8}, summary.Final.Array)
	assert.Equal(t, 7, summary.Kinds[domain.KindSwap])

	p, err := permalink.Decode(summary.Permalink)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 1, 4, 2, 8, 3}, p.Input.Array)
}

func TestBuildRun_Errors(t *testing.T) {
	s := NewServer(algotrace.New())
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]any
		want error
	}{
		{"Unknown Algorithm", map[string]any{"algorithm_id": "nope"}, domain.ErrAlgorithmNotFound},
		{"Malformed Input", map[string]any{"algorithm_id": "bfs", "input": "{"}, domain.ErrInvalidInput},
		{"Unknown Field", map[string]any{"algorithm_id": "bfs", "input": `{"colour":"red"}`}, domain.ErrInvalidInput},
		{"Wrong Input Type", map[string]any{"algorithm_id": "bfs", "input": 42.0}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleBuildRun(ctx, callRequest("build_run", tt.args), tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetStep(t *testing.T) {
	s := NewServer(algotrace.New())
	ctx := context.Background()

	args := map[string]any{"algorithm_id": "stack", "index": 1.0, "input": map[string]any{"stack": "4,5"}}
	e, err := s.handleGetStep(ctx, callRequest("get_step", args), args)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, 3, e.Total)
	require.NotNil(t, e.Step)
	assert.Equal(t, domain.KindPush, e.Step.Kind)
	assert.Equal(t, []int{4, 5}, e.State.Stack)

	args["index"] = -1.0
	e, err = s.handleGetStep(ctx, callRequest("get_step", args), args)
	require.NoError(t, err)
	assert.Nil(t, e.Step)
	assert.Empty(t, e.State.Stack)

	for _, bad := range []any{3.0, -2.0, 0.5, "one"} {
		args["index"] = bad
		_, err = s.handleGetStep(ctx, callRequest("get_step", args), args)
		assert.Error(t, err, "index %v", bad)
	}
}

func TestPermalinkTools(t *testing.T) {
	s := NewServer(algotrace.New())
	ctx := context.Background()

	res, err := s.handleEncodePermalink(ctx, callRequest("encode_permalink", map[string]any{
		"algorithm_id": "coin-change",
		"input":        `{"coins":[1,2],"amount":3}`,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	state := resultText(t, res)

	res, err = s.handleDecodePermalink(ctx, callRequest("decode_permalink", map[string]any{"state": state}))
	require.NoError(t, err)
	var p permalink.Payload
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &p))
	assert.Equal(t, "coin-change", p.AlgorithmID)
	assert.Equal(t, []int{1, 2}, p.Input.Coins)
	require.NotNil(t, p.Input.Amount)
	assert.Equal(t, 3, *p.Input.Amount)

	res, err = s.handleEncodePermalink(ctx, callRequest("encode_permalink", map[string]any{"algorithm_id": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleDecodePermalink(ctx, callRequest("decode_permalink", map[string]any{"state": "!!"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRegistered(t *testing.T) {
	s := NewServer(algotrace.New())

	tools := s.MCPServer().ListTools()
	for _, name := range []string{"list_algorithms", "build_run", "get_step", "encode_permalink", "decode_permalink"} {
		assert.Contains(t, tools, name)
	}
}
