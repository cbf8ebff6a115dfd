package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/algotrace/internal/presentation/graph"
	"github.com/aretw0/algotrace/pkg/algorithms"
	"github.com/aretw0/algotrace/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		state    domain.VisualState
		contains []string
		excludes []string
	}{
		{
			name: "Graph Overlay",
			state: domain.VisualState{Graph: &domain.GraphView{
				Nodes: []domain.GraphNode{
					{ID: "A", Visited: true},
					{ID: "B", Active: true, Visited: true},
					{ID: "C", Frontier: true},
				},
				Edges: []domain.GraphEdge{
					{ID: "A-B", From: "A", To: "B", Visited: true},
					{ID: "A-C", From: "A", To: "C"},
				},
			}},
			contains: []string{
				"graph LR",
				`A(("A"))`,
				"A === B",
				"A --- C",
				"class A visited;",
				"class C frontier;",
				"class B current;",
			},
		},
		{
			name: "Tree Shape",
			state: domain.VisualState{Tree: &domain.TreeView{
				Nodes: []domain.TreeNode{{ID: "n-7", Label: "7"}, {ID: "n-3", Label: "3", Active: true}},
				Edges: []domain.TreeEdge{{ID: "e", From: "n-7", To: "n-3", Active: true}},
			}},
			contains: []string{"graph TD", `n_7["7"]`, "n_7 ==> n_3", "class n_3 current;"},
		},
		{
			name: "List Chain",
			state: domain.VisualState{List: []domain.ListNode{
				{ID: "l0", Value: 3, Next: "l1", Role: domain.RoleCurrent},
				{ID: "l1", Value: 1},
			}},
			contains: []string{"l0 --> l1", "l1 --> null_ref", "3 <br/> current"},
		},
		{
			name: "Quote Escaping",
			state: domain.VisualState{Graph: &domain.GraphView{
				Nodes: []domain.GraphNode{{ID: "q", Label: `say "hi"`}},
			}},
			contains: []string{`q(("say 'hi'"))`},
			excludes: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := graph.GenerateMermaid(tt.state)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_NoDiagram(t *testing.T) {
	_, err := graph.GenerateMermaid(domain.VisualState{Array: []int{1, 2}})
	assert.ErrorIs(t, err, graph.ErrNoDiagram)
}

func TestGenerateMermaid_ProducerSnapshots(t *testing.T) {
	for _, id := range []string{algorithms.IDBFS, algorithms.IDDFS, algorithms.IDTreeInorder, algorithms.IDMergeSort, algorithms.IDReverseList} {
		t.Run(id, func(t *testing.T) {
			run, err := algorithms.Build(id, domain.Input{})
			require.NoError(t, err)
			got, err := graph.GenerateMermaid(run.Final())
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, "graph "))
		})
	}
}
