package domain_test

import (
	"testing"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestVisualState_CloneIsIndependent(t *testing.T) {
	orig := domain.VisualState{
		Array:     []int{1, 2},
		List:      []domain.ListNode{{ID: "n0", Value: 1}},
		Table:     []domain.TableEntry{{Key: 2, Value: 0}},
		Board:     &domain.Board{Size: 4, Queens: []domain.Queen{{Row: 0, Col: 1}}, Attempt: &domain.Cell{Row: 1, Col: 2}},
		Graph:     &domain.GraphView{Nodes: []domain.GraphNode{{ID: "A"}}},
		Tree:      &domain.TreeView{Nodes: []domain.TreeNode{{ID: "t0"}}},
		Highlight: &domain.Highlight{Indices: []int{0}, Nodes: []string{"A"}},
		Counters:  map[string]int{"swaps": 1},
	}

	c := orig.Clone()
	c.Array[0] = 9
	c.List[0].Value = 9
	c.Table[0].Key = 9
	c.Board.Queens[0].Col = 3
	c.Board.Attempt.Row = 3
	c.Graph.Nodes[0].Visited = true
	c.Tree.Nodes[0].Active = true
	c.Highlight.Indices[0] = 5
	c.Counters["swaps"] = 7

	assert.Equal(t, 1, orig.Array[0])
	assert.Equal(t, 1, orig.List[0].Value)
	assert.Equal(t, 2, orig.Table[0].Key)
	assert.Equal(t, 1, orig.Board.Queens[0].Col)
	assert.Equal(t, 1, orig.Board.Attempt.Row)
	assert.False(t, orig.Graph.Nodes[0].Visited)
	assert.False(t, orig.Tree.Nodes[0].Active)
	assert.Equal(t, 0, orig.Highlight.Indices[0])
	assert.Equal(t, 1, orig.Counters["swaps"])
}

func TestRun_At(t *testing.T) {
	run := &domain.Run{
		Initial: domain.VisualState{Array: []int{2, 1}},
		Steps: []domain.Step{
			{ID: "s0", Kind: domain.KindSwap, State: domain.VisualState{Array: []int{1, 2}}},
		},
	}

	step, state := run.At(-1)
	assert.Nil(t, step)
	assert.Equal(t, []int{2, 1}, state.Array)

	step, state = run.At(0)
	assert.Equal(t, "s0", step.ID)
	assert.Equal(t, []int{1, 2}, state.Array)
	assert.Equal(t, []int{1, 2}, run.Final().Array)
	assert.Equal(t, 1, run.CountKind(domain.KindSwap))

	var empty *domain.Run
	assert.Equal(t, 0, empty.Len())
	assert.Nil(t, empty.Clone())
}

func TestRun_Clone(t *testing.T) {
	run := &domain.Run{
		Algorithm: "bubble-sort",
		Initial:   domain.VisualState{Array: []int{2, 1}},
		Steps: []domain.Step{
			{ID: "s0", Variables: domain.NewVars("arr", []int{1, 2}), State: domain.VisualState{Array: []int{1, 2}}},
		},
	}

	c := run.Clone()
	c.Initial.Array[0] = 9
	c.Steps[0].State.Array[0] = 9
	c.Steps[0].ID = "changed"
	arr, _ := c.Steps[0].Variables.Get("arr")
	arr.([]int)[0] = 9

	assert.Equal(t, "bubble-sort", c.Algorithm)
	assert.Equal(t, []int{2, 1}, run.Initial.Array)
	assert.Equal(t, []int{1, 2}, run.Steps[0].State.Array)
	assert.Equal(t, "s0", run.Steps[0].ID)
	orig, _ := run.Steps[0].Variables.Get("arr")
	assert.Equal(t, []int{1, 2}, orig)
}

func TestStepKind_Valid(t *testing.T) {
	for _, k := range domain.StepKinds {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, domain.StepKind("jump").Valid())
}
