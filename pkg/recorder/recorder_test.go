package recorder_test

import (
	"testing"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_PushCopiesWorkingMemory(t *testing.T) {
	arr := []int{3, 1, 2}
	rec := recorder.New(domain.VisualState{Array: arr})

	rec.Push(recorder.Entry{Kind: domain.KindInfo, Vars: domain.NewVars("arr", arr)}, domain.VisualState{Array: arr})
	arr[0] = 100
	rec.Push(recorder.Entry{Kind: domain.KindWrite}, domain.VisualState{Array: arr})

	run := rec.Run("test")
	assert.Equal(t, []int{3, 1, 2}, run.Initial.Array)
	require.Len(t, run.Steps, 2)
	assert.Equal(t, []int{3, 1, 2}, run.Steps[0].State.Array)
	got, _ := run.Steps[0].Variables.Get("arr")
	assert.Equal(t, []int{3, 1, 2}, got)
	assert.Equal(t, []int{100, 1, 2}, run.Steps[1].State.Array)
}

func TestRecorder_DefaultIDs(t *testing.T) {
	rec := recorder.New(domain.VisualState{})
	rec.Push(recorder.Entry{Kind: domain.KindCompare}, domain.VisualState{})
	rec.Push(recorder.Entry{ID: "custom", Kind: domain.KindSwap}, domain.VisualState{})

	run := rec.Run("test")
	assert.Equal(t, "compare-0", run.Steps[0].ID)
	assert.Equal(t, "custom", run.Steps[1].ID)
}

func TestRecorder_EmptyRunHasNonNilSteps(t *testing.T) {
	run := recorder.New(domain.VisualState{}).Run("test")
	assert.NotNil(t, run.Steps)
	assert.Equal(t, 0, run.Len())
}

func TestCallStack_SnapshotAtPushTime(t *testing.T) {
	rec := recorder.New(domain.VisualState{})
	stack := recorder.NewCallStack()

	stack.Enter("f", domain.NewVars("n", 2), 0)
	rec.Push(recorder.Entry{Kind: domain.KindRecurse, Stack: stack}, domain.VisualState{})
	stack.Enter("f", domain.NewVars("n", 1), 4)
	rec.Push(recorder.Entry{Kind: domain.KindRecurse, Stack: stack}, domain.VisualState{})
	stack.Leave()
	rec.Push(recorder.Entry{Kind: domain.KindReturn, Stack: stack}, domain.VisualState{})
	stack.Leave()
	stack.Leave()
	rec.Push(recorder.Entry{Kind: domain.KindInfo}, domain.VisualState{})

	run := rec.Run("test")
	assert.Len(t, run.Steps[0].CallStack, 1)
	assert.Len(t, run.Steps[1].CallStack, 2)
	assert.Equal(t, 4, run.Steps[1].CallStack[1].ReturnLine)
	assert.Len(t, run.Steps[2].CallStack, 1)
	assert.Nil(t, run.Steps[3].CallStack)
	assert.Equal(t, 0, stack.Depth())
}

func TestCallStack_Contains(t *testing.T) {
	stack := recorder.NewCallStack()
	stack.Enter("dfs", domain.NewVars("node", "A"), 0)

	isA := func(f domain.Frame) bool {
		v, _ := f.Params.Get("node")
		return v == "A"
	}
	assert.True(t, stack.Contains(isA))
	stack.Leave()
	assert.False(t, stack.Contains(isA))
}

func TestRecorder_RepeatedIDsStayUnique(t *testing.T) {
	rec := recorder.New(domain.VisualState{})
	rec.Push(recorder.Entry{ID: "enter-A", Kind: domain.KindInfo}, domain.VisualState{})
	rec.Push(recorder.Entry{ID: "enter-A", Kind: domain.KindInfo}, domain.VisualState{})
	rec.Push(recorder.Entry{ID: "enter-A", Kind: domain.KindInfo}, domain.VisualState{})

	run := rec.Run("test")
	assert.Equal(t, "enter-A", run.Steps[0].ID)
	assert.Equal(t, "enter-A#1", run.Steps[1].ID)
	assert.Equal(t, "enter-A#2", run.Steps[2].ID)
}
