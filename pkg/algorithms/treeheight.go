package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var heightLines = struct{ enter, guard, leaf, left, right, ret int }{enter: 1, guard: 2, leaf: 3, left: 4, right: 5, ret: 6}

type heightWalker struct {
	t        *binaryTree
	computed map[string]bool
	rec      *recorder.Recorder
	stack    *recorder.CallStack
}

// TreeHeight records a recursive max-depth computation, including the calls
// on null children.
func TreeHeight(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.TreeHeight)
	w := &heightWalker{
		t:        newBinaryTree(in.Tree),
		computed: make(map[string]bool),
		stack:    recorder.NewCallStack(),
	}
	w.rec = recorder.New(w.capture(""))

	if !w.t.exists(0) {
		w.rec.Push(recorder.Entry{
			ID:          "empty-tree",
			Kind:        domain.KindReturn,
			Line:        heightLines.guard,
			Description: "Empty tree -> depth 0",
			Vars:        domain.NewVars("depth", 0),
		}, w.capture(""))
		return w.rec.Run(IDTreeHeight)
	}

	w.depth(0)
	return w.rec.Run(IDTreeHeight)
}

func (w *heightWalker) capture(active string) domain.VisualState {
	return domain.VisualState{
		Tree: w.t.view(w.computed, active, func(e domain.TreeEdge) bool {
			return e.From == active || e.To == active
		}),
		Legend:   "Tree Height (Recursive DFS)",
		Counters: counters("computed", len(w.computed), "stack", w.stack.Depth()),
	}
}

func (w *heightWalker) push(id string, kind domain.StepKind, line int, desc string, vars domain.Vars, active string) {
	w.rec.Push(recorder.Entry{
		ID:          id,
		Kind:        kind,
		Line:        line,
		Description: desc,
		Vars:        vars,
		Stack:       w.stack,
	}, w.capture(active))
}

func (w *heightWalker) depth(i int) int {
	if !w.t.exists(i) {
		w.stack.Enter("maxDepth", domain.NewVars("node", nil), heightLines.ret)
		defer w.stack.Leave()
		suffix := fmt.Sprintf("null-%d", w.stack.Depth())
		w.push("enter-"+suffix, domain.KindInfo, heightLines.enter, "Call maxDepth(null)", domain.NewVars("node", nil), "")
		w.push("guard-"+suffix, domain.KindReturn, heightLines.guard, "Null -> depth 0", domain.NewVars("node", nil, "depth", 0), "")
		return 0
	}

	value := w.t.values[i]
	id := w.t.id(i)
	w.stack.Enter("maxDepth", domain.NewVars("node", value), heightLines.ret)
	defer w.stack.Leave()

	w.push(fmt.Sprintf("enter-%s-%d", id, w.stack.Depth()), domain.KindInfo, heightLines.enter,
		fmt.Sprintf("Call maxDepth(%d)", value), domain.NewVars("node", value), id)
	w.push(fmt.Sprintf("guard-%s-%d", id, w.stack.Depth()), domain.KindInfo, heightLines.guard,
		fmt.Sprintf("Node %d exists", value), domain.NewVars("node", value), id)

	if w.t.isLeaf(i) {
		w.computed[id] = true
		w.push("leaf-"+id, domain.KindReturn, heightLines.leaf,
			fmt.Sprintf("Leaf %d -> depth 1", value), domain.NewVars("node", value, "depth", 1), id)
		return 1
	}

	w.push("not-leaf-"+id, domain.KindInfo, heightLines.leaf,
		fmt.Sprintf("%d is not a leaf", value), domain.NewVars("node", value), id)

	w.push("recurse-left-"+id, domain.KindRecurse, heightLines.left,
		fmt.Sprintf("Recurse left of %d", value), domain.NewVars("node", value), id)
	left := w.depth(w.t.left(i))

	w.push("recurse-right-"+id, domain.KindRecurse, heightLines.right,
		fmt.Sprintf("Recurse right of %d", value), domain.NewVars("node", value), id)
	right := w.depth(w.t.right(i))

	d := 1 + max(left, right)
	w.computed[id] = true
	w.push("return-"+id, domain.KindReturn, heightLines.ret,
		fmt.Sprintf("Return 1 + max(%d, %d) = %d", left, right, d),
		domain.NewVars("node", value, "left", left, "right", right, "depth", d), id)
	return d
}
