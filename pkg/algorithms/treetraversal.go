package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var inorderLines = struct{ guard, left, visit, right int }{guard: 2, left: 3, visit: 4, right: 5}

type inorderWalker struct {
	t       *binaryTree
	visited map[string]bool
	order   []int
	rec     *recorder.Recorder
	stack   *recorder.CallStack
}

// TreeInorder records an inorder traversal of an array-encoded binary tree.
func TreeInorder(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.TreeInorder)
	w := &inorderWalker{
		t:       newBinaryTree(in.Tree),
		visited: make(map[string]bool),
		stack:   recorder.NewCallStack(),
	}
	w.rec = recorder.New(w.capture(""))
	w.walk(0)
	return w.rec.Run(IDTreeInorder)
}

func (w *inorderWalker) capture(active string) domain.VisualState {
	return domain.VisualState{
		Tree: w.t.view(w.visited, active, func(e domain.TreeEdge) bool {
			return e.From == active
		}),
		Legend:   "Binary Tree Traversal",
		Counters: counters("visited", len(w.visited)),
	}
}

func (w *inorderWalker) push(id string, kind domain.StepKind, line int, desc string, i int) {
	w.rec.Push(recorder.Entry{
		ID:          id,
		Kind:        kind,
		Line:        line,
		Description: desc,
		Vars:        domain.NewVars("node", w.t.values[i], "order", append([]int{}, w.order...)),
		Stack:       w.stack,
	}, w.capture(w.t.id(i)))
}

func (w *inorderWalker) walk(i int) {
	if !w.t.exists(i) {
		return
	}
	value := w.t.values[i]
	id := w.t.id(i)
	w.stack.Enter("inorder", domain.NewVars("node", value), inorderLines.visit)
	defer w.stack.Leave()

	w.push("left-"+id, domain.KindRecurse, inorderLines.left, fmt.Sprintf("Go left from %d", value), i)
	w.walk(w.t.left(i))

	w.visited[id] = true
	w.order = append(w.order, value)
	w.push("visit-"+id, domain.KindVisit, inorderLines.visit, fmt.Sprintf("Visit %d", value), i)

	w.push("right-"+id, domain.KindRecurse, inorderLines.right, fmt.Sprintf("Go right from %d", value), i)
	w.walk(w.t.right(i))
}
