package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var dfsLines = struct{ guard, mark, loop, recurse int }{guard: 2, mark: 3, loop: 4, recurse: 5}

type dfsWalker struct {
	g       *graphModel
	visited map[string]bool
	rec     *recorder.Recorder
	stack   *recorder.CallStack
}

// DFS records a recursive depth-first traversal. Every neighbor is recursed
// into; an already visited node returns immediately.
func DFS(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.DFS)
	w := &dfsWalker{
		g:       newGraphModel(in.Graph),
		visited: make(map[string]bool),
		stack:   recorder.NewCallStack(),
	}
	w.rec = recorder.New(w.capture("", ""))

	if w.g.empty() {
		w.rec.Push(recorder.Entry{
			ID:          "empty",
			Kind:        domain.KindInfo,
			Line:        dfsLines.guard,
			Description: "Graph is empty, nothing to traverse",
		}, w.capture("", ""))
		return w.rec.Run(IDDFS)
	}

	w.visit(w.g.start)
	return w.rec.Run(IDDFS)
}

func (w *dfsWalker) onStack(id string) bool {
	return w.stack.Contains(func(f domain.Frame) bool {
		node, _ := f.Params.Get("node")
		return node == id
	})
}

func (w *dfsWalker) capture(current, neighbor string) domain.VisualState {
	return domain.VisualState{
		Graph:    w.g.view(w.visited, w.onStack, current, neighbor),
		Legend:   "DFS",
		Counters: counters("visited", len(w.visited), "depth", w.stack.Depth()),
	}
}

func (w *dfsWalker) push(id string, kind domain.StepKind, line int, desc string, vars domain.Vars, current, neighbor string) {
	w.rec.Push(recorder.Entry{
		ID:          id,
		Kind:        kind,
		Line:        line,
		Description: desc,
		Vars:        vars,
		Stack:       w.stack,
	}, w.capture(current, neighbor))
}

func (w *dfsWalker) visit(node string) {
	w.stack.Enter("dfs", domain.NewVars("node", node), dfsLines.recurse)
	defer w.stack.Leave()

	w.push("enter-"+node, domain.KindInfo, dfsLines.guard,
		fmt.Sprintf("Visit %s", node), domain.NewVars("node", node), node, "")

	if w.visited[node] {
		w.push("already-"+node, domain.KindReturn, dfsLines.guard,
			fmt.Sprintf("%s already visited", node), domain.NewVars("node", node), node, "")
		return
	}

	w.visited[node] = true
	w.push("mark-"+node, domain.KindMark, dfsLines.mark,
		fmt.Sprintf("Mark %s visited", node), domain.NewVars("node", node), node, "")

	for _, neighbor := range w.g.adj[node] {
		w.push(fmt.Sprintf("loop-%s-%s", node, neighbor), domain.KindVisit, dfsLines.loop,
			fmt.Sprintf("Explore neighbor %s", neighbor), domain.NewVars("node", node, "neighbor", neighbor), node, neighbor)
		w.visit(neighbor)
	}
}
