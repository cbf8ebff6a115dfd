package algorithms

import (
	"fmt"
	"slices"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var bfsLines = struct{ initQueue, markVisited, dequeue, neighbors, checkVisited, enqueue int }{
	initQueue: 3, markVisited: 4, dequeue: 6, neighbors: 7, checkVisited: 8, enqueue: 10,
}

// BFS records a breadth-first traversal. Nodes are marked visited when
// enqueued; neighbors are explored in edge insertion order.
func BFS(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.BFS)
	g := newGraphModel(in.Graph)
	visited := make(map[string]bool)
	var queue []string
	inQueue := func(id string) bool { return slices.Contains(queue, id) }

	capture := func(current, neighbor string) domain.VisualState {
		return domain.VisualState{
			Graph:    g.view(visited, inQueue, current, neighbor),
			Legend:   "BFS",
			Counters: counters("visited", len(visited), "queue", len(queue)),
		}
	}
	rec := recorder.New(capture("", ""))

	if g.empty() {
		rec.Push(recorder.Entry{
			ID:          "empty",
			Kind:        domain.KindInfo,
			Line:        bfsLines.initQueue,
			Description: "Graph is empty, nothing to traverse",
		}, capture("", ""))
		return rec.Run(IDBFS)
	}

	start := g.start
	queue = append(queue, start)
	rec.Push(recorder.Entry{
		ID:          "init-queue",
		Kind:        domain.KindEnqueue,
		Line:        bfsLines.initQueue,
		Description: fmt.Sprintf("Queue start %s", start),
		Vars:        domain.NewVars("start", start),
	}, capture("", ""))

	visited[start] = true
	rec.Push(recorder.Entry{
		ID:          "mark-start",
		Kind:        domain.KindMark,
		Line:        bfsLines.markVisited,
		Description: fmt.Sprintf("Mark %s visited", start),
		Vars:        domain.NewVars("start", start),
	}, capture(start, ""))

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		rec.Push(recorder.Entry{
			ID:          "dequeue-" + node,
			Kind:        domain.KindDequeue,
			Line:        bfsLines.dequeue,
			Description: fmt.Sprintf("Dequeue %s", node),
			Vars:        domain.NewVars("node", node, "queue", slices.Clone(queue)),
		}, capture(node, ""))

		for _, neighbor := range g.adj[node] {
			rec.Push(recorder.Entry{
				ID:          fmt.Sprintf("neighbor-%s-%s", node, neighbor),
				Kind:        domain.KindVisit,
				Line:        bfsLines.neighbors,
				Description: fmt.Sprintf("Inspect neighbor %s of %s", neighbor, node),
				Vars:        domain.NewVars("node", node, "neighbor", neighbor),
			}, capture(node, neighbor))

			if visited[neighbor] {
				continue
			}
			rec.Push(recorder.Entry{
				ID:          "check-" + neighbor,
				Kind:        domain.KindCompare,
				Line:        bfsLines.checkVisited,
				Description: fmt.Sprintf("%s not visited", neighbor),
				Vars:        domain.NewVars("neighbor", neighbor),
			}, capture(node, neighbor))

			visited[neighbor] = true
			queue = append(queue, neighbor)
			rec.Push(recorder.Entry{
				ID:          "enqueue-" + neighbor,
				Kind:        domain.KindEnqueue,
				Line:        bfsLines.enqueue,
				Description: fmt.Sprintf("Enqueue %s", neighbor),
				Vars:        domain.NewVars("neighbor", neighbor, "queue", slices.Clone(queue)),
			}, capture(node, neighbor))
		}
	}

	return rec.Run(IDBFS)
}
