package algorithms

import (
	"fmt"
	"slices"

	"github.com/aretw0/algotrace/pkg/domain"
)

// graphModel is the working form of a GraphInput: declared nodes, plus any
// edge endpoint that was not declared, and an undirected adjacency list
// ordered by edge insertion.
type graphModel struct {
	nodes []string
	edges []domain.Edge
	adj   map[string][]string
	start string
}

func newGraphModel(in *domain.GraphInput) *graphModel {
	g := &graphModel{adj: make(map[string][]string)}
	if in == nil {
		return g
	}
	add := func(id string) {
		if _, ok := g.adj[id]; !ok {
			g.adj[id] = []string{}
			g.nodes = append(g.nodes, id)
		}
	}
	for _, n := range in.Nodes {
		add(n)
	}
	for _, e := range in.Edges {
		add(e[0])
		add(e[1])
		g.adj[e[0]] = append(g.adj[e[0]], e[1])
		g.adj[e[1]] = append(g.adj[e[1]], e[0])
		g.edges = append(g.edges, e)
	}
	g.start = in.Start
	if !slices.Contains(g.nodes, g.start) && len(g.nodes) > 0 {
		g.start = g.nodes[0]
	}
	return g
}

func (g *graphModel) empty() bool {
	return len(g.nodes) == 0
}

// view builds a GraphView. current and neighbor mark the active pair.
func (g *graphModel) view(visited map[string]bool, frontier func(string) bool, current, neighbor string) *domain.GraphView {
	nodes := make([]domain.GraphNode, len(g.nodes))
	for i, id := range g.nodes {
		nodes[i] = domain.GraphNode{
			ID:       id,
			Label:    id,
			Visited:  visited[id],
			Frontier: frontier(id),
			Active:   id != "" && (id == current || id == neighbor),
		}
	}
	edges := make([]domain.GraphEdge, len(g.edges))
	for i, e := range g.edges {
		from, to := e[0], e[1]
		edges[i] = domain.GraphEdge{
			ID:      edgeID(e, i),
			From:    from,
			To:      to,
			Visited: visited[from] && visited[to],
			Active:  current != "" && neighbor != "" && ((from == current && to == neighbor) || (to == current && from == neighbor)),
		}
	}
	return &domain.GraphView{Nodes: nodes, Edges: edges}
}

func edgeID(e domain.Edge, idx int) string {
	return fmt.Sprintf("%s-%s-%d", e[0], e[1], idx)
}

func noFrontier(string) bool { return false }
