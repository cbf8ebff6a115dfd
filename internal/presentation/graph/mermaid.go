package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/algotrace/pkg/domain"
)

// ErrNoDiagram is returned for snapshots without a graph, tree or list.
var ErrNoDiagram = errors.New("snapshot has no graph, tree or list to draw")

const classDefs = `
    %% Overlay Styles
    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;
    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;
    classDef frontier fill:#e8f5e9,stroke:#2e7d32,stroke-dasharray:4 2,color:#000;
`

// GenerateMermaid produces a Mermaid flowchart of the structural part of a
// snapshot. Graphs are drawn left to right with undirected links, trees top
// down, linked lists as a chain ending in null. Node flags become classes:
// visited, current (active) and frontier.
func GenerateMermaid(state domain.VisualState) (string, error) {
	switch {
	case state.Graph != nil:
		return graphMermaid(state.Graph), nil
	case state.Tree != nil:
		return treeMermaid(state.Tree), nil
	case state.List != nil:
		return listMermaid(state.List), nil
	default:
		return "", ErrNoDiagram
	}
}

func graphMermaid(g *domain.GraphView) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	var visited, current, frontier []string

	for _, n := range g.Nodes {
		safeID := sanitizeMermaidID(n.ID)
		fmt.Fprintf(&sb, "    %s((\"%s\"))\n", safeID, label(n.ID, n.Label))
		switch {
		case n.Active:
			current = append(current, safeID)
		case n.Frontier:
			frontier = append(frontier, safeID)
		case n.Visited:
			visited = append(visited, safeID)
		}
	}
	for _, e := range g.Edges {
		link := "---"
		if e.Active || e.Visited {
			link = "==="
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.From), link, sanitizeMermaidID(e.To))
	}

	writeClasses(&sb, visited, current, frontier)
	return sb.String()
}

func treeMermaid(t *domain.TreeView) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	var visited, current []string

	for _, n := range t.Nodes {
		safeID := sanitizeMermaidID(n.ID)
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", safeID, label(n.ID, n.Label))
		switch {
		case n.Active:
			current = append(current, safeID)
		case n.Visited:
			visited = append(visited, safeID)
		}
	}
	for _, e := range t.Edges {
		arrow := "-->"
		if e.Active {
			arrow = "==>"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To))
	}

	writeClasses(&sb, visited, current, nil)
	return sb.String()
}

func listMermaid(nodes []domain.ListNode) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	var current []string

	for _, n := range nodes {
		safeID := sanitizeMermaidID(n.ID)
		text := fmt.Sprint(n.Value)
		if n.Role != "" {
			text = fmt.Sprintf("%d <br/> %s", n.Value, n.Role)
			current = append(current, safeID)
		}
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", safeID, text)
	}
	sb.WriteString("    null_ref((null))\n")
	for _, n := range nodes {
		to := "null_ref"
		if n.Next != "" {
			to = sanitizeMermaidID(n.Next)
		}
		fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(n.ID), to)
	}

	writeClasses(&sb, nil, current, nil)
	return sb.String()
}

func writeClasses(sb *strings.Builder, visited, current, frontier []string) {
	if len(visited)+len(current)+len(frontier) == 0 {
		return
	}
	sb.WriteString(classDefs)
	for _, group := range []struct {
		class string
		ids   []string
	}{{"visited", visited}, {"frontier", frontier}, {"current", current}} {
		if len(group.ids) > 0 {
			fmt.Fprintf(sb, "    class %s %s;\n", strings.Join(group.ids, ","), group.class)
		}
	}
}

func label(id, text string) string {
	if text == "" {
		text = id
	}
	return strings.ReplaceAll(text, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
