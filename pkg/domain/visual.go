package domain

import (
	"maps"
	"slices"
)

// ArrayMode tells the renderer how to draw VisualState.Array.
type ArrayMode string

const (
	ArrayBars  ArrayMode = "bars"
	ArrayCells ArrayMode = "cells"
)

// ListRole marks a linked-list node that a pointer currently refers to.
type ListRole string

const (
	RoleHead    ListRole = "head"
	RoleTail    ListRole = "tail"
	RoleCurrent ListRole = "current"
)

// VisualState is a complete, self-contained snapshot of what to draw.
// Every field that is nil is simply absent from the picture.
type VisualState struct {
	Array     []int        `json:"array,omitempty"`
	ArrayMode ArrayMode    `json:"arrayMode,omitempty"`
	List      []ListNode   `json:"list,omitempty"`
	Stack     []int        `json:"stack,omitempty"`
	Queue     []int        `json:"queue,omitempty"`
	Table     []TableEntry `json:"table,omitempty"`
	Board     *Board       `json:"board,omitempty"`
	Graph     *GraphView   `json:"graph,omitempty"`
	Tree      *TreeView    `json:"tree,omitempty"`
	Highlight *Highlight   `json:"highlight,omitempty"`
	Legend    string       `json:"legend,omitempty"`

	// Counters are named running totals (comparisons, swaps, visited...).
	Counters map[string]int `json:"counters,omitempty"`
}

// ListNode is one node of a singly linked list. An empty Next is null.
type ListNode struct {
	ID    string   `json:"id"`
	Value int      `json:"value"`
	Next  string   `json:"next,omitempty"`
	Role  ListRole `json:"role,omitempty"`
	Pos   int      `json:"pos"`
}

// TableEntry is one row of an ordered association list, in insertion order.
type TableEntry struct {
	Key   int `json:"key"`
	Value int `json:"value"`
}

// Cell addresses one square of a Board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Queen is a placed queen on a Board.
type Queen struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Active   bool `json:"active,omitempty"`
	Conflict bool `json:"conflict,omitempty"`
}

// Board is an N-Queens chess board.
type Board struct {
	Size    int     `json:"size"`
	Queens  []Queen `json:"queens"`
	Attempt *Cell   `json:"attempt,omitempty"`
	Solved  bool    `json:"solved,omitempty"`
}

// GraphNode is a vertex of a GraphView.
type GraphNode struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Active   bool   `json:"active,omitempty"`
	Visited  bool   `json:"visited,omitempty"`
	Frontier bool   `json:"frontier,omitempty"`
}

// GraphEdge is an edge of a GraphView.
type GraphEdge struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	To      string `json:"to"`
	Active  bool   `json:"active,omitempty"`
	Visited bool   `json:"visited,omitempty"`
}

// GraphView is a general graph picture.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// TreeNode is a vertex of a TreeView laid out on a (X, Y) grid.
type TreeNode struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Level   int     `json:"level"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Active  bool    `json:"active,omitempty"`
	Visited bool    `json:"visited,omitempty"`
}

// TreeEdge links a parent TreeNode to a child.
type TreeEdge struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Active bool   `json:"active,omitempty"`
}

// TreeView is a rooted tree picture (binary trees, recursion trees).
type TreeView struct {
	Nodes []TreeNode `json:"nodes"`
	Edges []TreeEdge `json:"edges"`
}

// Highlight lists the elements a renderer should emphasise.
type Highlight struct {
	Indices []int    `json:"indices,omitempty"`
	Nodes   []string `json:"nodes,omitempty"`
	Edges   []string `json:"edges,omitempty"`
}

// Clone returns a deep copy. Mutating the copy never affects s.
func (s VisualState) Clone() VisualState {
	out := VisualState{
		Array:     cloneInts(s.Array),
		ArrayMode: s.ArrayMode,
		Stack:     cloneInts(s.Stack),
		Queue:     cloneInts(s.Queue),
		Legend:    s.Legend,
		Counters:  maps.Clone(s.Counters),
	}
	if s.List != nil {
		out.List = slices.Clone(s.List)
	}
	if s.Table != nil {
		out.Table = slices.Clone(s.Table)
	}
	if s.Board != nil {
		b := *s.Board
		if s.Board.Queens != nil {
			b.Queens = slices.Clone(s.Board.Queens)
		}
		if s.Board.Attempt != nil {
			attempt := *s.Board.Attempt
			b.Attempt = &attempt
		}
		out.Board = &b
	}
	if s.Graph != nil {
		out.Graph = &GraphView{
			Nodes: slices.Clone(s.Graph.Nodes),
			Edges: slices.Clone(s.Graph.Edges),
		}
	}
	if s.Tree != nil {
		out.Tree = &TreeView{
			Nodes: slices.Clone(s.Tree.Nodes),
			Edges: slices.Clone(s.Tree.Edges),
		}
	}
	if s.Highlight != nil {
		out.Highlight = &Highlight{
			Indices: cloneInts(s.Highlight.Indices),
			Nodes:   cloneStrings(s.Highlight.Nodes),
			Edges:   cloneStrings(s.Highlight.Edges),
		}
	}
	return out
}

func cloneInts(in []int) []int {
	return slices.Clone(in)
}

func cloneStrings(in []string) []string {
	return slices.Clone(in)
}
