package algorithms

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/aretw0/algotrace/pkg/domain"
)

// binaryTree is an array-encoded complete binary tree: the children of
// index i live at 2i+1 and 2i+2.
type binaryTree struct {
	values []int
	order  []int // preorder node indices
	edges  []domain.TreeEdge
}

func newBinaryTree(values []int) *binaryTree {
	t := &binaryTree{values: values}
	var walk func(i int)
	walk = func(i int) {
		if !t.exists(i) {
			return
		}
		t.order = append(t.order, i)
		for _, child := range []int{t.left(i), t.right(i)} {
			if t.exists(child) {
				t.edges = append(t.edges, domain.TreeEdge{
					ID:   fmt.Sprintf("%s-%s-%d", t.id(i), t.id(child), len(t.edges)),
					From: t.id(i),
					To:   t.id(child),
				})
			}
		}
		walk(t.left(i))
		walk(t.right(i))
	}
	walk(0)
	return t
}

func (t *binaryTree) exists(i int) bool { return i >= 0 && i < len(t.values) }
func (t *binaryTree) left(i int) int    { return 2*i + 1 }
func (t *binaryTree) right(i int) int   { return 2*i + 2 }
func (t *binaryTree) id(i int) string   { return "t" + strconv.Itoa(i) }

func (t *binaryTree) isLeaf(i int) bool {
	return !t.exists(t.left(i)) && !t.exists(t.right(i))
}

// level is floor(log2(i+1)).
func treeLevel(i int) int {
	return bits.Len(uint(i+1)) - 1
}

// view renders the tree. edgeActive decides which edges light up for the active node.
func (t *binaryTree) view(visited map[string]bool, active string, edgeActive func(e domain.TreeEdge) bool) *domain.TreeView {
	nodes := make([]domain.TreeNode, len(t.order))
	for k, i := range t.order {
		level := treeLevel(i)
		nodes[k] = domain.TreeNode{
			ID:      t.id(i),
			Label:   strconv.Itoa(t.values[i]),
			Level:   level,
			X:       float64(i),
			Y:       float64(level),
			Visited: visited[t.id(i)],
			Active:  active != "" && active == t.id(i),
		}
	}
	edges := make([]domain.TreeEdge, len(t.edges))
	for k, e := range t.edges {
		e.Active = active != "" && edgeActive(e)
		edges[k] = e
	}
	return &domain.TreeView{Nodes: nodes, Edges: edges}
}
