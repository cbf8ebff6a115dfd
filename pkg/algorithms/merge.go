package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var mergeLines = struct {
	fn, base, mid, left, right, mergeCall, mergeIf, pushLeft, pushRight, concat int
}{fn: 1, base: 2, mid: 3, left: 4, right: 5, mergeCall: 6, mergeIf: 14, pushLeft: 15, pushRight: 18, concat: 22}

type mergeTreeNode struct {
	id, label, parent string
	level             int
}

type mergeSorter struct {
	arr         []int
	comparisons int
	tree        []mergeTreeNode
	rec         *recorder.Recorder
	stack       *recorder.CallStack
}

// MergeSort records a top-down stable merge sort, including the recursion
// tree of subranges and every compare/write of the merge step.
func MergeSort(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.MergeSort)
	m := &mergeSorter{arr: copyInts(in.Array), stack: recorder.NewCallStack()}
	m.rec = recorder.New(m.capture())

	if len(m.arr) == 0 {
		m.rec.Push(recorder.Entry{
			ID:          "empty",
			Kind:        domain.KindReturn,
			Line:        mergeLines.base,
			Description: "Base case, nothing to sort",
		}, m.capture())
		return m.rec.Run(IDMergeSort)
	}

	m.sort(0, len(m.arr)-1, fmt.Sprintf("n-%d-%d", 0, len(m.arr)-1), "", 0)
	return m.rec.Run(IDMergeSort)
}

func (m *mergeSorter) capture(highlight ...int) domain.VisualState {
	nodes := make([]domain.TreeNode, len(m.tree))
	var edges []domain.TreeEdge
	for i, n := range m.tree {
		nodes[i] = domain.TreeNode{
			ID:      n.id,
			Label:   n.label,
			Level:   n.level,
			X:       float64(i),
			Y:       float64(n.level),
			Visited: true,
		}
		if n.parent != "" {
			edges = append(edges, domain.TreeEdge{ID: fmt.Sprintf("edge-%d", len(edges)), From: n.parent, To: n.id})
		}
	}
	return domain.VisualState{
		Array:     m.arr,
		ArrayMode: domain.ArrayBars,
		Highlight: indices(highlight...),
		Counters:  counters("comparisons", m.comparisons),
		Legend:    "Merge Sort",
		Tree:      &domain.TreeView{Nodes: nodes, Edges: edges},
	}
}

func (m *mergeSorter) push(id string, kind domain.StepKind, line int, desc string, vars domain.Vars, highlight ...int) {
	m.rec.Push(recorder.Entry{
		ID:          id,
		Kind:        kind,
		Line:        line,
		Description: desc,
		Vars:        vars,
		Stack:       m.stack,
	}, m.capture(highlight...))
}

func (m *mergeSorter) sort(l, r int, path, parent string, level int) {
	m.tree = append(m.tree, mergeTreeNode{id: path, label: fmt.Sprintf("%d-%d", l, r), parent: parent, level: level})
	m.stack.Enter("mergeSort", domain.NewVars("l", l, "r", r), mergeLines.mergeCall)
	defer m.stack.Leave()

	m.push(fmt.Sprintf("call-%s", path), domain.KindInfo, mergeLines.fn,
		fmt.Sprintf("Call mergeSort(%d, %d)", l, r), domain.NewVars("l", l, "r", r, "path", path))

	if l >= r {
		m.push(fmt.Sprintf("base-%s", path), domain.KindReturn, mergeLines.base,
			"Base case reached", domain.NewVars("l", l, "r", r, "path", path))
		return
	}

	mid := (l + r) / 2
	m.push(fmt.Sprintf("mid-%s", path), domain.KindInfo, mergeLines.mid,
		fmt.Sprintf("mid=%d", mid), domain.NewVars("l", l, "r", r, "mid", mid, "path", path))

	m.push(fmt.Sprintf("left-%s", path), domain.KindRecurse, mergeLines.left,
		"Recurse left half", domain.NewVars("l", l, "mid", mid, "path", path))
	m.sort(l, mid, path+"-L", path, level+1)

	m.push(fmt.Sprintf("right-%s", path), domain.KindRecurse, mergeLines.right,
		"Recurse right half", domain.NewVars("mid", mid+1, "r", r, "path", path))
	m.sort(mid+1, r, path+"-R", path, level+1)

	m.push(fmt.Sprintf("merge-%s", path), domain.KindMerge, mergeLines.mergeCall,
		fmt.Sprintf("Merge halves l=%d, mid=%d, r=%d", l, mid, r), domain.NewVars("l", l, "mid", mid, "r", r, "path", path))

	m.merge(l, mid, r, path)
}

func (m *mergeSorter) merge(l, mid, r int, path string) {
	left := copyInts(m.arr[l : mid+1])
	right := copyInts(m.arr[mid+1 : r+1])
	i, j, k := 0, 0, l

	for i < len(left) && j < len(right) {
		m.comparisons++
		m.push(fmt.Sprintf("compare-%s-%d", path, k), domain.KindCompare, mergeLines.mergeIf,
			fmt.Sprintf("Compare left[%d]=%d and right[%d]=%d", i, left[i], j, right[j]),
			domain.NewVars("i", l+i, "j", mid+1+j, "k", k, "comparisons", m.comparisons),
			k, l+i, mid+1+j)

		if left[i] <= right[j] {
			m.arr[k] = left[i]
			m.push(fmt.Sprintf("write-left-%s-%d", path, k), domain.KindWrite, mergeLines.pushLeft,
				fmt.Sprintf("Place %d from left into position %d", left[i], k),
				domain.NewVars("value", left[i], "k", k, "comparisons", m.comparisons), k)
			i++
		} else {
			m.arr[k] = right[j]
			m.push(fmt.Sprintf("write-right-%s-%d", path, k), domain.KindWrite, mergeLines.pushRight,
				fmt.Sprintf("Place %d from right into position %d", right[j], k),
				domain.NewVars("value", right[j], "k", k, "comparisons", m.comparisons), k)
			j++
		}
		k++
	}

	for ; i < len(left); i, k = i+1, k+1 {
		m.arr[k] = left[i]
		m.push(fmt.Sprintf("concat-left-%s-%d", path, k), domain.KindWrite, mergeLines.concat,
			fmt.Sprintf("Append remaining left value %d to position %d", left[i], k),
			domain.NewVars("value", left[i], "k", k), k)
	}

	for ; j < len(right); j, k = j+1, k+1 {
		m.arr[k] = right[j]
		m.push(fmt.Sprintf("concat-right-%s-%d", path, k), domain.KindWrite, mergeLines.concat,
			fmt.Sprintf("Append remaining right value %d to position %d", right[j], k),
			domain.NewVars("value", right[j], "k", k), k)
	}
}
