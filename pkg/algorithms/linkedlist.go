package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var listLines = struct{ loop, nextNode, link, advancePrev, advanceCurrent int }{
	loop: 4, nextNode: 5, link: 6, advancePrev: 7, advanceCurrent: 8,
}

var listRecLines = struct{ def, base, recurse, rewire, nullify, ret int }{
	def: 1, base: 2, recurse: 3, rewire: 4, nullify: 5, ret: 6,
}

// listModel is a singly linked list keyed by node ID. An empty ID is null.
type listModel struct {
	nodes   []domain.ListNode
	index   map[string]int
	head    string
	rewired int
	legend  string
}

func newListModel(values []int, legend string) *listModel {
	l := &listModel{index: make(map[string]int, len(values)), legend: legend}
	for i, v := range values {
		n := domain.ListNode{ID: fmt.Sprintf("n%d", i), Value: v, Pos: i}
		if i < len(values)-1 {
			n.Next = fmt.Sprintf("n%d", i+1)
		}
		l.index[n.ID] = i
		l.nodes = append(l.nodes, n)
	}
	if len(l.nodes) > 0 {
		l.head = l.nodes[0].ID
	}
	return l
}

func (l *listModel) next(id string) string {
	if i, ok := l.index[id]; ok {
		return l.nodes[i].Next
	}
	return ""
}

func (l *listModel) setNext(id, next string) {
	if i, ok := l.index[id]; ok {
		l.nodes[i].Next = next
		l.rewired++
	}
}

// capture assigns roles with precedence current, head, tail.
func (l *listModel) capture(current string) domain.VisualState {
	tail := ""
	for _, n := range l.nodes {
		if n.Next == "" {
			tail = n.ID
			break
		}
	}
	nodes := make([]domain.ListNode, len(l.nodes))
	for i, n := range l.nodes {
		n.Role = ""
		switch {
		case current != "" && n.ID == current:
			n.Role = domain.RoleCurrent
		case l.head != "" && n.ID == l.head:
			n.Role = domain.RoleHead
		case n.ID == tail:
			n.Role = domain.RoleTail
		}
		nodes[i] = n
	}
	return domain.VisualState{
		List:     nodes,
		Legend:   l.legend,
		Counters: counters("rewired", l.rewired),
	}
}

// nullable renders an empty node ID as a null binding.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func orNull(id string) string {
	if id == "" {
		return "null"
	}
	return id
}

// ReverseList records the iterative prev/current pointer walk.
func ReverseList(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.ReverseList)
	l := newListModel(in.List, "Reverse Linked List")
	current := l.head
	prev := ""
	rec := recorder.New(l.capture(current))

	if current == "" {
		rec.Push(recorder.Entry{
			ID:          "empty",
			Kind:        domain.KindReturn,
			Line:        listLines.loop,
			Description: "Empty list, nothing to reverse",
		}, l.capture(""))
		return rec.Run(IDReverseList)
	}

	for current != "" {
		next := l.next(current)
		rec.Push(recorder.Entry{
			ID:          "next-" + current,
			Kind:        domain.KindRead,
			Line:        listLines.nextNode,
			Description: fmt.Sprintf("Store next of %s", current),
			Vars:        domain.NewVars("current", current, "next", nullable(next), "head", nullable(l.head), "prev", nullable(prev)),
		}, l.capture(current))

		l.setNext(current, prev)
		rec.Push(recorder.Entry{
			ID:          "rewire-" + current,
			Kind:        domain.KindWrite,
			Line:        listLines.link,
			Description: fmt.Sprintf("Point %s.next to %s", current, orNull(prev)),
			Vars:        domain.NewVars("current", current, "prev", nullable(prev), "head", nullable(l.head)),
		}, l.capture(current))

		prev = current
		l.head = prev
		rec.Push(recorder.Entry{
			ID:          "advance-prev-" + current,
			Kind:        domain.KindInfo,
			Line:        listLines.advancePrev,
			Description: fmt.Sprintf("Move prev to %s", current),
			Vars:        domain.NewVars("prev", prev, "head", l.head),
		}, l.capture(current))

		current = next
		rec.Push(recorder.Entry{
			ID:          "advance-curr-" + orNull(current),
			Kind:        domain.KindInfo,
			Line:        listLines.advanceCurrent,
			Description: fmt.Sprintf("Move current to %s", orNull(current)),
			Vars:        domain.NewVars("current", nullable(current), "head", l.head, "prev", prev),
		}, l.capture(current))
	}

	return rec.Run(IDReverseList)
}

type listReverser struct {
	l     *listModel
	rec   *recorder.Recorder
	stack *recorder.CallStack
}

// ReverseListRecursive records the recursive reversal: recurse to the tail,
// then rewire each node on the way back up.
func ReverseListRecursive(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.ReverseListRecursive)
	r := &listReverser{
		l:     newListModel(in.List, "Reverse Linked List (Recursive)"),
		stack: recorder.NewCallStack(),
	}
	r.rec = recorder.New(r.l.capture(""))

	if r.l.head == "" {
		r.rec.Push(recorder.Entry{
			ID:          "empty",
			Kind:        domain.KindReturn,
			Line:        listRecLines.base,
			Description: "Empty list, nothing to reverse",
		}, r.l.capture(""))
		return r.rec.Run(IDReverseListRecursive)
	}

	r.reverse(r.l.head)
	return r.rec.Run(IDReverseListRecursive)
}

func (r *listReverser) push(id string, kind domain.StepKind, line int, desc string, vars domain.Vars, current string) {
	r.rec.Push(recorder.Entry{
		ID:          id,
		Kind:        kind,
		Line:        line,
		Description: desc,
		Vars:        vars,
		Stack:       r.stack,
	}, r.l.capture(current))
}

func (r *listReverser) reverse(node string) string {
	r.stack.Enter("reverseList", domain.NewVars("node", nullable(node)), listRecLines.recurse)
	defer r.stack.Leave()

	name := orNull(node)
	r.push("enter-"+name, domain.KindInfo, listRecLines.def,
		fmt.Sprintf("Call reverseList(%s)", name), domain.NewVars("node", nullable(node), "head", nullable(r.l.head)), node)
	r.push("guard-"+name, domain.KindInfo, listRecLines.base,
		"Check base case (null or tail)", domain.NewVars("node", nullable(node), "head", nullable(r.l.head)), node)

	if _, ok := r.l.index[node]; !ok {
		r.push("return-null-"+name, domain.KindReturn, listRecLines.base,
			"Return node (base)", domain.NewVars("node", nullable(node), "head", nullable(r.l.head)), node)
		return node
	}

	next := r.l.next(node)
	if next == "" {
		r.l.head = node
		r.push("return-tail-"+node, domain.KindReturn, listRecLines.base,
			"Tail reached, return as new head", domain.NewVars("node", node, "head", node), node)
		return node
	}

	r.push("recurse-"+node, domain.KindRecurse, listRecLines.recurse,
		fmt.Sprintf("rest = reverseList(%s)", next), domain.NewVars("node", node, "next", next, "head", nullable(r.l.head)), node)

	newHead := r.reverse(next)
	r.l.head = newHead
	r.push("after-recurse-"+node, domain.KindInfo, listRecLines.recurse,
		fmt.Sprintf("Recurse returned head=%s", orNull(newHead)), domain.NewVars("node", node, "next", next, "head", nullable(newHead)), node)

	r.l.setNext(next, node)
	r.push("rewire-"+node, domain.KindWrite, listRecLines.rewire,
		fmt.Sprintf("Set %s.next = %s", next, node), domain.NewVars("node", node, "next", next, "head", nullable(newHead)), node)

	r.l.setNext(node, "")
	r.push("nullify-"+node, domain.KindWrite, listRecLines.nullify,
		fmt.Sprintf("Set %s.next = null", node), domain.NewVars("node", node, "head", nullable(newHead)), node)

	r.push("return-"+node, domain.KindReturn, listRecLines.ret,
		fmt.Sprintf("Return head=%s", orNull(newHead)), domain.NewVars("node", node, "head", nullable(newHead)), node)
	return newHead
}
