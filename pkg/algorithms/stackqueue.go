package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var (
	stackLines = struct{ push, pop int }{push: 4, pop: 6}
	queueLines = struct{ enqueue, dequeue int }{enqueue: 4, dequeue: 6}
)

// Stack records pushing every value, then a single pop.
func Stack(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.Stack)
	var stack []int
	capture := func() domain.VisualState {
		return domain.VisualState{
			Stack:    stack,
			Legend:   "Stack",
			Counters: counters("size", len(stack)),
		}
	}
	rec := recorder.New(capture())

	for i, v := range in.Stack {
		stack = append(stack, v)
		rec.Push(recorder.Entry{
			ID: fmt.Sprintf("push-%d", i), Kind: domain.KindPush, Line: stackLines.push,
			Description: fmt.Sprintf("Push %d", v),
			Vars:        domain.NewVars("value", v),
		}, capture())
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rec.Push(recorder.Entry{
			ID: "pop-0", Kind: domain.KindPop, Line: stackLines.pop,
			Description: fmt.Sprintf("Pop %d", top),
			Vars:        domain.NewVars("value", top),
		}, capture())
	}

	return rec.Run(IDStack)
}

// Queue records enqueuing every value, then a single dequeue.
func Queue(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.Queue)
	var queue []int
	capture := func() domain.VisualState {
		return domain.VisualState{
			Queue:    queue,
			Legend:   "Queue",
			Counters: counters("size", len(queue)),
		}
	}
	rec := recorder.New(capture())

	for i, v := range in.Queue {
		queue = append(queue, v)
		rec.Push(recorder.Entry{
			ID: fmt.Sprintf("enqueue-%d", i), Kind: domain.KindEnqueue, Line: queueLines.enqueue,
			Description: fmt.Sprintf("Enqueue %d", v),
			Vars:        domain.NewVars("value", v),
		}, capture())
	}

	if len(queue) > 0 {
		front := queue[0]
		queue = queue[1:]
		rec.Push(recorder.Entry{
			ID: "dequeue-0", Kind: domain.KindDequeue, Line: queueLines.dequeue,
			Description: fmt.Sprintf("Dequeue %d", front),
			Vars:        domain.NewVars("value", front),
		}, capture())
	}

	return rec.Run(IDQueue)
}
