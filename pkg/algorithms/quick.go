package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var quickLines = struct {
	guard, partition, left, right, pivot, iInit, lessThan, swap, pivotSwap int
}{guard: 2, partition: 3, left: 4, right: 5, pivot: 10, iInit: 11, lessThan: 13, swap: 14, pivotSwap: 18}

type quickSorter struct {
	arr                []int
	swaps, comparisons int
	rec                *recorder.Recorder
	stack              *recorder.CallStack
}

// QuickSort records an in-place Lomuto quick sort with the last element as pivot.
func QuickSort(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.QuickSort)
	q := &quickSorter{arr: copyInts(in.Array), stack: recorder.NewCallStack()}
	q.rec = recorder.New(q.capture())
	q.sort(0, len(q.arr)-1)
	return q.rec.Run(IDQuickSort)
}

func (q *quickSorter) capture(highlight ...int) domain.VisualState {
	return domain.VisualState{
		Array:     q.arr,
		ArrayMode: domain.ArrayBars,
		Highlight: indices(highlight...),
		Legend:    "Quick Sort",
		Counters:  counters("swaps", q.swaps, "comparisons", q.comparisons),
	}
}

func (q *quickSorter) push(id string, kind domain.StepKind, line int, desc string, vars domain.Vars, highlight ...int) {
	q.rec.Push(recorder.Entry{
		ID:          id,
		Kind:        kind,
		Line:        line,
		Description: desc,
		Vars:        vars,
		Stack:       q.stack,
	}, q.capture(highlight...))
}

func (q *quickSorter) sort(low, high int) {
	q.stack.Enter("quickSort", domain.NewVars("low", low, "high", high), quickLines.partition)
	defer q.stack.Leave()

	if low >= high {
		q.push(fmt.Sprintf("base-%d-%d", low, high), domain.KindReturn, quickLines.guard,
			fmt.Sprintf("Range %d-%d has at most one element", low, high), domain.NewVars("low", low, "high", high))
		return
	}

	q.push(fmt.Sprintf("partition-%d-%d", low, high), domain.KindPartition, quickLines.partition,
		fmt.Sprintf("Partition range %d-%d", low, high), domain.NewVars("low", low, "high", high))
	p := q.partition(low, high)

	q.push(fmt.Sprintf("left-%d-%d", low, p-1), domain.KindRecurse, quickLines.left,
		fmt.Sprintf("Left recursion %d-%d", low, p-1), domain.NewVars("low", low, "high", p-1))
	q.sort(low, p-1)

	q.push(fmt.Sprintf("right-%d-%d", p+1, high), domain.KindRecurse, quickLines.right,
		fmt.Sprintf("Right recursion %d-%d", p+1, high), domain.NewVars("low", p+1, "high", high))
	q.sort(p+1, high)
}

func (q *quickSorter) partition(low, high int) int {
	pivot := q.arr[high]
	i := low
	scope := fmt.Sprintf("%d-%d", low, high)

	q.push("pivot-"+scope, domain.KindInfo, quickLines.pivot,
		fmt.Sprintf("Pivot %d at %d", pivot, high), domain.NewVars("pivot", pivot, "low", low, "high", high), high)
	q.push("i-"+scope, domain.KindInfo, quickLines.iInit,
		fmt.Sprintf("i starts at %d", i), domain.NewVars("i", i), i)

	for j := low; j < high; j++ {
		q.comparisons++
		q.push(fmt.Sprintf("loop-%s-%d", scope, j), domain.KindCompare, quickLines.lessThan,
			fmt.Sprintf("Compare arr[%d] < pivot", j), domain.NewVars("j", j, "pivot", pivot, "value", q.arr[j], "comparisons", q.comparisons), j, high)
		if q.arr[j] < pivot {
			q.arr[i], q.arr[j] = q.arr[j], q.arr[i]
			q.swaps++
			q.push(fmt.Sprintf("swap-%s-%d-%d", scope, i, j), domain.KindSwap, quickLines.swap,
				fmt.Sprintf("Swap indices %d and %d", i, j), domain.NewVars("i", i, "j", j, "swaps", q.swaps), i, j)
			i++
		}
	}

	q.arr[i], q.arr[high] = q.arr[high], q.arr[i]
	q.swaps++
	q.push(fmt.Sprintf("pivot-swap-%s", scope), domain.KindSwap, quickLines.pivotSwap,
		fmt.Sprintf("Place pivot at position %d", i), domain.NewVars("i", i, "high", high, "swaps", q.swaps), i, high)
	return i
}
