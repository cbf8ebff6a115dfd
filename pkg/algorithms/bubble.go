package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var bubbleLines = struct{ outer, compare, swap int }{outer: 3, compare: 5, swap: 6}

// BubbleSort records an adjacent-swap sort. Every comparison and every swap is a step.
func BubbleSort(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.BubbleSort)
	arr := copyInts(in.Array)
	comparisons, swaps := 0, 0

	capture := func(highlight ...int) domain.VisualState {
		return domain.VisualState{
			Array:     arr,
			ArrayMode: domain.ArrayBars,
			Highlight: indices(highlight...),
			Counters:  counters("comparisons", comparisons, "swaps", swaps),
			Legend:    "Bubble Sort",
		}
	}
	rec := recorder.New(capture())

	for i := 0; i < len(arr); i++ {
		rec.Push(recorder.Entry{
			ID:          fmt.Sprintf("outer-%d", i),
			Kind:        domain.KindInfo,
			Line:        bubbleLines.outer,
			Description: fmt.Sprintf("Outer loop i=%d", i),
			Vars:        domain.NewVars("i", i),
		}, capture())

		for j := 0; j < len(arr)-i-1; j++ {
			comparisons++
			rec.Push(recorder.Entry{
				ID:          fmt.Sprintf("compare-%d-%d", i, j),
				Kind:        domain.KindCompare,
				Line:        bubbleLines.compare,
				Description: fmt.Sprintf("Compare indices %d and %d", j, j+1),
				Vars:        domain.NewVars("i", i, "j", j, "a", arr[j], "b", arr[j+1], "comparisons", comparisons, "swaps", swaps),
			}, capture(j, j+1))

			if arr[j] > arr[j+1] {
				swaps++
				arr[j], arr[j+1] = arr[j+1], arr[j]
				rec.Push(recorder.Entry{
					ID:          fmt.Sprintf("swap-%d-%d", i, j),
					Kind:        domain.KindSwap,
					Line:        bubbleLines.swap,
					Description: fmt.Sprintf("Swap %d and %d", arr[j+1], arr[j]),
					Vars:        domain.NewVars("i", i, "j", j, "arr", arr, "comparisons", comparisons, "swaps", swaps),
				}, capture(j, j+1))
			}
		}
	}

	return rec.Run(IDBubbleSort)
}
