package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var twoSumLines = struct{ fn, mapInit, loop, need, find, check, ret, insert int }{
	fn: 1, mapInit: 2, loop: 3, need: 4, find: 5, check: 6, ret: 7, insert: 9,
}

// seenTable is an ordered association list from value to index. Updating an
// existing key keeps its position.
type seenTable []domain.TableEntry

func (t seenTable) lookup(key int) (int, bool) {
	for _, e := range t {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

func (t seenTable) set(key, value int) seenTable {
	for i := range t {
		if t[i].Key == key {
			t[i].Value = value
			return t
		}
	}
	return append(t, domain.TableEntry{Key: key, Value: value})
}

// TwoSum records the one-pass hash map search for two indices summing to target.
func TwoSum(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.TwoSum)
	nums := copyInts(in.Array)
	target := valueOr(in.Target, 9)
	seen := seenTable{}

	capture := func(legend string, highlight ...int) domain.VisualState {
		if legend == "" {
			legend = fmt.Sprintf("map size: %d", len(seen))
		}
		return domain.VisualState{
			Array:     nums,
			ArrayMode: domain.ArrayCells,
			Highlight: indices(highlight...),
			Table:     seen,
			Legend:    legend,
			Counters:  counters("target", target, "map", len(seen)),
		}
	}
	rec := recorder.New(capture("Ready to visualize"))
	push := func(id string, kind domain.StepKind, line int, desc string, vars domain.Vars, highlight ...int) {
		rec.Push(recorder.Entry{ID: id, Kind: kind, Line: line, Description: desc, Vars: vars}, capture("", highlight...))
	}

	push("start", domain.KindInfo, twoSumLines.fn, fmt.Sprintf("Start twoSum target=%d", target), domain.NewVars("target", target))
	push("init-map", domain.KindInfo, twoSumLines.mapInit, "Initialize empty map", nil)

	for i, num := range nums {
		push(fmt.Sprintf("loop-%d", i), domain.KindInfo, twoSumLines.loop,
			fmt.Sprintf("i=%d, num=%d", i, num), domain.NewVars("i", i, "num", num), i)

		need := target - num
		push(fmt.Sprintf("need-%d", i), domain.KindInfo, twoSumLines.need,
			fmt.Sprintf("need=%d", need), domain.NewVars("need", need, "i", i), i)
		push(fmt.Sprintf("find-%d", i), domain.KindRead, twoSumLines.find,
			fmt.Sprintf("lookup need=%d", need), domain.NewVars("need", need, "i", i), i)

		if j, ok := seen.lookup(need); ok {
			push(fmt.Sprintf("check-true-%d", i), domain.KindCompare, twoSumLines.check,
				fmt.Sprintf("map has %d -> true", need), domain.NewVars("need", need, "i", i), i, j)
			push(fmt.Sprintf("return-%d", i), domain.KindReturn, twoSumLines.ret,
				fmt.Sprintf("Return indices [%d, %d]", j, i), domain.NewVars("i", i, "j", j, "result", []int{j, i}), i, j)
			return rec.Run(IDTwoSum)
		}

		push(fmt.Sprintf("check-false-%d", i), domain.KindCompare, twoSumLines.check,
			fmt.Sprintf("map has %d -> false", need), domain.NewVars("need", need, "i", i), i)

		seen = seen.set(num, i)
		push(fmt.Sprintf("insert-%d", i), domain.KindWrite, twoSumLines.insert,
			fmt.Sprintf("Insert map[%d]=%d", num, i), domain.NewVars("i", i, "num", num), i)
	}

	push("no-solution", domain.KindReturn, twoSumLines.ret, "No solution found", domain.NewVars("result", []int{}))
	return rec.Run(IDTwoSum)
}
