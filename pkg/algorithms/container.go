package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

var containerLines = struct{ fn, init, loop, area, best, move, ret int }{
	fn: 1, init: 2, loop: 3, area: 4, best: 5, move: 6, ret: 8,
}

// ContainerWater records the two-pointer search for the largest container.
func ContainerWater(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.ContainerWater)
	h := copyInts(in.Array)
	l, r, best := 0, len(h)-1, 0

	capture := func(legend string, area int, highlight ...int) domain.VisualState {
		if legend == "" {
			legend = fmt.Sprintf("best=%d", best)
		}
		return domain.VisualState{
			Array:     h,
			ArrayMode: domain.ArrayBars,
			Highlight: indices(highlight...),
			Legend:    legend,
			Counters:  counters("l", l, "r", r, "best", best, "area", area),
		}
	}
	rec := recorder.New(capture("Ready to visualize", 0))
	push := func(id string, kind domain.StepKind, line int, desc string, vars domain.Vars, area int, highlight ...int) {
		rec.Push(recorder.Entry{ID: id, Kind: kind, Line: line, Description: desc, Vars: vars}, capture("", area, highlight...))
	}

	push("start", domain.KindInfo, containerLines.fn, "Start maxArea", nil, 0)
	if r < 0 {
		push("init", domain.KindInfo, containerLines.init, "l=0, r=-1, best=0", domain.NewVars("l", l, "r", r, "best", best), 0)
	} else {
		push("init", domain.KindInfo, containerLines.init, fmt.Sprintf("l=0, r=%d, best=0", r), domain.NewVars("l", l, "r", r, "best", best), 0, l, r)
	}

	for l < r {
		scope := fmt.Sprintf("%d-%d", l, r)
		push("loop-"+scope, domain.KindInfo, containerLines.loop,
			fmt.Sprintf("loop while l(%d) < r(%d)", l, r), domain.NewVars("l", l, "r", r, "best", best), 0, l, r)

		area := min(h[l], h[r]) * (r - l)
		push("area-"+scope, domain.KindInfo, containerLines.area,
			fmt.Sprintf("area=%d", area), domain.NewVars("l", l, "r", r, "area", area, "hl", h[l], "hr", h[r]), area, l, r)

		if area > best {
			best = area
			push("best-"+scope, domain.KindWrite, containerLines.best,
				fmt.Sprintf("best=%d", best), domain.NewVars("best", best, "l", l, "r", r, "area", area), area, l, r)
		} else {
			push("best-skip-"+scope, domain.KindInfo, containerLines.best,
				fmt.Sprintf("best stays %d", best), domain.NewVars("best", best, "l", l, "r", r, "area", area), area, l, r)
		}

		if h[l] < h[r] {
			push("move-left-"+scope, domain.KindInfo, containerLines.move,
				"h[l] < h[r], move l++", domain.NewVars("l", l, "r", r, "hl", h[l], "hr", h[r]), area, l, r)
			l++
		} else {
			push("move-right-"+scope, domain.KindInfo, containerLines.move,
				"h[l] >= h[r], move r--", domain.NewVars("l", l, "r", r, "hl", h[l], "hr", h[r]), area, l, r)
			r--
		}
	}

	push("return", domain.KindReturn, containerLines.ret, fmt.Sprintf("Return best=%d", best), domain.NewVars("best", best), 0)
	return rec.Run(IDContainerWater)
}
