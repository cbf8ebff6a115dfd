package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

// Stair count bounds.
const (
	StairsMin = 1
	StairsMax = 25
)

var stairsLines = struct{ fn, guard, init, base0, base1, loop, rec, ret int }{
	fn: 1, guard: 2, init: 3, base0: 4, base1: 5, loop: 6, rec: 7, ret: 9,
}

// ClimbStairs records the bottom-up DP counting the ways to climb n stairs
// taking one or two at a time. n comes from Input.N, then Input.Array[0],
// then the default, and is clamped to [StairsMin, StairsMax].
func ClimbStairs(in domain.Input) *domain.Run {
	n := valueOr(Defaults.ClimbStairs.N, 5)
	switch {
	case in.N != nil:
		n = *in.N
	case len(in.Array) > 0:
		n = in.Array[0]
	}
	n = clamp(n, StairsMin, StairsMax)

	dp := make([]int, n+1)
	capture := func(extra map[string]int, highlight ...int) domain.VisualState {
		c := counters("n", n)
		for k, v := range extra {
			c[k] = v
		}
		return domain.VisualState{
			Array:     dp,
			ArrayMode: domain.ArrayCells,
			Highlight: indices(highlight...),
			Counters:  c,
			Legend:    "Climbing Stairs (DP)",
		}
	}
	rec := recorder.New(capture(nil))

	rec.Push(recorder.Entry{
		ID: "start", Kind: domain.KindInfo, Line: stairsLines.fn,
		Description: fmt.Sprintf("Start climbStairs with n=%d", n),
		Vars:        domain.NewVars("n", n),
	}, capture(nil))

	if n <= 1 {
		dp[n] = 1
		rec.Push(recorder.Entry{
			ID: "base", Kind: domain.KindReturn, Line: stairsLines.guard,
			Description: "Base case n <= 1",
			Vars:        domain.NewVars("n", n, "result", 1),
		}, capture(nil, n))
		return rec.Run(IDClimbStairs)
	}

	rec.Push(recorder.Entry{
		ID: "init-array", Kind: domain.KindInfo, Line: stairsLines.init,
		Description: "Initialize dp array",
		Vars:        domain.NewVars("n", n),
	}, capture(nil))

	dp[0] = 1
	rec.Push(recorder.Entry{
		ID: "set-0", Kind: domain.KindWrite, Line: stairsLines.base0,
		Description: "dp[0] = 1",
		Vars:        domain.NewVars("index", 0),
	}, capture(nil, 0))

	dp[1] = 1
	rec.Push(recorder.Entry{
		ID: "set-1", Kind: domain.KindWrite, Line: stairsLines.base1,
		Description: "dp[1] = 1",
		Vars:        domain.NewVars("index", 1),
	}, capture(nil, 1))

	for i := 2; i <= n; i++ {
		rec.Push(recorder.Entry{
			ID: fmt.Sprintf("loop-%d", i), Kind: domain.KindInfo, Line: stairsLines.loop,
			Description: fmt.Sprintf("Compute dp[%d]", i),
			Vars:        domain.NewVars("i", i),
		}, capture(map[string]int{"i": i}, i, i-1, i-2))

		dp[i] = dp[i-1] + dp[i-2]
		rec.Push(recorder.Entry{
			ID: fmt.Sprintf("dp-%d", i), Kind: domain.KindWrite, Line: stairsLines.rec,
			Description: fmt.Sprintf("dp[%d] = dp[%d] + dp[%d] = %d", i, i-1, i-2, dp[i]),
			Vars:        domain.NewVars("i", i, "left", dp[i-1], "right", dp[i-2], "value", dp[i]),
		}, capture(map[string]int{"i": i}, i, i-1, i-2))
	}

	rec.Push(recorder.Entry{
		ID: "return", Kind: domain.KindReturn, Line: stairsLines.ret,
		Description: fmt.Sprintf("Return dp[%d] = %d", n, dp[n]),
		Vars:        domain.NewVars("result", dp[n]),
	}, capture(nil, n))

	return rec.Run(IDClimbStairs)
}
