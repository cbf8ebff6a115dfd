package algorithms

import (
	"fmt"

	"github.com/aretw0/algotrace/pkg/domain"
	"github.com/aretw0/algotrace/pkg/recorder"
)

// Amount bounds for coin change.
const (
	AmountMin = 1
	AmountMax = 50
)

var coinLines = struct{ fn, init, base, outer, inner, update, ret int }{
	fn: 1, init: 2, base: 3, outer: 4, inner: 5, update: 6, ret: 9,
}

// CoinChange records the bottom-up minimum-coin DP. Coins are floored at 1,
// the amount is clamped to [AmountMin, AmountMax] and an unreachable amount
// returns -1.
func CoinChange(in domain.Input) *domain.Run {
	in = in.WithDefaults(Defaults.CoinChange)
	coins := make([]int, len(in.Coins))
	for i, c := range in.Coins {
		coins[i] = max(1, c)
	}
	amount := clamp(valueOr(in.Amount, 11), AmountMin, AmountMax)
	inf := amount + 1

	dp := make([]int, amount+1)
	capture := func(extra map[string]int, highlight ...int) domain.VisualState {
		c := counters("amount", amount, "coins", len(coins))
		for k, v := range extra {
			c[k] = v
		}
		return domain.VisualState{
			Array:     dp,
			ArrayMode: domain.ArrayCells,
			Highlight: indices(highlight...),
			Counters:  c,
			Legend:    "Coin Change (min coins)",
		}
	}
	rec := recorder.New(capture(nil))
	for i := range dp {
		dp[i] = inf
	}

	rec.Push(recorder.Entry{
		ID: "start", Kind: domain.KindInfo, Line: coinLines.fn,
		Description: fmt.Sprintf("Start coinChange for amount=%d", amount),
		Vars:        domain.NewVars("amount", amount, "coins", coins),
	}, capture(nil))

	rec.Push(recorder.Entry{
		ID: "init-dp", Kind: domain.KindInfo, Line: coinLines.init,
		Description: "Init dp with INF",
		Vars:        domain.NewVars("INF", inf, "length", amount+1),
	}, capture(nil))

	dp[0] = 0
	rec.Push(recorder.Entry{
		ID: "set-zero", Kind: domain.KindWrite, Line: coinLines.base,
		Description: "dp[0] = 0",
		Vars:        domain.NewVars("index", 0),
	}, capture(nil, 0))

	for _, coin := range coins {
		rec.Push(recorder.Entry{
			ID: fmt.Sprintf("coin-%d", coin), Kind: domain.KindInfo, Line: coinLines.outer,
			Description: fmt.Sprintf("Use coin %d", coin),
			Vars:        domain.NewVars("coin", coin),
		}, capture(map[string]int{"coin": coin}))

		for a := coin; a <= amount; a++ {
			extra := map[string]int{"coin": coin, "a": a}
			rec.Push(recorder.Entry{
				ID: fmt.Sprintf("try-%d-%d", coin, a), Kind: domain.KindCompare, Line: coinLines.inner,
				Description: fmt.Sprintf("Check amount %d with coin %d", a, coin),
				Vars:        domain.NewVars("coin", coin, "amount", a, "prev", dp[a-coin]),
			}, capture(extra, a, a-coin))

			if candidate := 1 + dp[a-coin]; candidate < dp[a] {
				dp[a] = candidate
				rec.Push(recorder.Entry{
					ID: fmt.Sprintf("update-%d-%d", coin, a), Kind: domain.KindWrite, Line: coinLines.update,
					Description: fmt.Sprintf("Update dp[%d] = %d", a, candidate),
					Vars:        domain.NewVars("coin", coin, "a", a, "value", candidate),
				}, capture(extra, a, a-coin))
			}
		}
	}

	result := dp[amount]
	if result >= inf {
		result = -1
	}
	rec.Push(recorder.Entry{
		ID: "return", Kind: domain.KindReturn, Line: coinLines.ret,
		Description: fmt.Sprintf("Return %d", result),
		Vars:        domain.NewVars("result", result),
	}, capture(map[string]int{"result": result}, amount))

	return rec.Run(IDCoinChange)
}
