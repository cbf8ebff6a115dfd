package algorithms

import (
	"github.com/aretw0/algotrace/pkg/domain"
)

func indices(idx ...int) *domain.Highlight {
	return &domain.Highlight{Indices: idx}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func valueOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func copyInts(in []int) []int {
	return append([]int{}, in...)
}

func counters(kv ...any) map[string]int {
	out := make(map[string]int, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1].(int)
	}
	return out
}
