package algorithms

import (
	"math/rand/v2"

	"github.com/aretw0/algotrace/pkg/domain"
)

// RandomArray returns length values in [1, maxValue]. Randomness stays out of
// the producers: generate the input first, then produce the run from it.
func RandomArray(rng *rand.Rand, length, maxValue int) []int {
	length = max(0, length)
	maxValue = max(1, maxValue)
	out := make([]int, length)
	for i := range out {
		out[i] = rng.IntN(maxValue) + 1
	}
	return out
}

// RandomInput fills the sequence field that kind reads with random values and
// leaves everything else nil, so catalog defaults still apply.
func RandomInput(rng *rand.Rand, kind InputKind, length, maxValue int) domain.Input {
	values := RandomArray(rng, length, maxValue)
	switch kind {
	case InputList:
		return domain.Input{List: values}
	case InputStack:
		return domain.Input{Stack: values}
	case InputQueue:
		return domain.Input{Queue: values}
	case InputTree:
		return domain.Input{Tree: values}
	case InputCoins:
		return domain.Input{Coins: values}
	case InputArray, InputTarget:
		return domain.Input{Array: values}
	default:
		return domain.Input{}
	}
}
