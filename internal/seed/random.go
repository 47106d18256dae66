package seed

import "math/rand/v2"

// between returns a uniform int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// sample picks k distinct items in random order.
func sample[T any](rng *rand.Rand, items []T, k int) []T {
	k = min(k, len(items))
	out := make([]T, 0, k)
	for _, i := range rng.Perm(len(items))[:k] {
		out = append(out, items[i])
	}
	return out
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}
