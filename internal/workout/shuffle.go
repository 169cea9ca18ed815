package workout

import "slices"

// Shuffle returns a uniformly random permutation of items using Fisher-Yates. The input is left untouched.
//
// intN must return a uniformly distributed integer in [0, n), such as [math/rand/v2.IntN].
func Shuffle[T any](items []T, intN func(n int) int) []T {
	shuffled := slices.Clone(items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := intN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
