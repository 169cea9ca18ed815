package workout_test

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/intervalplan/internal/workout"
)

func TestShuffle_Uniform(t *testing.T) {
	const (
		runs = 10_000
		n    = 5
		// Expected count per cell is runs/n = 2000 with a standard deviation of 40.
		tolerance = 200
	)
	input := []int{0, 1, 2, 3, 4}
	intN := rand.New(rand.NewPCG(1, 2)).IntN //nolint:gosec // deterministic test randomness.

	var counts [n][n]int
	for range runs {
		for position, value := range workout.Shuffle(input, intN) {
			counts[value][position]++
		}
	}

	for value := range n {
		for position := range n {
			if got := counts[value][position]; got < runs/n-tolerance || got > runs/n+tolerance {
				t.Errorf("value %d at position %d %d times, want %d±%d", value, position, got, runs/n, tolerance)
			}
		}
	}
}

func TestShuffle_KeepsInput(t *testing.T) {
	input := []string{"a", "b", "c", "d"}
	intN := rand.New(rand.NewPCG(3, 4)).IntN //nolint:gosec // deterministic test randomness.

	got := workout.Shuffle(input, intN)

	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, input); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
	if len(got) != len(input) {
		t.Fatalf("len = %d, want %d", len(got), len(input))
	}
	seen := make(map[string]bool)
	for _, s := range got {
		seen[s] = true
	}
	if len(seen) != len(input) {
		t.Errorf("Shuffle() = %v, not a permutation of %v", got, input)
	}
	if empty := workout.Shuffle([]string{}, intN); len(empty) != 0 {
		t.Errorf("Shuffle(empty) = %v", empty)
	}
}
