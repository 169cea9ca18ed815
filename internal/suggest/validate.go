package suggest

import (
	"fmt"
	"strings"

	"github.com/myrjola/intervalplan/internal/workout"
)

// Validate intersects ids with the eligible exercises, dropping unknown and repeated ids while keeping the order.
// It returns the canonical ids of the eligible exercises, or a [workout.SuggestionInsufficient] error when fewer than
// [workout.MinSuggestedExercises] remain.
func Validate(ids []string, eligible []workout.Exercise) ([]string, error) {
	known := make(map[string]string, len(eligible))
	for _, e := range eligible {
		known[strings.ToLower(e.ID)] = e.ID
	}
	var (
		validated []string
		seen      = make(map[string]bool, len(ids))
	)
	for _, id := range ids {
		key := strings.ToLower(strings.TrimSpace(id))
		canonical, ok := known[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		validated = append(validated, canonical)
	}
	if len(validated) < workout.MinSuggestedExercises {
		return nil, workout.NewSuggestionError(workout.SuggestionInsufficient,
			fmt.Errorf("only %d of %d suggested ids are eligible", len(validated), len(ids)))
	}
	return validated, nil
}
