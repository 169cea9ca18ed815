package workout

import (
	"slices"
	"strings"
)

// Tag facets observed in the catalog.
const (
	facetEquipment  = "equipment"
	facetDifficulty = "difficulty"
	facetGoal       = "goal"
	facetType       = "type"
)

// Facets is the typed view of an exercise's free-text tags. It is computed once by [Classify] and the tag strings
// are never looked at again downstream.
type Facets struct {
	Equipment    []Equipment
	Difficulties []Difficulty
	Goals        []string
	Types        []string
}

// Classify parses tags of the form facet:value. Unknown facets and empty values are ignored. A difficulty value
// that cannot be parsed counts as [DifficultyAdvanced].
//
// An exercise without equipment tags requires bodyweight only and an exercise without difficulty tags is a beginner
// exercise, the most permissive value of each facet.
func Classify(e Exercise) Facets {
	var f Facets
	for _, tag := range e.Tags {
		facet, value, ok := strings.Cut(tag, ":")
		if !ok {
			continue
		}
		facet = strings.ToLower(strings.TrimSpace(facet))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch facet {
		case facetEquipment:
			f.Equipment = appendUnique(f.Equipment, NormalizeEquipment(value))
		case facetDifficulty:
			d, err := ParseDifficulty(value)
			if err != nil {
				d = DifficultyAdvanced
			}
			f.Difficulties = appendUnique(f.Difficulties, d)
		case facetGoal:
			f.Goals = appendUnique(f.Goals, strings.ToLower(value))
		case facetType:
			f.Types = appendUnique(f.Types, strings.ToLower(value))
		}
	}
	if len(f.Equipment) == 0 {
		f.Equipment = []Equipment{EquipmentBodyweight}
	}
	if len(f.Difficulties) == 0 {
		f.Difficulties = []Difficulty{DifficultyBeginner}
	}
	return f
}

// UsableWith reports whether at least one of the exercise's equipment options is in owned.
func (f Facets) UsableWith(owned []Equipment) bool {
	for _, e := range f.Equipment {
		if slices.Contains(owned, e) {
			return true
		}
	}
	return false
}

// WithinCeiling reports whether at least one of the exercise's difficulties is at or below ceiling.
func (f Facets) WithinCeiling(ceiling Difficulty) bool {
	for _, d := range f.Difficulties {
		if d <= ceiling {
			return true
		}
	}
	return false
}

func appendUnique[T comparable](s []T, v T) []T {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}
