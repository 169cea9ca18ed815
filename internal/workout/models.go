package workout

import (
	"fmt"
	"slices"
	"strings"
)

// Exercise is a catalog entry. Exercises are immutable while a plan is generated.
type Exercise struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	InstructionsMarkdown string   `json:"instructionsMarkdown"`
	MediaURL             string   `json:"mediaUrl"`
	DurationSeconds      int      `json:"durationSeconds"`
	Tags                 []string `json:"tags"`
}

// Difficulty is the ordered difficulty scale beginner < intermediate < advanced.
type Difficulty int

const (
	DifficultyBeginner Difficulty = iota + 1
	DifficultyIntermediate
	DifficultyAdvanced
)

// ParseDifficulty parses a difficulty label case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return DifficultyBeginner, nil
	case "intermediate":
		return DifficultyIntermediate, nil
	case "advanced":
		return DifficultyAdvanced, nil
	default:
		return 0, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidPreferences, s)
	}
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyBeginner:
		return "beginner"
	case DifficultyIntermediate:
		return "intermediate"
	case DifficultyAdvanced:
		return "advanced"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// MarshalText encodes the difficulty as its label.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("marshal %s", d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a difficulty label.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Difficulty) valid() bool {
	return d >= DifficultyBeginner && d <= DifficultyAdvanced
}

// Equipment is a normalised equipment facet value such as "bodyweight" or "dumbbell".
type Equipment string

// EquipmentBodyweight is the lowest-common-denominator equipment every user has.
const EquipmentBodyweight Equipment = "bodyweight"

// NormalizeEquipment lower-cases and trims s, joins words with underscores and maps "none" to bodyweight.
func NormalizeEquipment(s string) Equipment {
	s = strings.Join(strings.Fields(strings.ToLower(s)), "_")
	switch s {
	case "", "none", "no_equipment", "body_weight":
		return EquipmentBodyweight
	default:
		return Equipment(s)
	}
}

// Preferences is the questionnaire answered by the user for a single plan.
type Preferences struct {
	// Goal is a soft signal passed to the suggestion service, it never excludes exercises.
	Goal            string      `json:"goal"`
	Equipment       []Equipment `json:"equipment"`
	DurationMinutes int         `json:"durationMinutes"`
	Difficulty      Difficulty  `json:"difficulty"`
	// Language selects the labels used when talking to the suggestion service. Defaults to English.
	Language string `json:"language,omitempty"`
}

// Validate reports whether the preferences can be used to generate a plan.
func (p Preferences) Validate() error {
	switch {
	case len(p.Equipment) == 0:
		return fmt.Errorf("%w: equipment must not be empty", ErrInvalidPreferences)
	case p.DurationMinutes <= 0:
		return fmt.Errorf("%w: duration must be positive, got %d minutes", ErrInvalidPreferences, p.DurationMinutes)
	case !p.Difficulty.valid():
		return fmt.Errorf("%w: unknown difficulty %d", ErrInvalidPreferences, int(p.Difficulty))
	}
	return nil
}

// Normalized returns a copy with normalised goal and de-duplicated equipment values.
func (p Preferences) Normalized() Preferences {
	equipment := make([]Equipment, 0, len(p.Equipment))
	for _, e := range p.Equipment {
		n := NormalizeEquipment(string(e))
		if !slices.Contains(equipment, n) {
			equipment = append(equipment, n)
		}
	}
	return Preferences{
		Goal:            strings.Join(strings.Fields(strings.ToLower(p.Goal)), "_"),
		Equipment:       equipment,
		DurationMinutes: p.DurationMinutes,
		Difficulty:      p.Difficulty,
		Language:        strings.ToLower(strings.TrimSpace(p.Language)),
	}
}

// TargetSeconds is the requested plan length.
func (p Preferences) TargetSeconds() int {
	return p.DurationMinutes * 60 //nolint:mnd // seconds in a minute
}

// ItemKind tells exercise intervals from rest intervals.
type ItemKind string

const (
	ItemKindExercise ItemKind = "exercise"
	ItemKindRest     ItemKind = "rest"
)

// PlanItem is a single timed interval of a plan.
type PlanItem struct {
	Kind            ItemKind
	DurationSeconds int
	// Exercise is nil for rest items.
	Exercise *Exercise
	Title    string
}

// Plan is an ordered sequence of intervals that starts and ends with an exercise and alternates with rests.
type Plan []PlanItem

// TotalSeconds sums the durations of all items.
func (p Plan) TotalSeconds() int {
	total := 0
	for _, item := range p {
		total += item.DurationSeconds
	}
	return total
}

// ExerciseCount counts the exercise items.
func (p Plan) ExerciseCount() int {
	count := 0
	for _, item := range p {
		if item.Kind == ItemKindExercise {
			count++
		}
	}
	return count
}

// Validate checks the structural invariants: non-empty, exercise first and last, no two exercises back-to-back,
// no two rests back-to-back and positive durations.
func (p Plan) Validate() error {
	if len(p) == 0 {
		return ErrInvalidPlan
	}
	if p[0].Kind != ItemKindExercise || p[len(p)-1].Kind != ItemKindExercise {
		return fmt.Errorf("%w: plan must start and end with an exercise", ErrInvalidPlan)
	}
	for i, item := range p {
		if item.DurationSeconds <= 0 {
			return fmt.Errorf("%w: item %d has non-positive duration", ErrInvalidPlan, i)
		}
		if (item.Kind == ItemKindExercise) != (item.Exercise != nil) {
			return fmt.Errorf("%w: item %d exercise reference does not match kind %s", ErrInvalidPlan, i, item.Kind)
		}
		if i > 0 && p[i-1].Kind == item.Kind {
			return fmt.Errorf("%w: items %d and %d are both %s", ErrInvalidPlan, i-1, i, item.Kind)
		}
	}
	return nil
}

// Tier identifies the fallback tier that produced a plan.
type Tier string

const (
	TierEdge   Tier = "edge"
	TierDirect Tier = "direct"
	TierLocal  Tier = "local"
)

// Result is a generated plan together with the tier that produced it.
type Result struct {
	Plan Plan
	Tier Tier
}
