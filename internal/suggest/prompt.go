// Package suggest asks a language model for an ordered selection of exercises and turns its free-text answer into
// validated exercise ids.
package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/myrjola/intervalplan/internal/i18n"
	"github.com/myrjola/intervalplan/internal/workout"
)

// ExercisePayload is an eligible exercise as sent to the suggestion service.
type ExercisePayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Duration    int      `json:"duration"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// PreferencesPayload is the questionnaire as sent to the suggestion service.
type PreferencesPayload struct {
	Goal            string   `json:"goal"`
	DurationMinutes int      `json:"durationMinutes"`
	Difficulty      string   `json:"difficulty"`
	Equipment       []string `json:"equipment"`
	Language        string   `json:"language,omitempty"`
}

// ProxyRequest is the body posted to the edge proxy.
type ProxyRequest struct {
	Exercises   []ExercisePayload  `json:"exercises"`
	Preferences PreferencesPayload `json:"preferences"`
}

// ProxyResponse is the body returned by the edge proxy.
type ProxyResponse struct {
	Success             bool     `json:"success"`
	SelectedExerciseIDs []string `json:"selectedExerciseIds,omitempty"`
	Error               string   `json:"error,omitempty"`
}

// NewProxyRequest serialises the eligible set and preferences.
func NewProxyRequest(eligible []workout.Exercise, prefs workout.Preferences) ProxyRequest {
	exercises := make([]ExercisePayload, len(eligible))
	for i, e := range eligible {
		exercises[i] = ExercisePayload{
			ID:          e.ID,
			Name:        e.Name,
			Duration:    e.DurationSeconds,
			Description: e.InstructionsMarkdown,
			Tags:        e.Tags,
		}
	}
	equipment := make([]string, len(prefs.Equipment))
	for i, e := range prefs.Equipment {
		equipment[i] = string(e)
	}
	return ProxyRequest{
		Exercises: exercises,
		Preferences: PreferencesPayload{
			Goal:            prefs.Goal,
			DurationMinutes: prefs.DurationMinutes,
			Difficulty:      prefs.Difficulty.String(),
			Equipment:       equipment,
			Language:        prefs.Language,
		},
	}
}

// ToDomain converts the request back into exercises and preferences.
func (r ProxyRequest) ToDomain() ([]workout.Exercise, workout.Preferences, error) {
	difficulty, err := workout.ParseDifficulty(r.Preferences.Difficulty)
	if err != nil {
		return nil, workout.Preferences{}, err
	}
	equipment := make([]workout.Equipment, len(r.Preferences.Equipment))
	for i, e := range r.Preferences.Equipment {
		equipment[i] = workout.Equipment(e)
	}
	prefs := workout.Preferences{
		Goal:            r.Preferences.Goal,
		Equipment:       equipment,
		DurationMinutes: r.Preferences.DurationMinutes,
		Difficulty:      difficulty,
		Language:        r.Preferences.Language,
	}
	if err = prefs.Validate(); err != nil {
		return nil, workout.Preferences{}, err
	}

	exercises := make([]workout.Exercise, 0, len(r.Exercises))
	for _, e := range r.Exercises {
		if e.ID == "" || e.Duration <= 0 {
			return nil, workout.Preferences{}, fmt.Errorf("%w: exercise %q without id or duration",
				workout.ErrInvalidPreferences, e.Name)
		}
		exercises = append(exercises, workout.Exercise{
			ID:                   e.ID,
			Name:                 e.Name,
			InstructionsMarkdown: e.Description,
			MediaURL:             "",
			DurationSeconds:      e.Duration,
			Tags:                 e.Tags,
		})
	}
	return exercises, prefs.Normalized(), nil
}

// systemPrompt frames every request sent to the language model.
const systemPrompt = "You are a certified personal trainer who designs short interval workouts. " +
	"You only pick exercises from the list you are given and you answer with a JSON array of exercise ids."

// BuildPrompt describes the preferences in human-readable form and lists the eligible exercises.
func BuildPrompt(eligible []workout.Exercise, prefs workout.Preferences, restSeconds int) (string, error) {
	lang := i18n.ParseLanguage(prefs.Language)

	equipment := make([]string, len(prefs.Equipment))
	for i, e := range prefs.Equipment {
		equipment[i] = i18n.Label(lang, "equipment", string(e))
	}
	goal := "general_fitness"
	if prefs.Goal != "" {
		goal = prefs.Goal
	}

	exercises, err := json.Marshal(NewProxyRequest(eligible, prefs).Exercises)
	if err != nil {
		return "", fmt.Errorf("marshal exercises: %w", err)
	}

	var b strings.Builder
	b.WriteString("Design a workout for this client.\n\n")
	fmt.Fprintf(&b, "Goal: %s\n", i18n.Label(lang, "goal", goal))
	fmt.Fprintf(&b, "Target duration: %d minutes (%d seconds)\n", prefs.DurationMinutes, prefs.TargetSeconds())
	fmt.Fprintf(&b, "Difficulty: %s\n", i18n.Label(lang, "difficulty", prefs.Difficulty.String()))
	fmt.Fprintf(&b, "Available equipment: %s\n", strings.Join(equipment, ", "))
	fmt.Fprintf(&b, "Language of the client: %s\n\n", i18n.Translate(lang, "language.name"))
	fmt.Fprintf(&b, "Eligible exercises, durations in seconds:\n%s\n\n", exercises)
	fmt.Fprintf(&b, "Every exercise is followed by a %d second rest. ", restSeconds)
	fmt.Fprintf(&b, "Choose at least %d exercises whose durations plus rests add up to roughly the target duration, ",
		workout.MinSuggestedExercises)
	b.WriteString("ordered as they should be performed. An exercise may appear only once.\n")
	b.WriteString(`Respond with a single JSON array of the chosen exercise ids and nothing else, for example ["id1","id2","id3"].`)
	return b.String(), nil
}
