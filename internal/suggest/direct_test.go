package suggest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/intervalplan/internal/suggest"
	"github.com/myrjola/intervalplan/internal/testhelpers"
	"github.com/myrjola/intervalplan/internal/workout"
)

type completerFunc func(ctx context.Context, system, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, prompt string) (string, error) {
	return f(ctx, system, prompt)
}

func TestDirectSuggester_Suggest(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		err        error
		want       []string
		wantReason workout.SuggestionFailure
	}{
		{
			name:   "array in prose",
			answer: "Great choice! Here is your plan: [\"id2\", \"id3\", \"id1\"]. Have fun!",
			want:   []string{"id2", "id3", "id1"},
		},
		{
			name:       "refusal",
			answer:     "I'm sorry, I can't help with that.",
			wantReason: workout.SuggestionParseError,
		},
		{
			name:       "empty answer",
			answer:     "",
			wantReason: workout.SuggestionParseError,
		},
		{
			name:       "too few eligible ids",
			answer:     `["id1", "id9", "id1"]`,
			wantReason: workout.SuggestionInsufficient,
		},
		{
			name:       "provider error",
			err:        errors.New("429 Too Many Requests"),
			wantReason: workout.SuggestionTransportError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPrompt string
			completer := completerFunc(func(_ context.Context, _, prompt string) (string, error) {
				gotPrompt = prompt
				return tt.answer, tt.err
			})
			s := suggest.NewDirectSuggester(completer, 30, testhelpers.NewLogger(testhelpers.NewWriter(t)))

			ids, err := s.Suggest(t.Context(), eligible, prefs)
			if !strings.Contains(gotPrompt, "id1") {
				t.Errorf("prompt does not list the eligible exercises:\n%s", gotPrompt)
			}
			if tt.wantReason != "" {
				var se *workout.SuggestionError
				if !errors.As(err, &se) || se.Reason != tt.wantReason {
					t.Fatalf("Suggest() error = %v, want reason %s", err, tt.wantReason)
				}
				return
			}
			if err != nil {
				t.Fatalf("Suggest() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("Suggest() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	english := prefs
	english.Language = ""
	english.Equipment = []workout.Equipment{workout.EquipmentBodyweight, "dumbbell"}

	prompt, err := suggest.BuildPrompt(eligible, english, 25)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}
	for _, want := range []string{
		"cardiovascular endurance",
		"5 minutes (300 seconds)",
		"Difficulty: beginner",
		"bodyweight only, dumbbells",
		"25 second rest",
		`"id":"id3"`,
		`"duration":40`,
		"JSON array",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt misses %q:\n%s", want, prompt)
		}
	}

	finnish, err := suggest.BuildPrompt(eligible, prefs, 30)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}
	if !strings.Contains(finnish, "kestävyys") || !strings.Contains(finnish, "aloittelija") {
		t.Errorf("prompt not translated:\n%s", finnish)
	}
}
