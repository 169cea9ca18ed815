package suggest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/myrjola/intervalplan/internal/workout"
)

// Completer sends a single prompt to a language model and returns its raw text answer.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// DirectSuggester prompts a language model provider directly. It implements [workout.Suggester].
type DirectSuggester struct {
	completer   Completer
	restSeconds int
	logger      *slog.Logger
}

// NewDirectSuggester creates a suggester that tells the model about rests of restSeconds.
func NewDirectSuggester(completer Completer, restSeconds int, logger *slog.Logger) *DirectSuggester {
	return &DirectSuggester{completer: completer, restSeconds: restSeconds, logger: logger}
}

// Suggest sends one prompt and parses the ids out of the answer.
func (d *DirectSuggester) Suggest(
	ctx context.Context,
	eligible []workout.Exercise,
	prefs workout.Preferences,
) ([]string, error) {
	prompt, err := BuildPrompt(eligible, prefs, d.restSeconds)
	if err != nil {
		return nil, workout.NewSuggestionError(workout.SuggestionTransportError, err)
	}
	text, err := d.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, workout.NewSuggestionError(workout.SuggestionTransportError, fmt.Errorf("complete prompt: %w", err))
	}
	d.logger.LogAttrs(ctx, slog.LevelDebug, "received completion", slog.Int("length", len(text)))

	ids, err := ParseIDs(text)
	if err != nil {
		return nil, err
	}
	return Validate(ids, eligible)
}
