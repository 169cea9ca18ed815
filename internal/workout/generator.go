package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/myrjola/intervalplan/internal/observability"
)

// MinSuggestedExercises is the smallest number of validated exercises a suggestion tier must deliver.
const MinSuggestedExercises = 3

const (
	DefaultRestSeconds      = 30
	DefaultOvershootSeconds = 60
	DefaultSuggestTimeout   = 10 * time.Second
)

// Suggester asks a remote service for an ordered list of exercise ids drawn from eligible.
//
// Implementations make at most one outbound request and never retry. Returned ids are hints only; the Generator
// validates them against eligible again.
type Suggester interface {
	Suggest(ctx context.Context, eligible []Exercise, prefs Preferences) ([]string, error)
}

// GeneratorConfig is fixed at construction time.
type GeneratorConfig struct {
	// Edge is the trusted server-side proxy. When nil the edge tier fails immediately.
	Edge Suggester
	// Direct calls the language model provider with a client-side credential. When nil the tier is skipped.
	Direct        Suggester
	EdgeTimeout   time.Duration
	DirectTimeout time.Duration
	// RestSeconds is the fixed rest inserted between exercises.
	RestSeconds int
	// OvershootSeconds is how far an AI-assisted plan may exceed the target before it is trimmed. Zero selects
	// DefaultOvershootSeconds, a negative value allows no overshoot at all.
	OvershootSeconds int
	// IntN is the randomness source for the local shuffle. Defaults to [rand.IntN].
	IntN   func(n int) int
	Logger *slog.Logger
}

// Generator turns preferences and a catalog into a plan, trying the edge proxy, then the direct provider, and
// finally a local shuffle.
type Generator struct {
	cfg    GeneratorConfig
	logger *slog.Logger
}

// NewGenerator fills in defaults for the zero values of cfg.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.RestSeconds <= 0 {
		cfg.RestSeconds = DefaultRestSeconds
	}
	if cfg.OvershootSeconds == 0 {
		cfg.OvershootSeconds = DefaultOvershootSeconds
	}
	if cfg.EdgeTimeout <= 0 {
		cfg.EdgeTimeout = DefaultSuggestTimeout
	}
	if cfg.DirectTimeout <= 0 {
		cfg.DirectTimeout = DefaultSuggestTimeout
	}
	if cfg.IntN == nil {
		cfg.IntN = rand.IntN
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{cfg: cfg, logger: logger}
}

// RestSeconds returns the configured rest length.
func (g *Generator) RestSeconds() int {
	return g.cfg.RestSeconds
}

type generatorState int

const (
	stateTryEdge generatorState = iota
	stateTryDirect
	stateLocalFallback
	stateDone
)

// Generate produces a plan from catalog for prefs.
//
// It returns ErrCatalogUnavailable for an empty catalog and ErrNoEligibleExercises when neither the preferences
// nor the bodyweight widening match anything. Suggestion failures are absorbed. The only other error is the
// cancellation of ctx, in which case no plan is produced.
func (g *Generator) Generate(ctx context.Context, catalog []Exercise, prefs Preferences) (Result, error) {
	if len(catalog) == 0 {
		return Result{}, ErrCatalogUnavailable
	}
	if err := prefs.Validate(); err != nil {
		return Result{}, err
	}
	prefs = prefs.Normalized()

	eligible, err := g.eligible(ctx, catalog, prefs)
	if err != nil {
		return Result{}, err
	}

	var (
		result Result
		state  = stateTryEdge
	)
	for {
		switch state {
		case stateTryEdge:
			result, err = g.attempt(ctx, TierEdge, g.cfg.Edge, g.cfg.EdgeTimeout, eligible, prefs)
			state = g.next(ctx, err, stateTryDirect)
		case stateTryDirect:
			if g.cfg.Direct == nil {
				g.logger.LogAttrs(ctx, slog.LevelDebug, "direct tier not configured, skipping")
				state = stateLocalFallback
				continue
			}
			result, err = g.attempt(ctx, TierDirect, g.cfg.Direct, g.cfg.DirectTimeout, eligible, prefs)
			state = g.next(ctx, err, stateLocalFallback)
		case stateLocalFallback:
			result = g.local(eligible, prefs)
			state = stateDone
		case stateDone:
			if err = ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("generate plan: %w", err)
			}
			g.logger.LogAttrs(ctx, slog.LevelInfo, "generated plan",
				slog.String("tier", string(result.Tier)),
				slog.Int("items", len(result.Plan)),
				slog.Int("total_seconds", result.Plan.TotalSeconds()),
				slog.Int("target_seconds", prefs.TargetSeconds()))
			return result, nil
		}
	}
}

// next returns stateDone on success, or when the caller has gone away, and fallback otherwise.
func (g *Generator) next(ctx context.Context, err error, fallback generatorState) generatorState {
	if err == nil || ctx.Err() != nil {
		return stateDone
	}
	return fallback
}

// eligible filters the catalog, widening to bodyweight-only exercises when nothing matches.
func (g *Generator) eligible(ctx context.Context, catalog []Exercise, prefs Preferences) ([]classifiedExercise, error) {
	classified := classifyAll(catalog)
	eligible := filterClassified(classified, prefs.Equipment, prefs.Difficulty)
	if len(eligible) > 0 {
		return eligible, nil
	}

	g.logger.LogAttrs(ctx, slog.LevelWarn, "no eligible exercises, widening to bodyweight",
		slog.Int("catalog_size", len(catalog)),
		slog.String("equipment", joinEquipment(prefs.Equipment)),
		slog.String("difficulty", prefs.Difficulty.String()))
	eligible = filterClassified(classified, []Equipment{EquipmentBodyweight}, prefs.Difficulty)
	if len(eligible) == 0 {
		return nil, ErrNoEligibleExercises
	}
	return eligible, nil
}

// attempt runs a suggestion tier and packs the suggested exercises. Any failure is returned as a SuggestionError.
func (g *Generator) attempt(
	ctx context.Context,
	tier Tier,
	suggester Suggester,
	timeout time.Duration,
	eligible []classifiedExercise,
	prefs Preferences,
) (Result, error) {
	logger := g.logger.With(slog.String("tier", string(tier)))
	logger.LogAttrs(ctx, slog.LevelDebug, "requesting suggestion", slog.Int("eligible", len(eligible)))

	plan, err := g.suggestPlan(ctx, suggester, timeout, eligible, prefs)
	if err != nil {
		reason := suggestionReason(err)
		observability.RecordSuggestionFailure(string(tier), string(reason))
		logger.LogAttrs(ctx, slog.LevelWarn, "suggestion tier failed",
			slog.String("reason", string(reason)), slog.Any("error", err))
		return Result{}, err
	}
	return Result{Plan: plan, Tier: tier}, nil
}

func (g *Generator) suggestPlan(
	ctx context.Context,
	suggester Suggester,
	timeout time.Duration,
	eligible []classifiedExercise,
	prefs Preferences,
) (Plan, error) {
	if suggester == nil {
		return nil, NewSuggestionError(SuggestionTransportError, errors.New("suggester not configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ids, err := suggester.Suggest(ctx, exercisesOf(eligible), prefs)
	if err != nil {
		return nil, NewSuggestionError(SuggestionTransportError, err)
	}

	selected := selectByID(eligible, ids)
	if len(selected) < MinSuggestedExercises {
		return nil, NewSuggestionError(SuggestionInsufficient,
			fmt.Errorf("%d of %d suggested ids are eligible", len(selected), len(ids)))
	}

	target := prefs.TargetSeconds()
	plan := trimToBudget(Pack(selected, target, g.cfg.RestSeconds), target+max(g.cfg.OvershootSeconds, 0))
	if plan.ExerciseCount() < MinSuggestedExercises {
		return nil, NewSuggestionError(SuggestionInsufficient,
			fmt.Errorf("packed plan has %d exercises", plan.ExerciseCount()))
	}
	return plan, nil
}

// local shuffles the eligible exercises and packs them. It cannot fail for a non-empty eligible set.
func (g *Generator) local(eligible []classifiedExercise, prefs Preferences) Result {
	shuffled := Shuffle(exercisesOf(eligible), g.cfg.IntN)
	return Result{Plan: Pack(shuffled, prefs.TargetSeconds(), g.cfg.RestSeconds), Tier: TierLocal}
}

// selectByID maps ids to eligible exercises in order, dropping unknown and repeated ids.
func selectByID(eligible []classifiedExercise, ids []string) []Exercise {
	index := make(map[string]Exercise, len(eligible))
	for _, c := range eligible {
		index[strings.ToLower(c.exercise.ID)] = c.exercise
	}
	var (
		selected []Exercise
		seen     = make(map[string]bool, len(ids))
	)
	for _, id := range ids {
		key := strings.ToLower(strings.TrimSpace(id))
		exercise, ok := index[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, exercise)
	}
	return selected
}

func joinEquipment(equipment []Equipment) string {
	labels := make([]string, len(equipment))
	for i, e := range equipment {
		labels[i] = string(e)
	}
	return strings.Join(labels, ",")
}
