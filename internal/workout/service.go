package workout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/myrjola/intervalplan/internal/observability"
)

// Service is the boundary between the HTTP layer and the plan generation core.
type Service struct {
	catalog   Catalog
	generator *Generator
	logger    *slog.Logger
}

// NewService creates a new workout service.
func NewService(catalog Catalog, generator *Generator, logger *slog.Logger) *Service {
	return &Service{
		catalog:   catalog,
		generator: generator,
		logger:    logger,
	}
}

// GeneratePlan loads the catalog and generates a plan for prefs.
//
// When the catalog cannot be loaded or is empty the DefaultExercises are used instead, so ErrCatalogUnavailable
// never reaches the caller. ErrInvalidPreferences and ErrNoEligibleExercises are returned as is.
func (s *Service) GeneratePlan(ctx context.Context, prefs Preferences) (Result, error) {
	if err := prefs.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()

	result, err := s.generator.Generate(ctx, s.exercisesOrDefaults(ctx), prefs)
	if err != nil {
		return Result{}, fmt.Errorf("generate plan: %w", err)
	}

	observability.RecordPlanGenerated(string(result.Tier), time.Since(start))
	return result, nil
}

func (s *Service) exercisesOrDefaults(ctx context.Context) []Exercise {
	exercises, err := s.catalog.List(ctx)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "catalog unavailable, using default exercises", slog.Any("error", err))
		return DefaultExercises()
	}
	if len(exercises) == 0 {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "catalog empty, using default exercises")
		return DefaultExercises()
	}
	return exercises
}

// ListExercises returns the catalog.
func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	exercises, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return exercises, nil
}

// GetExercise finds an exercise by id, ignoring case. It returns ErrNotFound if there is no such exercise.
func (s *Service) GetExercise(ctx context.Context, id string) (Exercise, error) {
	exercises, err := s.ListExercises(ctx)
	if err != nil {
		return Exercise{}, err
	}
	for _, e := range exercises {
		if strings.EqualFold(e.ID, id) {
			return e, nil
		}
	}
	return Exercise{}, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
}
