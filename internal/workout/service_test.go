package workout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/myrjola/intervalplan/internal/sqlite"
	"github.com/myrjola/intervalplan/internal/testhelpers"
	"github.com/myrjola/intervalplan/internal/workout"
)

func newSQLiteService(t *testing.T) *workout.Service {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return workout.NewService(workout.NewSQLiteCatalog(db), newTestGenerator(t, workout.GeneratorConfig{}), logger)
}

func TestService_GeneratePlan(t *testing.T) {
	svc := newSQLiteService(t)

	tests := []struct {
		name  string
		prefs workout.Preferences
	}{
		{"bodyweight beginner", bodyweightPrefs(10, workout.DifficultyBeginner)},
		{"bodyweight advanced", bodyweightPrefs(20, workout.DifficultyAdvanced)},
		{
			name: "dumbbell intermediate",
			prefs: workout.Preferences{
				Goal: "strength", Equipment: []workout.Equipment{"dumbbell"}, DurationMinutes: 15,
				Difficulty: workout.DifficultyIntermediate, Language: "fi",
			},
		},
		{
			name: "equipment nobody tagged widens to bodyweight",
			prefs: workout.Preferences{
				Goal: "", Equipment: []workout.Equipment{"rowing machine"}, DurationMinutes: 5,
				Difficulty: workout.DifficultyBeginner, Language: "",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GeneratePlan(t.Context(), tt.prefs)
			if err != nil {
				t.Fatalf("GeneratePlan() error = %v", err)
			}
			if result.Tier != workout.TierLocal {
				t.Errorf("Tier = %s, want %s", result.Tier, workout.TierLocal)
			}
			if err = result.Plan.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
			if result.Plan.ExerciseCount() < 1 {
				t.Error("plan without exercises")
			}
		})
	}
}

func TestService_GeneratePlan_substitutesDefaults(t *testing.T) {
	tests := []struct {
		name    string
		catalog workout.Catalog
	}{
		{"catalog fails", workout.CatalogFunc(func(context.Context) ([]workout.Exercise, error) {
			return nil, errors.New("disk I/O error")
		})},
		{"catalog empty", workout.CatalogFunc(func(context.Context) ([]workout.Exercise, error) {
			return []workout.Exercise{}, nil
		})},
	}
	defaults := make(map[string]bool)
	for _, e := range workout.DefaultExercises() {
		defaults[e.ID] = true
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
			svc := workout.NewService(tt.catalog, newTestGenerator(t, workout.GeneratorConfig{}), logger)

			result, err := svc.GeneratePlan(t.Context(), bodyweightPrefs(5, workout.DifficultyAdvanced))
			if err != nil {
				t.Fatalf("GeneratePlan() error = %v", err)
			}
			for _, item := range result.Plan {
				if item.Kind == workout.ItemKindExercise && !defaults[item.Exercise.ID] {
					t.Errorf("exercise %s is not a default exercise", item.Exercise.ID)
				}
			}
		})
	}
}

func TestService_GeneratePlan_invalidPreferences(t *testing.T) {
	svc := newSQLiteService(t)
	prefs := bodyweightPrefs(10, workout.DifficultyBeginner)
	prefs.Equipment = nil

	if _, err := svc.GeneratePlan(t.Context(), prefs); !errors.Is(err, workout.ErrInvalidPreferences) {
		t.Errorf("GeneratePlan() error = %v, want %v", err, workout.ErrInvalidPreferences)
	}
}

func TestService_GetExercise(t *testing.T) {
	svc := newSQLiteService(t)

	exercises, err := svc.ListExercises(t.Context())
	if err != nil {
		t.Fatalf("ListExercises() error = %v", err)
	}
	if len(exercises) < len(workout.DefaultExercises()) {
		t.Fatalf("ListExercises() returned %d exercises", len(exercises))
	}

	plank, err := svc.GetExercise(t.Context(), "8CB81553-6CBE-56DF-ABEF-318B17FBA608")
	if err != nil {
		t.Fatalf("GetExercise() error = %v", err)
	}
	if plank.Name != "Plank" || plank.DurationSeconds != 30 || len(plank.Tags) != 5 {
		t.Errorf("GetExercise() = %+v", plank)
	}

	if _, err = svc.GetExercise(t.Context(), "00000000-0000-0000-0000-000000000000"); !errors.Is(err, workout.ErrNotFound) {
		t.Errorf("GetExercise() error = %v, want %v", err, workout.ErrNotFound)
	}
}
