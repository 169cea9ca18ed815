package main

import (
	"errors"
	"net/http"

	"github.com/myrjola/intervalplan/internal/i18n"
	"github.com/myrjola/intervalplan/internal/workout"
)

type planItemResponse struct {
	Kind            workout.ItemKind  `json:"kind"`
	DurationSeconds int               `json:"durationSeconds"`
	Title           string            `json:"title"`
	Exercise        *workout.Exercise `json:"exercise,omitempty"`
}

type planResponse struct {
	Tier          workout.Tier       `json:"tier"`
	TotalSeconds  int                `json:"totalSeconds"`
	TargetSeconds int                `json:"targetSeconds"`
	Items         []planItemResponse `json:"items"`
}

func newPlanResponse(result workout.Result, prefs workout.Preferences) planResponse {
	items := make([]planItemResponse, len(result.Plan))
	for i, item := range result.Plan {
		items[i] = planItemResponse{
			Kind:            item.Kind,
			DurationSeconds: item.DurationSeconds,
			Title:           item.Title,
			Exercise:        item.Exercise,
		}
	}
	return planResponse{
		Tier:          result.Tier,
		TotalSeconds:  result.Plan.TotalSeconds(),
		TargetSeconds: prefs.TargetSeconds(),
		Items:         items,
	}
}

// plansPOST generates a plan for the questionnaire in the request body.
func (app *application) plansPOST(w http.ResponseWriter, r *http.Request) {
	var prefs workout.Preferences
	if err := readJSON(w, r, &prefs); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid_preferences", err)
		return
	}
	if prefs.Language == "" {
		prefs.Language = string(i18n.ParseLanguage(r.Header.Get("Accept-Language")))
	}

	result, err := app.workoutService.GeneratePlan(r.Context(), prefs)
	switch {
	case errors.Is(err, workout.ErrInvalidPreferences):
		app.clientError(w, r, http.StatusBadRequest, "invalid_preferences", err)
		return
	case errors.Is(err, workout.ErrNoEligibleExercises):
		app.clientError(w, r, http.StatusUnprocessableEntity, "no_exercises_available", err)
		return
	case err != nil:
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, newPlanResponse(result, prefs))
}
