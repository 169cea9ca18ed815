package main

import (
	"errors"
	"net/http"

	"github.com/myrjola/intervalplan/internal/i18n"
	"github.com/myrjola/intervalplan/internal/workout"
)

// exerciseInfoTemplateData contains data for the exercise info template.
type exerciseInfoTemplateData struct {
	Exercise workout.Exercise
	// Tags are the translated equipment and difficulty labels.
	Tags []string
}

// exerciseInfoGET renders the instructions of a single exercise.
func (app *application) exerciseInfoGET(w http.ResponseWriter, r *http.Request) {
	exercise, err := app.workoutService.GetExercise(r.Context(), r.PathValue("id"))
	if errors.Is(err, workout.ErrNotFound) {
		app.render(w, r, http.StatusNotFound, "not-found", nil)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	lang := i18n.ParseLanguage(r.Header.Get("Accept-Language"))
	facets := workout.Classify(exercise)
	var tags []string
	for _, e := range facets.Equipment {
		tags = append(tags, i18n.Label(lang, "equipment", string(e)))
	}
	for _, d := range facets.Difficulties {
		tags = append(tags, i18n.Label(lang, "difficulty", d.String()))
	}

	app.render(w, r, http.StatusOK, "exercise-info", exerciseInfoTemplateData{
		Exercise: exercise,
		Tags:     tags,
	})
}
