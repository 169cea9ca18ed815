package main

import (
	"net/http"

	"github.com/myrjola/intervalplan/internal/workout"
)

type exercisesResponse struct {
	Exercises []workout.Exercise `json:"exercises"`
}

func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	exercises, err := app.workoutService.ListExercises(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if exercises == nil {
		exercises = []workout.Exercise{}
	}
	app.writeJSON(w, r, http.StatusOK, exercisesResponse{Exercises: exercises})
}
