package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/myrjola/intervalplan/internal/suggest"
)

var errSuggestionsDisabled = errors.New("suggestion provider not configured")

// suggestionsPOST is the trusted suggestion proxy. It holds the provider credential so that clients do not need one.
// Failures are reported with success false so the caller falls through to its next tier.
func (app *application) suggestionsPOST(w http.ResponseWriter, r *http.Request) {
	if app.suggestionProxy == nil {
		app.writeJSON(w, r, http.StatusServiceUnavailable, suggest.ProxyResponse{
			Success:             false,
			SelectedExerciseIDs: nil,
			Error:               errSuggestionsDisabled.Error(),
		})
		return
	}

	var req suggest.ProxyRequest
	if err := readJSON(w, r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid_request", err)
		return
	}
	eligible, prefs, err := req.ToDomain()
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid_request", err)
		return
	}

	ids, err := app.suggestionProxy.Suggest(r.Context(), eligible, prefs)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "suggestion provider failed", slog.Any("error", err))
		app.writeJSON(w, r, http.StatusBadGateway, suggest.ProxyResponse{
			Success:             false,
			SelectedExerciseIDs: nil,
			Error:               "suggestion provider failed",
		})
		return
	}
	app.writeJSON(w, r, http.StatusOK, suggest.ProxyResponse{
		Success:             true,
		SelectedExerciseIDs: ids,
		Error:               "",
	})
}
