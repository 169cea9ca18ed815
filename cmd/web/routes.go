package main

import (
	"net/http"

	"github.com/myrjola/intervalplan/internal/observability"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(next))))
		}
		quick = func(next http.Handler) http.Handler {
			return shared(app.timeout(defaultTimeout)(next))
		}
		// slow routes call the suggestion services.
		slow = func(next http.Handler) http.Handler {
			return shared(noCache(app.timeout(planTimeout)(next)))
		}
	)

	mux.Handle("POST /api/plans", slow(http.HandlerFunc(app.plansPOST)))
	mux.Handle("POST /api/suggestions", slow(http.HandlerFunc(app.suggestionsPOST)))
	mux.Handle("GET /api/exercises", quick(http.HandlerFunc(app.exercisesGET)))
	mux.Handle("GET /exercises/{id}", quick(http.HandlerFunc(app.exerciseInfoGET)))
	mux.Handle("GET /api/healthy", quick(noCache(http.HandlerFunc(app.healthy))))
	mux.Handle("GET /metrics", quick(observability.Handler()))

	return mux
}
