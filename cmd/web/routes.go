package main

import (
	"fmt"
	"net/http"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(shared(next))))
		}
	)

	mux.Handle("GET /log", session(http.HandlerFunc(app.logWorkoutGET)))
	mux.Handle("POST /log", session(http.HandlerFunc(app.logWorkoutPOST)))

	mux.Handle("GET /workouts", session(http.HandlerFunc(app.workoutsGET)))
	mux.Handle("POST /workouts/{id}/delete", session(http.HandlerFunc(app.workoutDeletePOST)))

	mux.Handle("GET /phases", session(http.HandlerFunc(app.phasesGET)))

	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))

	// Dashboard (most specific)
	mux.Handle("GET /{$}", session(http.HandlerFunc(app.dashboardGET)))

	// File server with custom 404 handling
	fileServerHandler, err := app.fileServerHandler()
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
