package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jkarhu/packtrack/internal/workout"
)

// workoutsListLimit caps the log page at the newest entries.
const workoutsListLimit = 200

type workoutsTemplateData struct {
	BaseTemplateData
	Workouts []workout.Workout
}

func (app *application) workoutsGET(w http.ResponseWriter, r *http.Request) {
	workouts, err := app.workoutService.Recent(r.Context(), workoutsListLimit)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("recent workouts: %w", err))
		return
	}

	data := workoutsTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Workouts:         workouts,
	}

	app.render(w, r, http.StatusOK, "workouts", data)
}

func (app *application) workoutDeletePOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}

	if err := app.workoutService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, workout.ErrNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, fmt.Errorf("delete workout: %w", err))
		return
	}

	app.flash(r, "Deleted workout.")
	redirect(w, r, "/workouts")
}
