package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jkarhu/packtrack/internal/workout"
)

type logTemplateData struct {
	BaseTemplateData
	Today  time.Time
	Target workout.PhaseTarget
	Types  []workout.Type
	Error  string
}

func workoutTypes() []workout.Type {
	return []workout.Type{workout.TypeIncline, workout.TypeFlat, workout.TypeStrength, workout.TypeRecovery}
}

func (app *application) logWorkoutGET(w http.ResponseWriter, r *http.Request) {
	today := time.Now()
	data := logTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Today:            today,
		Target:           workout.PhaseFor(today),
		Types:            workoutTypes(),
		Error:            "",
	}

	app.render(w, r, http.StatusOK, "log", data)
}

func (app *application) logWorkoutPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	record, err := parseWorkoutForm(r)
	if err == nil {
		_, err = app.workoutService.Create(r.Context(), record)
	}
	if err != nil {
		var validationErr workout.ValidationError
		if errors.As(err, &validationErr) {
			app.renderLogFormError(w, r, validationErr.Error())
			return
		}
		app.serverError(w, r, fmt.Errorf("create workout: %w", err))
		return
	}

	app.flash(r, "Saved workout.")
	redirect(w, r, "/workouts")
}

// renderLogFormError re-renders the log form with the rejected input's error message.
func (app *application) renderLogFormError(w http.ResponseWriter, r *http.Request, message string) {
	today := time.Now()
	data := logTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Today:            today,
		Target:           workout.PhaseFor(today),
		Types:            workoutTypes(),
		Error:            message,
	}
	app.render(w, r, http.StatusUnprocessableEntity, "log", data)
}

func parseWorkoutForm(r *http.Request) (workout.Workout, error) {
	var record workout.Workout

	date, err := time.Parse(time.DateOnly, r.Form.Get("session_date"))
	if err != nil {
		return record, workout.ValidationError{Field: "session_date", Reason: "must be a valid date"}
	}
	record.Date = date

	if record.Type, err = workout.ParseType(r.Form.Get("type")); err != nil {
		return record, err //nolint:wrapcheck // already a ValidationError.
	}

	if record.DurationMin, err = strconv.Atoi(r.Form.Get("duration_min")); err != nil {
		return record, workout.ValidationError{Field: "duration_min", Reason: "must be a whole number of minutes"}
	}

	if record.DistanceMi, err = parseOptionalFloat(r.Form.Get("distance_mi")); err != nil {
		return record, workout.ValidationError{Field: "distance_mi", Reason: "must be a number"}
	}
	if record.InclinePct, err = parseOptionalFloat(r.Form.Get("incline_pct")); err != nil {
		return record, workout.ValidationError{Field: "incline_pct", Reason: "must be a number"}
	}
	if record.PackLb, err = parseOptionalFloat(r.Form.Get("pack_lb")); err != nil {
		return record, workout.ValidationError{Field: "pack_lb", Reason: "must be a number"}
	}

	rpeStr := r.Form.Get("rpe")
	if rpeStr == "" {
		rpeStr = "5"
	}
	if record.RPE, err = strconv.Atoi(rpeStr); err != nil {
		return record, workout.ValidationError{Field: "rpe", Reason: "must be a whole number"}
	}

	if notes := strings.TrimSpace(r.Form.Get("notes")); notes != "" {
		record.Notes = &notes
	}

	return record, nil
}
