package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jkarhu/packtrack/internal/workout"
)

type dashboardTemplateData struct {
	BaseTemplateData
	Today          time.Time
	WeekStart      time.Time
	WeekEnd        time.Time
	Metrics        workout.WeeklyMetrics
	Target         workout.PhaseTarget
	Flags          map[workout.RiskKey]string
	Readiness      int
	WeeklyProgress int
	Series         []workout.WeekSnapshot
	CoachSummary   string
}

func (app *application) dashboardGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := time.Now()
	weekStart, weekEnd := workout.WeekRange(today)

	metrics, err := app.workoutService.WeekMetrics(ctx, weekStart, weekEnd)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("week metrics: %w", err))
		return
	}

	target := workout.PhaseFor(today)

	flags, err := app.workoutService.DetectRisks(ctx, today)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("detect risks: %w", err))
		return
	}

	readiness, err := app.workoutService.ReadinessScore(ctx, today)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("readiness score: %w", err))
		return
	}

	series, err := app.workoutService.Series(ctx, today, app.seriesWeeks)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("weekly series: %w", err))
		return
	}

	data := dashboardTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Today:            today,
		WeekStart:        weekStart,
		WeekEnd:          weekEnd.AddDate(0, 0, -1),
		Metrics:          metrics,
		Target:           target,
		Flags:            flags,
		Readiness:        readiness,
		WeeklyProgress:   weeklyProgress(metrics, target),
		Series:           series,
		CoachSummary:     app.coachService.WeeklySummary(ctx, metrics, target, flags, readiness),
	}

	app.render(w, r, http.StatusOK, "dashboard", data)
}

// weeklyProgress reports this week's vertical as a percentage of the midpoint
// of the phase target band, capped at 100.
func weeklyProgress(metrics workout.WeeklyMetrics, target workout.PhaseTarget) int {
	targetMid := (target.VertMin + target.VertMax) / 2
	if targetMid == 0 {
		return 0
	}
	progress := int(metrics.VerticalFt / targetMid * 100)
	if progress > 100 {
		progress = 100
	}
	return progress
}
