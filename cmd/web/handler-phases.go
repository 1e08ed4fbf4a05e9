package main

import (
	"net/http"
	"time"

	"github.com/jkarhu/packtrack/internal/workout"
)

// phasePreviewMonths is how many months of the periodization calendar the
// phases page lays out, starting from the current month.
const phasePreviewMonths = 7

type phaseMonth struct {
	Label  string
	Target workout.PhaseTarget
}

type phasesTemplateData struct {
	BaseTemplateData
	Current  workout.PhaseTarget
	Months   []phaseMonth
	Guidance string
}

func (app *application) phasesGET(w http.ResponseWriter, r *http.Request) {
	today := time.Now()
	current := workout.PhaseFor(today)

	months := make([]phaseMonth, 0, phasePreviewMonths)
	month := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	for range phasePreviewMonths {
		months = append(months, phaseMonth{
			Label:  month.Format("Jan 2006"),
			Target: workout.PhaseFor(month),
		})
		month = month.AddDate(0, 1, 0)
	}

	data := phasesTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Current:          current,
		Months:           months,
		Guidance:         phaseGuidance[current.Name],
	}

	app.render(w, r, http.StatusOK, "phases", data)
}

// phaseGuidance holds the coaching notes shown on the phases page, keyed by
// the current phase. Rendered with mdToHTML.
var phaseGuidance = map[workout.Phase]string{
	workout.PhaseBase: `## Base

Build the aerobic engine. Keep the pack light and the grades gentle:

- Mostly flat and easy incline walks, conversational pace
- One longer session per week, growing gradually
- Strength twice a week to prepare the legs for later loading`,
	workout.PhaseBuild: `## Build

Volume and pack weight climb together:

- Add incline sessions until vertical reaches the weekly target band
- Increase pack weight by no more than a few pounds per week
- Keep one full recovery day between hard efforts`,
	workout.PhasePeak: `## Peak

The biggest weeks of the season:

- Long weighted carries at goal pack weight
- Back-to-back days to simulate multi-day efforts
- Watch the risk flags closely; this phase is where overuse shows up`,
	workout.PhaseTaper: `## Taper

Protect the fitness, shed the fatigue:

- Cut vertical roughly in half while keeping some intensity
- Drop the pack weight to a comfortable level
- Prioritise sleep and footwear checks before the event`,
}
