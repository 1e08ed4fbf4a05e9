package workout

import (
	"fmt"
	"time"
)

// Type classifies a training session.
type Type string

const (
	TypeIncline  Type = "incline"
	TypeFlat     Type = "flat"
	TypeStrength Type = "strength"
	TypeRecovery Type = "recovery"
)

// ParseType validates a raw session type against the closed set.
func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypeIncline, TypeFlat, TypeStrength, TypeRecovery:
		return t, nil
	default:
		return "", ValidationError{Field: "type", Reason: fmt.Sprintf("unknown session type %q", raw)}
	}
}

// Workout represents a single logged training session. Workouts are immutable
// once created; the only lifecycle operations are create and delete.
type Workout struct {
	ID          int
	Date        time.Time
	Type        Type
	DurationMin int
	DistanceMi  float64
	InclinePct  float64
	PackLb      float64
	RPE         int
	Notes       *string
}

// VerticalFt is the cumulative elevation gain in feet implied by the
// distance and grade.
func (w Workout) VerticalFt() float64 {
	return w.DistanceMi * 5280 * (w.InclinePct / 100)
}

// LoadScore scales the vertical gain upward by the carried pack weight.
func (w Workout) LoadScore() float64 {
	return w.VerticalFt() * (1 + w.PackLb/50)
}

// SessionStress is a per-session fatigue proxy combining duration, perceived
// intensity, and pack weight.
func (w Workout) SessionStress() float64 {
	rpe := w.RPE
	if rpe < 1 {
		rpe = 1
	}
	return float64(w.DurationMin) * float64(rpe) * (1 + w.PackLb/40)
}

// Phase names a periodization block within the training year.
type Phase string

const (
	PhaseBase  Phase = "Base"
	PhaseBuild Phase = "Build"
	PhasePeak  Phase = "Peak"
	PhaseTaper Phase = "Taper"
)

// PhaseTarget bundles the weekly target ranges for a periodization phase.
type PhaseTarget struct {
	Name    Phase
	VertMin float64
	VertMax float64
	LongMin int
	LongMax int
	PackMin float64
	PackMax float64
}

// WeeklyMetrics summarises the sessions that fall in one half-open date window.
type WeeklyMetrics struct {
	Start          time.Time
	End            time.Time
	VerticalFt     float64
	Stress         float64
	MeanPackLb     float64
	MaxDurationMin int
	Count          int
}

// WeekSnapshot is one rounded entry of the rolling weekly time series.
type WeekSnapshot struct {
	WeekStart  time.Time
	VerticalFt int
	MeanPackLb float64
	Stress     float64
}

// RiskKey identifies one of the closed set of training risk flags.
type RiskKey string

const (
	RiskOveruseVertical RiskKey = "overuse_vertical"
	RiskOverusePack     RiskKey = "overuse_pack"
	RiskOveruseRPE      RiskKey = "overuse_rpe"
	RiskUndertraining   RiskKey = "undertraining"
	RiskInjurySignal    RiskKey = "injury_signal"
)

// ValidationError reports a rejected field on the write path.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
