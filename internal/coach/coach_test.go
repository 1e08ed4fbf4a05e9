package coach_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jkarhu/packtrack/internal/coach"
	"github.com/jkarhu/packtrack/internal/testhelpers"
	"github.com/jkarhu/packtrack/internal/workout"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func TestWeeklySummary_fallbackWithoutAPIKey(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	svc := coach.NewService("", logger)

	target := workout.PhaseFor(date(t, "2025-02-15"))

	tests := []struct {
		name    string
		metrics workout.WeeklyMetrics
		flags   map[workout.RiskKey]string
		want    []string
	}{
		{
			name:    "empty week mentions the phase target",
			metrics: workout.WeeklyMetrics{},
			flags:   nil,
			want:    []string{"No sessions logged", "Base", "1500-2000 ft", "Readiness 42/100"},
		},
		{
			name:    "short week reports the shortfall",
			metrics: workout.WeeklyMetrics{VerticalFt: 800, Count: 2},
			flags:   nil,
			want:    []string{"800 ft", "short of the Base phase target"},
		},
		{
			name:    "flags are listed in stable order",
			metrics: workout.WeeklyMetrics{VerticalFt: 1600, Count: 3},
			flags: map[workout.RiskKey]string{
				workout.RiskOveruseRPE:   "Average RPE ≥7 over the last 7 days.",
				workout.RiskInjurySignal: "Notes mention possible injury signals in the last 14 days.",
			},
			want: []string{"inside the Base phase target", "injury_signal, overuse_rpe"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := svc.WeeklySummary(ctx, tt.metrics, target, tt.flags, 42)
			for _, fragment := range tt.want {
				if !strings.Contains(got, fragment) {
					t.Errorf("WeeklySummary() = %q, missing %q", got, fragment)
				}
			}
		})
	}
}
