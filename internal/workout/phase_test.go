package workout_test

import (
	"testing"
	"time"

	"github.com/jkarhu/packtrack/internal/workout"
)

func TestPhaseFor_partitionsTheYear(t *testing.T) {
	t.Parallel()

	// Walk every day of a year and assert the phases form four contiguous
	// blocks with no gaps or overlaps.
	wantOrder := []workout.Phase{workout.PhaseBase, workout.PhaseBuild, workout.PhasePeak, workout.PhaseTaper}

	var seen []workout.Phase
	day := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day.Year() == 2025 {
		phase := workout.PhaseFor(day).Name
		if len(seen) == 0 || seen[len(seen)-1] != phase {
			seen = append(seen, phase)
		}
		day = day.AddDate(0, 0, 1)
	}

	if len(seen) != len(wantOrder) {
		t.Fatalf("phase blocks = %v, want %v", seen, wantOrder)
	}
	for i, phase := range wantOrder {
		if seen[i] != phase {
			t.Errorf("phase block %d = %s, want %s", i, seen[i], phase)
		}
	}
}

func TestPhaseFor_boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date string
		want workout.Phase
	}{
		{"2025-01-01", workout.PhaseBase},
		{"2025-03-31", workout.PhaseBase},
		{"2025-04-01", workout.PhaseBuild},
		{"2025-05-31", workout.PhaseBuild},
		{"2025-06-01", workout.PhasePeak},
		{"2025-07-31", workout.PhasePeak},
		{"2025-08-01", workout.PhaseTaper},
		{"2025-12-31", workout.PhaseTaper},
	}
	for _, tt := range tests {
		date, err := time.Parse(time.DateOnly, tt.date)
		if err != nil {
			t.Fatalf("parse date %q: %v", tt.date, err)
		}
		if got := workout.PhaseFor(date).Name; got != tt.want {
			t.Errorf("PhaseFor(%s).Name = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestWeekRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		date      string
		wantStart string
	}{
		{name: "monday maps to itself", date: "2025-02-10", wantStart: "2025-02-10"},
		{name: "midweek maps back to monday", date: "2025-02-13", wantStart: "2025-02-10"},
		{name: "sunday maps back to monday", date: "2025-02-16", wantStart: "2025-02-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			date, err := time.Parse(time.DateOnly, tt.date)
			if err != nil {
				t.Fatalf("parse date %q: %v", tt.date, err)
			}
			start, end := workout.WeekRange(date)
			if got := start.Format(time.DateOnly); got != tt.wantStart {
				t.Errorf("WeekRange(%s) start = %s, want %s", tt.date, got, tt.wantStart)
			}
			if got, want := end.Sub(start), 7*24*time.Hour; got != want {
				t.Errorf("WeekRange(%s) span = %v, want %v", tt.date, got, want)
			}
		})
	}
}
