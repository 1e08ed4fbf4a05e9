package workout_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jkarhu/packtrack/internal/ptr"
	"github.com/jkarhu/packtrack/internal/sqlite"
	"github.com/jkarhu/packtrack/internal/testhelpers"
	"github.com/jkarhu/packtrack/internal/workout"
)

func newTestService(t *testing.T) *workout.Service {
	t.Helper()
	ctx := t.Context()
	// The database optimizer goroutine outlives fast subtests, so the logs go
	// to stdout instead of a test writer that rejects writes after completion.
	logger := testhelpers.NewLogger(os.Stdout)
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})
	return workout.NewService(db, logger)
}

func mustCreate(t *testing.T, ctx context.Context, svc *workout.Service, w workout.Workout) workout.Workout {
	t.Helper()
	created, err := svc.Create(ctx, w)
	if err != nil {
		t.Fatalf("Failed to create workout: %v", err)
	}
	return created
}

// session builds a valid incline session for the given date. The 25% grade
// keeps the derived vertical an exact multiple of the distance (1320 ft/mi).
func session(t *testing.T, day string, distanceMi float64) workout.Workout {
	t.Helper()
	return workout.Workout{
		Date:        date(t, day),
		Type:        workout.TypeIncline,
		DurationMin: 60,
		DistanceMi:  distanceMi,
		InclinePct:  25,
		PackLb:      0,
		RPE:         4,
	}
}

func TestService_Create_validation(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc := newTestService(t)

	valid := session(t, "2025-02-10", 1.0)

	tests := []struct {
		name      string
		mutate    func(w *workout.Workout)
		wantField string
	}{
		{name: "unknown type", mutate: func(w *workout.Workout) { w.Type = "swimming" }, wantField: "type"},
		{name: "zero duration", mutate: func(w *workout.Workout) { w.DurationMin = 0 }, wantField: "duration_min"},
		{name: "negative distance", mutate: func(w *workout.Workout) { w.DistanceMi = -1 }, wantField: "distance_mi"},
		{name: "negative incline", mutate: func(w *workout.Workout) { w.InclinePct = -5 }, wantField: "incline_pct"},
		{name: "negative pack", mutate: func(w *workout.Workout) { w.PackLb = -2 }, wantField: "pack_lb"},
		{name: "rpe too low", mutate: func(w *workout.Workout) { w.RPE = 0 }, wantField: "rpe"},
		{name: "rpe too high", mutate: func(w *workout.Workout) { w.RPE = 11 }, wantField: "rpe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := valid
			tt.mutate(&w)
			_, err := svc.Create(ctx, w)
			var validationErr workout.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", validationErr.Field, tt.wantField)
			}
		})
	}

	// A rejected write must not leave a partial record behind.
	recent, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to list recent workouts: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Recent() returned %d workouts after failed creates, want 0", len(recent))
	}

	created := mustCreate(t, ctx, svc, valid)
	if created.ID == 0 {
		t.Error("Create() did not assign an identity")
	}
}

func TestService_Delete_notFound(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc := newTestService(t)

	err := svc.Delete(ctx, 12345)
	if !errors.Is(err, workout.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestService_insertThenDeleteRestoresWeek(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc := newTestService(t)

	mustCreate(t, ctx, svc, session(t, "2025-02-11", 1.0))
	start, end := workout.WeekRange(date(t, "2025-02-11"))

	before, err := svc.WeekMetrics(ctx, start, end)
	if err != nil {
		t.Fatalf("Failed to aggregate week: %v", err)
	}

	created := mustCreate(t, ctx, svc, session(t, "2025-02-13", 2.0))
	if err = svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Failed to delete workout: %v", err)
	}

	after, err := svc.WeekMetrics(ctx, start, end)
	if err != nil {
		t.Fatalf("Failed to aggregate week: %v", err)
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("WeekMetrics changed after insert-then-delete (-before +after):\n%s", diff)
	}
}

func TestService_DetectRisks_overuseVertical(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	// Previous week vertical is 1320 ft, so the strict threshold sits at
	// exactly 1650 ft this week.
	tests := []struct {
		name           string
		thisDistanceMi float64
		wantFlag       bool
	}{
		{name: "at threshold is not flagged", thisDistanceMi: 1.25, wantFlag: false},
		{name: "above threshold is flagged", thisDistanceMi: 1.3, wantFlag: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t)
			mustCreate(t, ctx, svc, session(t, "2025-02-04", 1.0))
			mustCreate(t, ctx, svc, session(t, "2025-02-11", tt.thisDistanceMi))

			flags, err := svc.DetectRisks(ctx, date(t, "2025-02-15"))
			if err != nil {
				t.Fatalf("Failed to detect risks: %v", err)
			}
			if _, got := flags[workout.RiskOveruseVertical]; got != tt.wantFlag {
				t.Errorf("overuse_vertical flag = %v, want %v (flags: %v)", got, tt.wantFlag, flags)
			}
		})
	}
}

func TestService_DetectRisks_overusePack(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	tests := []struct {
		name       string
		thisPackLb float64
		wantFlag   bool
	}{
		{name: "five pound jump is not flagged", thisPackLb: 15, wantFlag: false},
		{name: "over five pound jump is flagged", thisPackLb: 15.5, wantFlag: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t)
			prev := session(t, "2025-02-04", 1.0)
			prev.PackLb = 10
			mustCreate(t, ctx, svc, prev)
			this := session(t, "2025-02-11", 1.0)
			this.PackLb = tt.thisPackLb
			mustCreate(t, ctx, svc, this)

			flags, err := svc.DetectRisks(ctx, date(t, "2025-02-15"))
			if err != nil {
				t.Fatalf("Failed to detect risks: %v", err)
			}
			if _, got := flags[workout.RiskOverusePack]; got != tt.wantFlag {
				t.Errorf("overuse_pack flag = %v, want %v (flags: %v)", got, tt.wantFlag, flags)
			}
		})
	}
}

func TestService_DetectRisks_overuseRPE(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	tests := []struct {
		name     string
		day      string
		rpe      int
		wantFlag bool
	}{
		{name: "hard session six days back is flagged", day: "2025-02-09", rpe: 8, wantFlag: true},
		{name: "hard session seven days back is outside the window", day: "2025-02-08", rpe: 8, wantFlag: false},
		{name: "easy sessions are not flagged", day: "2025-02-12", rpe: 4, wantFlag: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t)
			w := session(t, tt.day, 1.0)
			w.RPE = tt.rpe
			mustCreate(t, ctx, svc, w)

			flags, err := svc.DetectRisks(ctx, date(t, "2025-02-15"))
			if err != nil {
				t.Fatalf("Failed to detect risks: %v", err)
			}
			if _, got := flags[workout.RiskOveruseRPE]; got != tt.wantFlag {
				t.Errorf("overuse_rpe flag = %v, want %v (flags: %v)", got, tt.wantFlag, flags)
			}
		})
	}
}

func TestService_DetectRisks_undertraining(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	// Mid-February falls in the Base phase (weekly vertical target 1500 ft),
	// so the 70% floor is 1050 ft.
	tests := []struct {
		name           string
		thisDistanceMi float64
		wantFlag       bool
	}{
		{name: "two light weeks are flagged", thisDistanceMi: 0.5, wantFlag: true},
		{name: "one solid week clears the flag", thisDistanceMi: 1.0, wantFlag: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t)
			mustCreate(t, ctx, svc, session(t, "2025-02-04", 0.5)) // 660 ft
			mustCreate(t, ctx, svc, session(t, "2025-02-11", tt.thisDistanceMi))

			flags, err := svc.DetectRisks(ctx, date(t, "2025-02-15"))
			if err != nil {
				t.Fatalf("Failed to detect risks: %v", err)
			}
			if _, got := flags[workout.RiskUndertraining]; got != tt.wantFlag {
				t.Errorf("undertraining flag = %v, want %v (flags: %v)", got, tt.wantFlag, flags)
			}
		})
	}
}

func TestService_DetectRisks_injurySignal(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	tests := []struct {
		name     string
		day      string
		note     *string
		wantFlag bool
	}{
		{
			name:     "knee soreness ten days back is flagged",
			day:      "2025-02-05",
			note:     ptr.Ref("mild right knee soreness"),
			wantFlag: true,
		},
		{
			name:     "same note fifteen days back is outside the window",
			day:      "2025-01-31",
			note:     ptr.Ref("mild right knee soreness"),
			wantFlag: false,
		},
		{
			name:     "keywords match case-insensitively",
			day:      "2025-02-10",
			note:     ptr.Ref("Achilles felt tight on the descent"),
			wantFlag: true,
		},
		{
			name:     "harmless note is not flagged",
			day:      "2025-02-10",
			note:     ptr.Ref("great views from the summit"),
			wantFlag: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t)
			w := session(t, tt.day, 1.0)
			w.Notes = tt.note
			mustCreate(t, ctx, svc, w)

			flags, err := svc.DetectRisks(ctx, date(t, "2025-02-15"))
			if err != nil {
				t.Fatalf("Failed to detect risks: %v", err)
			}
			if _, got := flags[workout.RiskInjurySignal]; got != tt.wantFlag {
				t.Errorf("injury_signal flag = %v, want %v (flags: %v)", got, tt.wantFlag, flags)
			}
		})
	}
}

func TestService_Series(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	svc := newTestService(t)

	// Two sessions in the current week, one two weeks back, nothing else.
	first := session(t, "2025-02-10", 1.234)
	first.PackLb = 12.25
	mustCreate(t, ctx, svc, first)
	second := session(t, "2025-02-12", 0)
	second.PackLb = 12
	mustCreate(t, ctx, svc, second)
	mustCreate(t, ctx, svc, session(t, "2025-01-28", 1.0))

	got, err := svc.Series(ctx, date(t, "2025-02-15"), 4)
	if err != nil {
		t.Fatalf("Failed to build series: %v", err)
	}

	want := []workout.WeekSnapshot{
		{WeekStart: date(t, "2025-01-20")},
		{WeekStart: date(t, "2025-01-27"), VerticalFt: 1320, Stress: 240},
		{WeekStart: date(t, "2025-02-03")},
		// 1.234 mi at 25% is 1628.88 ft; mean pack 12.125 rounds to 12.1;
		// stress is 60*4*1.30625 + 60*4*1.3 = 625.5.
		{WeekStart: date(t, "2025-02-10"), VerticalFt: 1629, MeanPackLb: 12.1, Stress: 625.5},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Series() mismatch (-want +got):\n%s", diff)
	}
}

func TestService_ReadinessScore(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	today := "2025-02-15"

	t.Run("empty history scores zero", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		score, err := svc.ReadinessScore(ctx, date(t, today))
		if err != nil {
			t.Fatalf("Failed to score readiness: %v", err)
		}
		if score != 0 {
			t.Errorf("ReadinessScore() = %d, want 0", score)
		}
	})

	t.Run("steady month blends to the expected score", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		// One 60-minute session with a 10 lb pack and 1320 ft of vertical in
		// each of the four series weeks:
		// (1320/9000)*0.4 + (10/30)*0.3 + (60/90)*0.3 = 0.3587 -> 36.
		for _, day := range []string{"2025-01-20", "2025-01-27", "2025-02-03", "2025-02-10"} {
			w := session(t, day, 1.0)
			w.PackLb = 10
			mustCreate(t, ctx, svc, w)
		}
		score, err := svc.ReadinessScore(ctx, date(t, today))
		if err != nil {
			t.Fatalf("Failed to score readiness: %v", err)
		}
		if score != 36 {
			t.Errorf("ReadinessScore() = %d, want 36", score)
		}
	})

	t.Run("monotonic in added volume", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		mustCreate(t, ctx, svc, session(t, "2025-02-10", 1.0))
		before, err := svc.ReadinessScore(ctx, date(t, today))
		if err != nil {
			t.Fatalf("Failed to score readiness: %v", err)
		}
		mustCreate(t, ctx, svc, session(t, "2025-02-11", 2.0))
		after, err := svc.ReadinessScore(ctx, date(t, today))
		if err != nil {
			t.Fatalf("Failed to score readiness: %v", err)
		}
		if after < before {
			t.Errorf("ReadinessScore() decreased from %d to %d after adding volume", before, after)
		}
	})

	t.Run("clamped to 100 far beyond the anchors", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		monster := workout.Workout{
			Date:        date(t, "2025-02-10"),
			Type:        workout.TypeIncline,
			DurationMin: 90,
			DistanceMi:  40,
			InclinePct:  100,
			PackLb:      30,
			RPE:         9,
		}
		mustCreate(t, ctx, svc, monster)
		score, err := svc.ReadinessScore(ctx, date(t, today))
		if err != nil {
			t.Fatalf("Failed to score readiness: %v", err)
		}
		if score != 100 {
			t.Errorf("ReadinessScore() = %d, want 100", score)
		}
	})

	t.Run("long session outside 28 days is ignored", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		old := session(t, "2025-01-17", 1.0) // 29 days before today
		old.DurationMin = 90
		mustCreate(t, ctx, svc, old)
		score, err := svc.ReadinessScore(ctx, date(t, today))
		if err != nil {
			t.Fatalf("Failed to score readiness: %v", err)
		}
		if score != 0 {
			t.Errorf("ReadinessScore() = %d, want 0", score)
		}
	})
}
