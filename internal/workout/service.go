package workout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/jkarhu/packtrack/internal/sqlite"
)

// Service exposes the training analytics and the workout lifecycle.
type Service struct {
	repo   *repository
	logger *slog.Logger
}

// NewService creates a new workout service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:   newRepository(db, logger),
		logger: logger,
	}
}

// Create validates and stores a new workout, returning it with its identity
// assigned. Validation failures are reported as ValidationError and nothing
// is written.
func (s *Service) Create(ctx context.Context, w Workout) (Workout, error) {
	if err := validate(w); err != nil {
		return Workout{}, err
	}
	w.Date = midnight(w.Date)
	id, err := s.repo.insert(ctx, w)
	if err != nil {
		return Workout{}, fmt.Errorf("insert workout: %w", err)
	}
	w.ID = id
	s.logger.LogAttrs(ctx, slog.LevelInfo, "logged workout",
		slog.Int("id", w.ID),
		slog.String("date", w.Date.Format(dateFormat)),
		slog.String("type", string(w.Type)))
	return w, nil
}

// Delete removes a workout by identity. Returns ErrNotFound when the identity
// does not exist.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.delete(ctx, id); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "deleted workout", slog.Int("id", id))
	return nil
}

// Recent returns the newest workouts up to limit, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Workout, error) {
	workouts, err := s.repo.recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent workouts: %w", err)
	}
	return workouts, nil
}

// WeekMetrics aggregates the stored sessions over the half-open window
// [start, end).
func (s *Service) WeekMetrics(ctx context.Context, start, end time.Time) (WeeklyMetrics, error) {
	records, err := s.repo.list(ctx, start, end)
	if err != nil {
		return WeeklyMetrics{}, fmt.Errorf("list workouts: %w", err)
	}
	return Aggregate(records, start, end), nil
}

// DetectRisks evaluates the risk heuristics as of today and returns the flags
// that fired. The rules are independent; any subset may fire at once.
func (s *Service) DetectRisks(ctx context.Context, today time.Time) (map[RiskKey]string, error) {
	today = midnight(today)
	thisStart, thisEnd := WeekRange(today)
	prevStart, prevEnd := thisStart.AddDate(0, 0, -7), thisStart

	thisWeek, err := s.WeekMetrics(ctx, thisStart, thisEnd)
	if err != nil {
		return nil, fmt.Errorf("this week metrics: %w", err)
	}
	prevWeek, err := s.WeekMetrics(ctx, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("previous week metrics: %w", err)
	}

	flags := map[RiskKey]string{}

	if prevWeek.VerticalFt > 0 && thisWeek.VerticalFt > prevWeek.VerticalFt*1.25 {
		flags[RiskOveruseVertical] = "Vertical increased >25% week-over-week."
	}

	if thisWeek.MeanPackLb-prevWeek.MeanPackLb > 5.0 {
		flags[RiskOverusePack] = "Average pack increased >5 lb week-over-week."
	}

	meanRPE, err := s.repo.meanRPE(ctx, today.AddDate(0, 0, -6), today)
	if err != nil {
		return nil, fmt.Errorf("mean rpe: %w", err)
	}
	if meanRPE != nil && *meanRPE >= 7.0 {
		flags[RiskOveruseRPE] = "Average RPE ≥7 over the last 7 days."
	}

	target := PhaseFor(today)
	floor := math.Max(target.VertMin, 1)
	if thisWeek.VerticalFt/floor < 0.7 && prevWeek.VerticalFt/floor < 0.7 {
		flags[RiskUndertraining] = "You hit <70% of weekly vertical target for 2 weeks."
	}

	notes, err := s.repo.noteTexts(ctx, today.AddDate(0, 0, -14), today)
	if err != nil {
		return nil, fmt.Errorf("note texts: %w", err)
	}
	if mentionsInjury(notes) {
		flags[RiskInjurySignal] = "Notes mention possible injury signals in the last 14 days."
	}

	return flags, nil
}

var injuryKeywords = []string{"pain", "knee", "foot", "shin", "achilles", "hip"}

func mentionsInjury(notes []string) bool {
	for _, note := range notes {
		lowered := strings.ToLower(note)
		for _, keyword := range injuryKeywords {
			if strings.Contains(lowered, keyword) {
				return true
			}
		}
	}
	return false
}

// Series builds the rolling weekly time series, oldest first, ending at the
// week containing today.
func (s *Service) Series(ctx context.Context, today time.Time, n int) ([]WeekSnapshot, error) {
	thisStart, _ := WeekRange(today)
	snapshots := make([]WeekSnapshot, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := thisStart.AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 7)
		m, err := s.WeekMetrics(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("week metrics %s: %w", start.Format(dateFormat), err)
		}
		snapshots = append(snapshots, WeekSnapshot{
			WeekStart:  start,
			VerticalFt: int(math.Round(m.VerticalFt)),
			MeanPackLb: round1(m.MeanPackLb),
			Stress:     round1(m.Stress),
		})
	}
	return snapshots, nil
}

// Normalization anchors for the readiness blend.
const (
	readinessVertAnchor     = 9000.0
	readinessPackAnchor     = 30.0
	readinessDurationAnchor = 90.0
)

// ReadinessScore blends four weeks of volume and load with the longest recent
// session into a 0-100 score.
func (s *Service) ReadinessScore(ctx context.Context, today time.Time) (int, error) {
	today = midnight(today)
	series, err := s.Series(ctx, today, 4)
	if err != nil {
		return 0, fmt.Errorf("four week series: %w", err)
	}

	var vertSum, packSum float64
	for _, snapshot := range series {
		vertSum += float64(snapshot.VerticalFt)
		packSum += snapshot.MeanPackLb
	}
	weeks := math.Max(float64(len(series)), 1)
	meanVert := vertSum / weeks
	meanPack := packSum / weeks

	maxDuration, err := s.repo.maxDuration(ctx, today.AddDate(0, 0, -28), today)
	if err != nil {
		return 0, fmt.Errorf("max duration: %w", err)
	}
	longest := 0.0
	if maxDuration != nil {
		longest = float64(*maxDuration)
	}

	raw := (meanVert/readinessVertAnchor)*0.4 +
		(meanPack/readinessPackAnchor)*0.3 +
		(longest/readinessDurationAnchor)*0.3
	score := int(math.Round(raw * 100))
	return min(max(score, 0), 100), nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func validate(w Workout) error {
	if _, err := ParseType(string(w.Type)); err != nil {
		return err
	}
	if w.DurationMin <= 0 {
		return ValidationError{Field: "duration_min", Reason: "must be positive"}
	}
	if w.DistanceMi < 0 {
		return ValidationError{Field: "distance_mi", Reason: "must not be negative"}
	}
	if w.InclinePct < 0 {
		return ValidationError{Field: "incline_pct", Reason: "must not be negative"}
	}
	if w.PackLb < 0 {
		return ValidationError{Field: "pack_lb", Reason: "must not be negative"}
	}
	if w.RPE < 1 || w.RPE > 10 {
		return ValidationError{Field: "rpe", Reason: "must be between 1 and 10"}
	}
	return nil
}
