package workout

import "time"

// Aggregate summarises the given sessions over the half-open window
// [start, end). Empty windows yield zero-valued metrics, never a fault.
func Aggregate(records []Workout, start, end time.Time) WeeklyMetrics {
	m := WeeklyMetrics{Start: start, End: end}
	var packSum float64
	for _, w := range records {
		d := midnight(w.Date)
		if d.Before(start) || !d.Before(end) {
			continue
		}
		m.VerticalFt += w.VerticalFt()
		m.Stress += w.SessionStress()
		packSum += w.PackLb
		if w.DurationMin > m.MaxDurationMin {
			m.MaxDurationMin = w.DurationMin
		}
		m.Count++
	}
	if m.Count > 0 {
		m.MeanPackLb = packSum / float64(m.Count)
	}
	return m
}
