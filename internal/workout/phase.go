package workout

import "time"

// PhaseFor maps a date to the training-phase targets in effect on that date.
// The phase calendar assumes a peak event in late August and partitions the
// calendar year of the given date into four half-open blocks.
func PhaseFor(date time.Time) PhaseTarget {
	y := date.Year()
	apr1 := time.Date(y, time.April, 1, 0, 0, 0, 0, time.UTC)
	jun1 := time.Date(y, time.June, 1, 0, 0, 0, 0, time.UTC)
	aug1 := time.Date(y, time.August, 1, 0, 0, 0, 0, time.UTC)

	d := midnight(date)
	switch {
	case d.Before(apr1):
		return PhaseTarget{Name: PhaseBase, VertMin: 1500, VertMax: 2000, LongMin: 45, LongMax: 60, PackMin: 0, PackMax: 5}
	case d.Before(jun1):
		return PhaseTarget{Name: PhaseBuild, VertMin: 3000, VertMax: 4500, LongMin: 60, LongMax: 75, PackMin: 10, PackMax: 20}
	case d.Before(aug1):
		return PhaseTarget{Name: PhasePeak, VertMin: 6000, VertMax: 9000, LongMin: 75, LongMax: 90, PackMin: 20, PackMax: 35}
	default:
		return PhaseTarget{Name: PhaseTaper, VertMin: 2000, VertMax: 3000, LongMin: 45, LongMax: 60, PackMin: 0, PackMax: 15}
	}
}

// WeekRange returns the Monday-anchored half-open week window containing date.
func WeekRange(date time.Time) (start, end time.Time) {
	d := midnight(date)
	// time.Weekday numbers Sunday as 0, the week here starts on Monday.
	offset := (int(d.Weekday()) + 6) % 7
	start = d.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// midnight truncates a timestamp to a UTC calendar date.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
