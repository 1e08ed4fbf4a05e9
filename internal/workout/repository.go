package workout

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jkarhu/packtrack/internal/errors"
	"github.com/jkarhu/packtrack/internal/sqlite"
)

const dateFormat = time.DateOnly

// ErrNotFound is returned when a workout identity does not exist.
var ErrNotFound = errors.NewSentinel("workout not found")

// repository handles database operations for workouts.
type repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// list returns workouts with session_date in the half-open window
// [start, end), ascending by date.
func (r *repository) list(ctx context.Context, start, end time.Time) ([]Workout, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, session_date, type, duration_min, distance_mi, incline_pct, pack_lb, rpe, notes
		FROM workouts
		WHERE session_date >= ? AND session_date < ?
		ORDER BY session_date ASC, id ASC`,
		start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	return r.scanWorkouts(rows)
}

// recent returns the newest workouts up to limit, newest first.
func (r *repository) recent(ctx context.Context, limit int) ([]Workout, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, session_date, type, duration_min, distance_mi, incline_pct, pack_lb, rpe, notes
		FROM workouts
		ORDER BY session_date DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent workouts: %w", err)
	}
	return r.scanWorkouts(rows)
}

func (r *repository) scanWorkouts(rows *sql.Rows) ([]Workout, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("could not close rows", slog.Any("error", err))
		}
	}()
	var workouts []Workout
	for rows.Next() {
		var (
			w       Workout
			dateStr string
			typeStr string
			notes   sql.NullString
		)
		if err := rows.Scan(&w.ID, &dateStr, &typeStr, &w.DurationMin, &w.DistanceMi,
			&w.InclinePct, &w.PackLb, &w.RPE, &notes); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		date, err := time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse session date: %w", err)
		}
		w.Date = date
		w.Type = Type(typeStr)
		if notes.Valid {
			w.Notes = &notes.String
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return workouts, nil
}

// meanRPE returns the average RPE over the inclusive window [start, end],
// or nil when no sessions fall in the window.
func (r *repository) meanRPE(ctx context.Context, start, end time.Time) (*float64, error) {
	var mean sql.NullFloat64
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT AVG(rpe)
		FROM workouts
		WHERE session_date >= ? AND session_date <= ?`,
		start.Format(dateFormat), end.Format(dateFormat)).Scan(&mean)
	if err != nil {
		return nil, fmt.Errorf("query mean rpe: %w", err)
	}
	if !mean.Valid {
		return nil, nil
	}
	return &mean.Float64, nil
}

// maxDuration returns the longest single session over the inclusive window
// [start, end], or nil when no sessions fall in the window.
func (r *repository) maxDuration(ctx context.Context, start, end time.Time) (*int, error) {
	var most sql.NullInt64
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT MAX(duration_min)
		FROM workouts
		WHERE session_date >= ? AND session_date <= ?`,
		start.Format(dateFormat), end.Format(dateFormat)).Scan(&most)
	if err != nil {
		return nil, fmt.Errorf("query max duration: %w", err)
	}
	if !most.Valid {
		return nil, nil
	}
	duration := int(most.Int64)
	return &duration, nil
}

// noteTexts returns the non-null notes of sessions in the inclusive window
// [start, end].
func (r *repository) noteTexts(ctx context.Context, start, end time.Time) ([]string, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT notes
		FROM workouts
		WHERE session_date >= ? AND session_date <= ? AND notes IS NOT NULL`,
		start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query note texts: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			r.logger.Error("could not close rows", slog.Any("error", err))
		}
	}()
	var notes []string
	for rows.Next() {
		var note string
		if err = rows.Scan(&note); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return notes, nil
}

// insert stores a new workout and returns its identity.
func (r *repository) insert(ctx context.Context, w Workout) (int, error) {
	var notes any
	if w.Notes != nil {
		notes = *w.Notes
	}
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workouts (session_date, type, duration_min, distance_mi, incline_pct, pack_lb, rpe, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.Date.Format(dateFormat), string(w.Type), w.DurationMin, w.DistanceMi,
		w.InclinePct, w.PackLb, w.RPE, notes)
	if err != nil {
		return 0, fmt.Errorf("insert workout: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return int(id), nil
}

// delete removes a workout by identity. Returns ErrNotFound when the identity
// does not exist.
func (r *repository) delete(ctx context.Context, id int) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return errors.Wrap(ErrNotFound, "delete workout", slog.Int("id", id))
	}
	return nil
}
