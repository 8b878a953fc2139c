package training

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/pacekeeper/internal/contexthelpers"
	"github.com/myrjola/pacekeeper/internal/sqlite"
)

// sqliteWorkoutRepository persists completed workouts.
type sqliteWorkoutRepository struct {
	baseRepository
}

func newSQLiteWorkoutRepository(db *sqlite.Database, logger *slog.Logger) *sqliteWorkoutRepository {
	return &sqliteWorkoutRepository{baseRepository: newBaseRepository(db, logger)}
}

const workoutColumns = `id, workout_date, distance_km, duration_seconds, avg_pace_min_per_km,
	       avg_heart_rate, elevation_gain_m, source, notes, scheduled_workout_id, created_at`

// Create inserts a completed workout and returns it with its assigned ID.
func (r *sqliteWorkoutRepository) Create(ctx context.Context, w Workout) (Workout, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workouts (
			user_id, workout_date, distance_km, duration_seconds, avg_pace_min_per_km,
			avg_heart_rate, elevation_gain_m, source, notes, scheduled_workout_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, formatDate(w.Date), w.DistanceKm, int(w.Duration.Seconds()), w.AvgPaceMinPerKm,
		w.AvgHeartRate, w.ElevationGainM, string(w.Source), w.Notes, w.ScheduledWorkoutID,
		time.Now().UTC().Format(timestampFormat))
	if err != nil {
		return Workout{}, fmt.Errorf("insert workout: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Workout{}, fmt.Errorf("workout last insert id: %w", err)
	}
	w.ID = id
	w.Date = dateOnly(w.Date)
	return w, nil
}

// Get retrieves a single workout by ID.
func (r *sqliteWorkoutRepository) Get(ctx context.Context, id int64) (Workout, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE id = ? AND user_id = ?`, id, userID)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Workout{}, fmt.Errorf("workout %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Workout{}, fmt.Errorf("query workout: %w", err)
	}
	return w, nil
}

// Delete removes a workout. Load recalculation is the caller's concern.
func (r *sqliteWorkoutRepository) Delete(ctx context.Context, id int64) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM workouts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("workout %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListByDate retrieves the workouts completed on a single day.
func (r *sqliteWorkoutRepository) ListByDate(ctx context.Context, day time.Time) ([]Workout, error) {
	return r.list(ctx, `workout_date = ?`, formatDate(day))
}

// ListBetween retrieves workouts within [from, to] inclusive, ascending by
// date.
func (r *sqliteWorkoutRepository) ListBetween(ctx context.Context, from, to time.Time) ([]Workout, error) {
	return r.list(ctx, `workout_date >= ? AND workout_date <= ?`, formatDate(from), formatDate(to))
}

// ListUnmatched retrieves workouts without a scheduled-workout link, most
// recent first.
func (r *sqliteWorkoutRepository) ListUnmatched(ctx context.Context) ([]Workout, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT `+workoutColumns+`
		FROM workouts
		WHERE user_id = ? AND scheduled_workout_id IS NULL
		ORDER BY workout_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query unmatched workouts: %w", err)
	}
	defer rows.Close()
	return collectWorkouts(rows)
}

func (r *sqliteWorkoutRepository) list(ctx context.Context, where string, args ...any) ([]Workout, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	query := `
		SELECT ` + workoutColumns + `
		FROM workouts
		WHERE user_id = ? AND ` + where + `
		ORDER BY workout_date, id`
	rows, err := r.db.ReadOnly.QueryContext(ctx, query, append([]any{userID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()
	return collectWorkouts(rows)
}

// SetScheduledWorkout links or unlinks a workout to a scheduled workout.
func (r *sqliteWorkoutRepository) SetScheduledWorkout(ctx context.Context, id int64, scheduledID *int64) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE workouts SET scheduled_workout_id = ?
		WHERE id = ? AND user_id = ?`, scheduledID, id, userID)
	if err != nil {
		return fmt.Errorf("update workout link: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("workout %d: %w", id, ErrNotFound)
	}
	return nil
}

// HasCompletion reports whether any workout is already linked to the given
// scheduled workout.
func (r *sqliteWorkoutRepository) HasCompletion(ctx context.Context, scheduledID int64) (bool, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var count int
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM workouts
		WHERE user_id = ? AND scheduled_workout_id = ?`, userID, scheduledID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count completions: %w", err)
	}
	return count > 0, nil
}

// SumDistanceBetween totals distance over [from, to] inclusive.
func (r *sqliteWorkoutRepository) SumDistanceBetween(ctx context.Context, from, to time.Time) (float64, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var total float64
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(distance_km), 0) FROM workouts
		WHERE user_id = ? AND workout_date >= ? AND workout_date <= ?`,
		userID, formatDate(from), formatDate(to)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum workout distance: %w", err)
	}
	return total, nil
}

// CountLinkedToPlan returns how many workouts of the user within [from, to]
// are linked to scheduled workouts of the given plan, and their total
// distance.
func (r *sqliteWorkoutRepository) CountLinkedToPlan(
	ctx context.Context,
	planID int64,
	from, to time.Time,
) (int, float64, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var count int
	var distance float64
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(w.distance_km), 0)
		FROM workouts w
		JOIN scheduled_workouts sw ON sw.id = w.scheduled_workout_id
		JOIN training_weeks tw ON tw.id = sw.week_id
		WHERE w.user_id = ? AND tw.plan_id = ? AND w.workout_date >= ? AND w.workout_date <= ?`,
		userID, planID, formatDate(from), formatDate(to)).Scan(&count, &distance)
	if err != nil {
		return 0, 0, fmt.Errorf("count plan completions: %w", err)
	}
	return count, distance, nil
}

func collectWorkouts(rows *sql.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout row: %w", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workout rows: %w", err)
	}
	return workouts, nil
}

// rowScanner lets scanWorkout accept both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkout(row rowScanner) (Workout, error) {
	var (
		w               Workout
		dateStr         string
		durationSeconds int
		createdAtStr    string
	)
	err := row.Scan(&w.ID, &dateStr, &w.DistanceKm, &durationSeconds, &w.AvgPaceMinPerKm,
		&w.AvgHeartRate, &w.ElevationGainM, &w.Source, &w.Notes, &w.ScheduledWorkoutID, &createdAtStr)
	if err != nil {
		return Workout{}, err
	}
	if w.Date, err = parseDate(dateStr); err != nil {
		return Workout{}, fmt.Errorf("parse workout date: %w", err)
	}
	w.Duration = time.Duration(durationSeconds) * time.Second
	if w.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
		return Workout{}, fmt.Errorf("parse workout created_at: %w", err)
	}
	return w, nil
}
