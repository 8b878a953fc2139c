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

// sqlitePlanRepository persists training plans together with their weeks and
// scheduled workouts.
type sqlitePlanRepository struct {
	baseRepository
}

func newSQLitePlanRepository(db *sqlite.Database, logger *slog.Logger) *sqlitePlanRepository {
	return &sqlitePlanRepository{baseRepository: newBaseRepository(db, logger)}
}

// Create inserts a plan with all of its weeks and scheduled workouts in a
// single transaction and returns the plan with assigned IDs.
func (r *sqlitePlanRepository) Create(ctx context.Context, plan TrainingPlan) (TrainingPlan, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return TrainingPlan{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)

	var raceDate any
	if !plan.RaceDate.IsZero() {
		raceDate = formatDate(plan.RaceDate)
	}
	var goalTimeSeconds any
	if plan.GoalTime != nil {
		goalTimeSeconds = int(plan.GoalTime.Seconds())
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO training_plans (
			user_id, name, description, plan_type, methodology, duration_weeks,
			race_date, goal_time_seconds, is_template, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, plan.Name, plan.Description, string(plan.Type), plan.Methodology, plan.DurationWeeks,
		raceDate, goalTimeSeconds, plan.IsTemplate, time.Now().UTC().Format(timestampFormat))
	if err != nil {
		return TrainingPlan{}, fmt.Errorf("insert training plan: %w", err)
	}
	if plan.ID, err = result.LastInsertId(); err != nil {
		return TrainingPlan{}, fmt.Errorf("plan last insert id: %w", err)
	}

	for wi := range plan.Weeks {
		week := &plan.Weeks[wi]
		week.PlanID = plan.ID
		result, err = tx.ExecContext(ctx, `
			INSERT INTO training_weeks (plan_id, week_number, focus, total_distance_km, notes)
			VALUES (?, ?, ?, ?, ?)`,
			plan.ID, week.WeekNumber, string(week.Focus), week.TotalDistanceKm, week.Notes)
		if err != nil {
			return TrainingPlan{}, fmt.Errorf("insert training week %d: %w", week.WeekNumber, err)
		}
		if week.ID, err = result.LastInsertId(); err != nil {
			return TrainingPlan{}, fmt.Errorf("week last insert id: %w", err)
		}

		for si := range week.Workouts {
			scheduled := &week.Workouts[si]
			scheduled.WeekID = week.ID
			var targetDuration any
			if scheduled.TargetDuration != nil {
				targetDuration = int(scheduled.TargetDuration.Seconds())
			}
			result, err = tx.ExecContext(ctx, `
				INSERT INTO scheduled_workouts (
					week_id, day_of_week, workout_type, target_distance_km,
					target_duration_seconds, target_pace_min_per_km, description
				) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				week.ID, scheduled.DayOfWeek, string(scheduled.Type), scheduled.TargetDistanceKm,
				targetDuration, scheduled.TargetPaceMinPerK, scheduled.Description)
			if err != nil {
				return TrainingPlan{}, fmt.Errorf("insert scheduled workout: %w", err)
			}
			if scheduled.ID, err = result.LastInsertId(); err != nil {
				return TrainingPlan{}, fmt.Errorf("scheduled workout last insert id: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return TrainingPlan{}, fmt.Errorf("commit transaction: %w", err)
	}
	return plan, nil
}

const planColumns = `id, name, description, plan_type, methodology, duration_weeks,
	       race_date, goal_time_seconds, is_template, created_at`

// Get retrieves a plan with its weeks and scheduled workouts.
func (r *sqlitePlanRepository) Get(ctx context.Context, id int64) (TrainingPlan, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT `+planColumns+`
		FROM training_plans
		WHERE id = ? AND user_id = ?`, id, userID)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TrainingPlan{}, fmt.Errorf("training plan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return TrainingPlan{}, fmt.Errorf("query training plan: %w", err)
	}
	if err = r.loadWeeks(ctx, &plan); err != nil {
		return TrainingPlan{}, err
	}
	return plan, nil
}

// Latest retrieves the most recently created non-template plan.
func (r *sqlitePlanRepository) Latest(ctx context.Context) (TrainingPlan, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT `+planColumns+`
		FROM training_plans
		WHERE user_id = ? AND is_template = 0
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, userID)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TrainingPlan{}, fmt.Errorf("latest training plan: %w", ErrNotFound)
	}
	if err != nil {
		return TrainingPlan{}, fmt.Errorf("query latest training plan: %w", err)
	}
	if err = r.loadWeeks(ctx, &plan); err != nil {
		return TrainingPlan{}, err
	}
	return plan, nil
}

// List retrieves all non-template plans, newest first, with weeks and
// scheduled workouts attached.
func (r *sqlitePlanRepository) List(ctx context.Context) ([]TrainingPlan, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT `+planColumns+`
		FROM training_plans
		WHERE user_id = ? AND is_template = 0
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query training plans: %w", err)
	}
	defer rows.Close()

	var plans []TrainingPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan training plan row: %w", err)
		}
		plans = append(plans, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training plan rows: %w", err)
	}

	for i := range plans {
		if err = r.loadWeeks(ctx, &plans[i]); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// Delete removes a plan and cascades to its weeks and scheduled workouts.
// Links from completed workouts are cleared by the schema.
func (r *sqlitePlanRepository) Delete(ctx context.Context, id int64) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM training_plans WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete training plan: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("training plan %d: %w", id, ErrNotFound)
	}
	return nil
}

// scheduledSlot is a scheduled workout together with the plan coordinates
// needed to derive its calendar date.
type scheduledSlot struct {
	Workout       ScheduledWorkout
	WeekNumber    int
	PlanID        int64
	RaceDate      time.Time
	DurationWeeks int
}

// Date resolves the absolute calendar date of the slot.
func (s scheduledSlot) Date() time.Time {
	return ScheduledWorkoutDate(s.RaceDate, s.DurationWeeks, s.WeekNumber, s.Workout.DayOfWeek)
}

// GetScheduledSlot retrieves a scheduled workout with its plan coordinates,
// scoped to the authenticated user.
func (r *sqlitePlanRepository) GetScheduledSlot(ctx context.Context, scheduledID int64) (scheduledSlot, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var (
		slot           scheduledSlot
		raceDateStr    sql.NullString
		targetDuration sql.NullInt64
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT sw.id, sw.week_id, sw.day_of_week, sw.workout_type, sw.target_distance_km,
		       sw.target_duration_seconds, sw.target_pace_min_per_km, sw.description,
		       tw.week_number, tp.id, tp.race_date, tp.duration_weeks
		FROM scheduled_workouts sw
		JOIN training_weeks tw ON tw.id = sw.week_id
		JOIN training_plans tp ON tp.id = tw.plan_id
		WHERE sw.id = ? AND tp.user_id = ?`, scheduledID, userID).Scan(
		&slot.Workout.ID, &slot.Workout.WeekID, &slot.Workout.DayOfWeek, &slot.Workout.Type,
		&slot.Workout.TargetDistanceKm, &targetDuration, &slot.Workout.TargetPaceMinPerK,
		&slot.Workout.Description, &slot.WeekNumber, &slot.PlanID, &raceDateStr, &slot.DurationWeeks)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduledSlot{}, fmt.Errorf("scheduled workout %d: %w", scheduledID, ErrNotFound)
	}
	if err != nil {
		return scheduledSlot{}, fmt.Errorf("query scheduled workout: %w", err)
	}
	if targetDuration.Valid {
		d := time.Duration(targetDuration.Int64) * time.Second
		slot.Workout.TargetDuration = &d
	}
	if raceDateStr.Valid {
		if slot.RaceDate, err = parseDate(raceDateStr.String); err != nil {
			return scheduledSlot{}, fmt.Errorf("parse plan race date: %w", err)
		}
	}
	return slot, nil
}

func (r *sqlitePlanRepository) loadWeeks(ctx context.Context, plan *TrainingPlan) error {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, plan_id, week_number, focus, total_distance_km, notes
		FROM training_weeks
		WHERE plan_id = ?
		ORDER BY week_number`, plan.ID)
	if err != nil {
		return fmt.Errorf("query training weeks: %w", err)
	}
	defer rows.Close()

	plan.Weeks = nil
	for rows.Next() {
		var week TrainingWeek
		if err = rows.Scan(&week.ID, &week.PlanID, &week.WeekNumber, &week.Focus,
			&week.TotalDistanceKm, &week.Notes); err != nil {
			return fmt.Errorf("scan training week row: %w", err)
		}
		plan.Weeks = append(plan.Weeks, week)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate training week rows: %w", err)
	}

	for i := range plan.Weeks {
		if err = r.loadScheduledWorkouts(ctx, &plan.Weeks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *sqlitePlanRepository) loadScheduledWorkouts(ctx context.Context, week *TrainingWeek) error {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, week_id, day_of_week, workout_type, target_distance_km,
		       target_duration_seconds, target_pace_min_per_km, description
		FROM scheduled_workouts
		WHERE week_id = ?
		ORDER BY day_of_week, id`, week.ID)
	if err != nil {
		return fmt.Errorf("query scheduled workouts: %w", err)
	}
	defer rows.Close()

	week.Workouts = nil
	for rows.Next() {
		var (
			scheduled      ScheduledWorkout
			targetDuration sql.NullInt64
		)
		if err = rows.Scan(&scheduled.ID, &scheduled.WeekID, &scheduled.DayOfWeek, &scheduled.Type,
			&scheduled.TargetDistanceKm, &targetDuration, &scheduled.TargetPaceMinPerK,
			&scheduled.Description); err != nil {
			return fmt.Errorf("scan scheduled workout row: %w", err)
		}
		if targetDuration.Valid {
			d := time.Duration(targetDuration.Int64) * time.Second
			scheduled.TargetDuration = &d
		}
		week.Workouts = append(week.Workouts, scheduled)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("iterate scheduled workout rows: %w", err)
	}
	return nil
}

func scanPlan(row rowScanner) (TrainingPlan, error) {
	var (
		plan            TrainingPlan
		raceDateStr     sql.NullString
		goalTimeSeconds sql.NullInt64
		createdAtStr    string
	)
	err := row.Scan(&plan.ID, &plan.Name, &plan.Description, &plan.Type, &plan.Methodology,
		&plan.DurationWeeks, &raceDateStr, &goalTimeSeconds, &plan.IsTemplate, &createdAtStr)
	if err != nil {
		return TrainingPlan{}, err
	}
	if raceDateStr.Valid {
		if plan.RaceDate, err = parseDate(raceDateStr.String); err != nil {
			return TrainingPlan{}, fmt.Errorf("parse plan race date: %w", err)
		}
	}
	if goalTimeSeconds.Valid {
		d := time.Duration(goalTimeSeconds.Int64) * time.Second
		plan.GoalTime = &d
	}
	if plan.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
		return TrainingPlan{}, fmt.Errorf("parse plan created_at: %w", err)
	}
	return plan, nil
}
