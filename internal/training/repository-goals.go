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

// sqliteGoalRepository persists user goals.
type sqliteGoalRepository struct {
	baseRepository
}

func newSQLiteGoalRepository(db *sqlite.Database, logger *slog.Logger) *sqliteGoalRepository {
	return &sqliteGoalRepository{baseRepository: newBaseRepository(db, logger)}
}

const goalColumns = `id, goal_type, race_distance, target_time_seconds, target_distance_km,
	       target_pace_min_per_km, deadline, status, current_value, created_at`

// Create inserts a goal and returns it with its assigned ID.
func (r *sqliteGoalRepository) Create(ctx context.Context, goal Goal) (Goal, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var targetTimeSeconds any
	if goal.TargetTime != nil {
		targetTimeSeconds = int(goal.TargetTime.Seconds())
	}
	var deadline any
	if !goal.Deadline.IsZero() {
		deadline = formatDate(goal.Deadline)
	}
	var raceDistance any
	if goal.RaceDistance != "" {
		raceDistance = string(goal.RaceDistance)
	}

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO goals (
			user_id, goal_type, race_distance, target_time_seconds, target_distance_km,
			target_pace_min_per_km, deadline, status, current_value, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, string(goal.Type), raceDistance, targetTimeSeconds, goal.TargetDistanceKm,
		goal.TargetPace, deadline, string(goal.Status), goal.CurrentValue,
		time.Now().UTC().Format(timestampFormat))
	if err != nil {
		return Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	if goal.ID, err = result.LastInsertId(); err != nil {
		return Goal{}, fmt.Errorf("goal last insert id: %w", err)
	}
	return goal, nil
}

// Get retrieves a single goal by ID.
func (r *sqliteGoalRepository) Get(ctx context.Context, id int64) (Goal, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE id = ? AND user_id = ?`, id, userID)
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Goal{}, fmt.Errorf("query goal: %w", err)
	}
	return goal, nil
}

// List retrieves all goals, newest first.
func (r *sqliteGoalRepository) List(ctx context.Context) ([]Goal, error) {
	return r.list(ctx, ``)
}

// ListActive retrieves the goals still in the active state.
func (r *sqliteGoalRepository) ListActive(ctx context.Context) ([]Goal, error) {
	return r.list(ctx, `AND status = 'active'`)
}

func (r *sqliteGoalRepository) list(ctx context.Context, filter string) ([]Goal, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE user_id = ? `+filter+`
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal row: %w", err)
		}
		goals = append(goals, goal)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goal rows: %w", err)
	}
	return goals, nil
}

// UpdateProgress stores the cached current value and lifecycle status of a
// goal.
func (r *sqliteGoalRepository) UpdateProgress(ctx context.Context, id int64, value *float64, status GoalStatus) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE goals SET current_value = ?, status = ?
		WHERE id = ? AND user_id = ?`, value, string(status), id, userID)
	if err != nil {
		return fmt.Errorf("update goal progress: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a goal.
func (r *sqliteGoalRepository) Delete(ctx context.Context, id int64) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanGoal(row rowScanner) (Goal, error) {
	var (
		goal              Goal
		raceDistance      sql.NullString
		targetTimeSeconds sql.NullInt64
		deadlineStr       sql.NullString
		createdAtStr      string
	)
	err := row.Scan(&goal.ID, &goal.Type, &raceDistance, &targetTimeSeconds, &goal.TargetDistanceKm,
		&goal.TargetPace, &deadlineStr, &goal.Status, &goal.CurrentValue, &createdAtStr)
	if err != nil {
		return Goal{}, err
	}
	if raceDistance.Valid {
		goal.RaceDistance = Distance(raceDistance.String)
	}
	if targetTimeSeconds.Valid {
		d := time.Duration(targetTimeSeconds.Int64) * time.Second
		goal.TargetTime = &d
	}
	if deadlineStr.Valid {
		if goal.Deadline, err = parseDate(deadlineStr.String); err != nil {
			return Goal{}, fmt.Errorf("parse goal deadline: %w", err)
		}
	}
	if goal.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
		return Goal{}, fmt.Errorf("parse goal created_at: %w", err)
	}
	return goal, nil
}
