package training

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/myrjola/pacekeeper/internal/contexthelpers"
	"github.com/myrjola/pacekeeper/internal/sqlite"
)

// defaultTargetWeeklyTSS is used until the user sets their own target.
const defaultTargetWeeklyTSS = 300

// sqliteSettingsRepository persists per-user fitness calibration.
type sqliteSettingsRepository struct {
	baseRepository
}

func newSQLiteSettingsRepository(db *sqlite.Database, logger *slog.Logger) *sqliteSettingsRepository {
	return &sqliteSettingsRepository{baseRepository: newBaseRepository(db, logger)}
}

// Get retrieves the user's fitness settings, falling back to defaults when
// none have been saved yet.
func (r *sqliteSettingsRepository) Get(ctx context.Context) (FitnessSettings, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var settings FitnessSettings
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT threshold_pace_min_per_km, target_weekly_tss
		FROM fitness_settings
		WHERE user_id = ?`, userID).
		Scan(&settings.ThresholdPaceMinPerKm, &settings.TargetWeeklyTSS)
	if errors.Is(err, sql.ErrNoRows) {
		return FitnessSettings{TargetWeeklyTSS: defaultTargetWeeklyTSS}, nil
	}
	if err != nil {
		return FitnessSettings{}, fmt.Errorf("query fitness settings: %w", err)
	}
	return settings, nil
}

// Set saves the user's fitness settings.
func (r *sqliteSettingsRepository) Set(ctx context.Context, settings FitnessSettings) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO fitness_settings (user_id, threshold_pace_min_per_km, target_weekly_tss)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			threshold_pace_min_per_km = excluded.threshold_pace_min_per_km,
			target_weekly_tss = excluded.target_weekly_tss`,
		userID, settings.ThresholdPaceMinPerKm, settings.TargetWeeklyTSS)
	if err != nil {
		return fmt.Errorf("save fitness settings: %w", err)
	}
	return nil
}
