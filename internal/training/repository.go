package training

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/pacekeeper/internal/sqlite"
)

const dateFormat = time.DateOnly
const timestampFormat = "2006-01-02T15:04:05.000Z"

// baseRepository carries the shared database handles and logger for the
// per-concern repositories.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}

// rollback logs a failed transaction rollback. Deferred after BeginTx, it is
// a no-op once the transaction committed.
func (r baseRepository) rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		r.logger.LogAttrs(ctx, slog.LevelError, "rollback transaction", slog.Any("error", err))
	}
}

// repositories bundles the per-concern repositories behind the service.
type repositories struct {
	workouts *sqliteWorkoutRepository
	plans    *sqlitePlanRepository
	loads    *sqliteLoadRepository
	records  *sqliteRecordRepository
	zones    *sqliteZoneRepository
	goals    *sqliteGoalRepository
	settings *sqliteSettingsRepository
	users    *sqliteUserRepository
}

func newRepositories(db *sqlite.Database, logger *slog.Logger) *repositories {
	return &repositories{
		workouts: newSQLiteWorkoutRepository(db, logger),
		plans:    newSQLitePlanRepository(db, logger),
		loads:    newSQLiteLoadRepository(db, logger),
		records:  newSQLiteRecordRepository(db, logger),
		zones:    newSQLiteZoneRepository(db, logger),
		goals:    newSQLiteGoalRepository(db, logger),
		settings: newSQLiteSettingsRepository(db, logger),
		users:    newSQLiteUserRepository(db, logger),
	}
}

func formatDate(t time.Time) string {
	return t.Format(dateFormat)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return t, nil
}
