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

// sqliteLoadRepository persists the derived per-day training load rows.
type sqliteLoadRepository struct {
	baseRepository
}

func newSQLiteLoadRepository(db *sqlite.Database, logger *slog.Logger) *sqliteLoadRepository {
	return &sqliteLoadRepository{baseRepository: newBaseRepository(db, logger)}
}

// Upsert writes the load row for a day, replacing any existing row.
func (r *sqliteLoadRepository) Upsert(ctx context.Context, load TrainingLoad) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO training_loads (user_id, load_date, daily_tss, atl, ctl, tsb)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, load_date) DO UPDATE SET
			daily_tss = excluded.daily_tss,
			atl = excluded.atl,
			ctl = excluded.ctl,
			tsb = excluded.tsb`,
		userID, formatDate(load.Date), load.DailyTSS, load.ATL, load.CTL, load.TSB)
	if err != nil {
		return fmt.Errorf("upsert training load: %w", err)
	}
	return nil
}

// Get retrieves the load row for a single day.
func (r *sqliteLoadRepository) Get(ctx context.Context, day time.Time) (TrainingLoad, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var (
		load    TrainingLoad
		dateStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT load_date, daily_tss, atl, ctl, tsb
		FROM training_loads
		WHERE user_id = ? AND load_date = ?`, userID, formatDate(day)).
		Scan(&dateStr, &load.DailyTSS, &load.ATL, &load.CTL, &load.TSB)
	if errors.Is(err, sql.ErrNoRows) {
		return TrainingLoad{}, fmt.Errorf("training load for %s: %w", formatDate(day), ErrNotFound)
	}
	if err != nil {
		return TrainingLoad{}, fmt.Errorf("query training load: %w", err)
	}
	if load.Date, err = parseDate(dateStr); err != nil {
		return TrainingLoad{}, fmt.Errorf("parse load date: %w", err)
	}
	return load, nil
}

// Latest retrieves the most recent load row.
func (r *sqliteLoadRepository) Latest(ctx context.Context) (TrainingLoad, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var (
		load    TrainingLoad
		dateStr string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT load_date, daily_tss, atl, ctl, tsb
		FROM training_loads
		WHERE user_id = ?
		ORDER BY load_date DESC
		LIMIT 1`, userID).
		Scan(&dateStr, &load.DailyTSS, &load.ATL, &load.CTL, &load.TSB)
	if errors.Is(err, sql.ErrNoRows) {
		return TrainingLoad{}, fmt.Errorf("latest training load: %w", ErrNotFound)
	}
	if err != nil {
		return TrainingLoad{}, fmt.Errorf("query latest training load: %w", err)
	}
	if load.Date, err = parseDate(dateStr); err != nil {
		return TrainingLoad{}, fmt.Errorf("parse load date: %w", err)
	}
	return load, nil
}

// Range retrieves the load rows within [from, to] inclusive, ascending by
// date. Days without a row are absent from the result.
func (r *sqliteLoadRepository) Range(ctx context.Context, from, to time.Time) ([]TrainingLoad, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT load_date, daily_tss, atl, ctl, tsb
		FROM training_loads
		WHERE user_id = ? AND load_date >= ? AND load_date <= ?
		ORDER BY load_date`, userID, formatDate(from), formatDate(to))
	if err != nil {
		return nil, fmt.Errorf("query training loads: %w", err)
	}
	defer rows.Close()

	var loads []TrainingLoad
	for rows.Next() {
		var (
			load    TrainingLoad
			dateStr string
		)
		if err = rows.Scan(&dateStr, &load.DailyTSS, &load.ATL, &load.CTL, &load.TSB); err != nil {
			return nil, fmt.Errorf("scan training load row: %w", err)
		}
		if load.Date, err = parseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse load date: %w", err)
		}
		loads = append(loads, load)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training load rows: %w", err)
	}
	return loads, nil
}

// SumDailyTSS totals daily TSS over [from, to] inclusive.
func (r *sqliteLoadRepository) SumDailyTSS(ctx context.Context, from, to time.Time) (float64, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	var total float64
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(daily_tss), 0)
		FROM training_loads
		WHERE user_id = ? AND load_date >= ? AND load_date <= ?`,
		userID, formatDate(from), formatDate(to)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum daily tss: %w", err)
	}
	return total, nil
}
