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

// sqliteRecordRepository persists the append-only personal record history.
type sqliteRecordRepository struct {
	baseRepository
}

func newSQLiteRecordRepository(db *sqlite.Database, logger *slog.Logger) *sqliteRecordRepository {
	return &sqliteRecordRepository{baseRepository: newBaseRepository(db, logger)}
}

const recordColumns = `id, distance, custom_distance_km, time_seconds, record_date,
	       pace_min_per_km, workout_id, is_manual, created_at`

// Create appends a personal record row.
func (r *sqliteRecordRepository) Create(ctx context.Context, record PersonalRecord) (PersonalRecord, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO personal_records (
			user_id, distance, custom_distance_km, time_seconds, record_date,
			pace_min_per_km, workout_id, is_manual, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, string(record.Distance), record.CustomDistanceKm, int(record.Time.Seconds()),
		formatDate(record.Date), record.PaceMinPerKm, record.WorkoutID, record.IsManual,
		time.Now().UTC().Format(timestampFormat))
	if err != nil {
		return PersonalRecord{}, fmt.Errorf("insert personal record: %w", err)
	}
	if record.ID, err = result.LastInsertId(); err != nil {
		return PersonalRecord{}, fmt.Errorf("record last insert id: %w", err)
	}
	record.Date = dateOnly(record.Date)
	return record, nil
}

// Best retrieves the fastest record for a distance bucket.
func (r *sqliteRecordRepository) Best(ctx context.Context, distance Distance) (PersonalRecord, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM personal_records
		WHERE user_id = ? AND distance = ?
		ORDER BY time_seconds, record_date
		LIMIT 1`, userID, string(distance))
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return PersonalRecord{}, fmt.Errorf("personal record for %s: %w", distance, ErrNotFound)
	}
	if err != nil {
		return PersonalRecord{}, fmt.Errorf("query personal record: %w", err)
	}
	return record, nil
}

// History retrieves all records for a distance bucket, fastest first.
func (r *sqliteRecordRepository) History(ctx context.Context, distance Distance) ([]PersonalRecord, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM personal_records
		WHERE user_id = ? AND distance = ?
		ORDER BY time_seconds, id`, userID, string(distance))
	if err != nil {
		return nil, fmt.Errorf("query record history: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Recent retrieves the newest records across all distances.
func (r *sqliteRecordRepository) Recent(ctx context.Context, limit int) ([]PersonalRecord, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM personal_records
		WHERE user_id = ?
		ORDER BY record_date DESC, id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent records: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Delete removes a single record row.
func (r *sqliteRecordRepository) Delete(ctx context.Context, id int64) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	result, err := r.db.ReadWrite.ExecContext(ctx, `
		DELETE FROM personal_records WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete personal record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("personal record %d: %w", id, ErrNotFound)
	}
	return nil
}

func collectRecords(rows *sql.Rows) ([]PersonalRecord, error) {
	var records []PersonalRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record rows: %w", err)
	}
	return records, nil
}

func scanRecord(row rowScanner) (PersonalRecord, error) {
	var (
		record       PersonalRecord
		timeSeconds  int
		dateStr      string
		createdAtStr string
	)
	err := row.Scan(&record.ID, &record.Distance, &record.CustomDistanceKm, &timeSeconds,
		&dateStr, &record.PaceMinPerKm, &record.WorkoutID, &record.IsManual, &createdAtStr)
	if err != nil {
		return PersonalRecord{}, err
	}
	record.Time = time.Duration(timeSeconds) * time.Second
	if record.Date, err = parseDate(dateStr); err != nil {
		return PersonalRecord{}, fmt.Errorf("parse record date: %w", err)
	}
	if record.CreatedAt, err = time.Parse(timestampFormat, createdAtStr); err != nil {
		return PersonalRecord{}, fmt.Errorf("parse record created_at: %w", err)
	}
	return record, nil
}
