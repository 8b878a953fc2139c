package training

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/myrjola/pacekeeper/internal/contexthelpers"
	"github.com/myrjola/pacekeeper/internal/sqlite"
)

// sqliteZoneRepository persists the user's configured pace zones.
type sqliteZoneRepository struct {
	baseRepository
}

func newSQLiteZoneRepository(db *sqlite.Database, logger *slog.Logger) *sqliteZoneRepository {
	return &sqliteZoneRepository{baseRepository: newBaseRepository(db, logger)}
}

// ReplaceAll swaps the user's zone set atomically. Readers never observe a
// partially written set.
func (r *sqliteZoneRepository) ReplaceAll(ctx context.Context, zones []PaceZone) error {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)

	if _, err = tx.ExecContext(ctx, `DELETE FROM pace_zones WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete pace zones: %w", err)
	}
	for _, zone := range zones {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pace_zones (
				user_id, name, min_pace_min_per_km, max_pace_min_per_km, description, color_hex
			) VALUES (?, ?, ?, ?, ?, ?)`,
			userID, string(zone.Name), zone.MinPaceMinKm, zone.MaxPaceMinKm, zone.Description, zone.ColorHex)
		if err != nil {
			return fmt.Errorf("insert pace zone %s: %w", zone.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// List retrieves the user's zones ordered slowest to fastest, which is the
// order ZoneForPace expects.
func (r *sqliteZoneRepository) List(ctx context.Context) ([]PaceZone, error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, min_pace_min_per_km, max_pace_min_per_km, description, color_hex
		FROM pace_zones
		WHERE user_id = ?
		ORDER BY min_pace_min_per_km DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query pace zones: %w", err)
	}
	defer rows.Close()

	var zones []PaceZone
	for rows.Next() {
		var zone PaceZone
		if err = rows.Scan(&zone.ID, &zone.Name, &zone.MinPaceMinKm, &zone.MaxPaceMinKm,
			&zone.Description, &zone.ColorHex); err != nil {
			return nil, fmt.Errorf("scan pace zone row: %w", err)
		}
		zones = append(zones, zone)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pace zone rows: %w", err)
	}
	return zones, nil
}
