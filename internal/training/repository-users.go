package training

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/myrjola/pacekeeper/internal/sqlite"
)

// sqliteUserRepository covers the minimal user bookkeeping the engine needs.
// Account management proper lives with the authentication layer.
type sqliteUserRepository struct {
	baseRepository
}

func newSQLiteUserRepository(db *sqlite.Database, logger *slog.Logger) *sqliteUserRepository {
	return &sqliteUserRepository{baseRepository: newBaseRepository(db, logger)}
}

// IDs lists every user id, oldest account first.
func (r *sqliteUserRepository) IDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, "SELECT id FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return ids, nil
}

// Ensure creates the user with the given id unless it already exists.
func (r *sqliteUserRepository) Ensure(ctx context.Context, id int64, displayName string) error {
	_, err := r.db.ReadWrite.ExecContext(ctx,
		"INSERT OR IGNORE INTO users (id, display_name) VALUES (?, ?)", id, displayName)
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}
