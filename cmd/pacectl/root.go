package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/myrjola/pacekeeper/internal/contexthelpers"
	"github.com/myrjola/pacekeeper/internal/sqlite"
	"github.com/myrjola/pacekeeper/internal/training"
	"github.com/spf13/cobra"
)

var (
	dbPath string
	userID int64

	db  *sqlite.Database
	svc *training.Service
)

var rootCmd = &cobra.Command{
	Use:   "pacectl",
	Short: "Admin tool for the pacekeeper training database",
	Long: `Pacectl operates directly on a pacekeeper SQLite database.

EXAMPLES:

  pacectl --db ./pacekeeper.sqlite3 backfill
  pacectl --db ./pacekeeper.sqlite3 --user 1 automatch
  pacectl --db ./pacekeeper.sqlite3 --user 1 zones 4.50 --apply
  pacectl --db ./pacekeeper.sqlite3 plan preview --type half_marathon --race-date 2026-10-18`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		var err error
		db, err = sqlite.NewDatabase(cmd.Context(), dbPath, logger)
		if err != nil {
			return fmt.Errorf("open database %s: %w", dbPath, err)
		}
		svc = training.NewService(db, logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

// userContext authenticates the selected --user, creating the row on first
// use so a fresh database works out of the box.
func userContext(ctx context.Context) (context.Context, error) {
	ctx = contexthelpers.AuthenticateContext(ctx, userID)
	if err := svc.EnsureUser(ctx, userID, ""); err != nil {
		return nil, fmt.Errorf("ensure user %d: %w", userID, err)
	}
	return ctx, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./pacekeeper.sqlite3", "path to the SQLite database")
	rootCmd.PersistentFlags().Int64Var(&userID, "user", 1, "user id to operate on")
}
