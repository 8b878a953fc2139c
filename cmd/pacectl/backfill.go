package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/myrjola/pacekeeper/internal/contexthelpers"
	"github.com/spf13/cobra"
)

var backfillAll bool

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Recompute training load history",
	Long: `Backfill walks the workout history and recomputes the daily
training-load records (TSS, ATL, CTL, TSB) from the earliest workout to
today. Use --all to process every user in the database instead of the
one selected with --user.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userIDs := []int64{userID}
		if backfillAll {
			ctx, err := userContext(cmd.Context())
			if err != nil {
				return err
			}
			if userIDs, err = svc.UserIDs(ctx); err != nil {
				return fmt.Errorf("list users: %w", err)
			}
		}

		bold := color.New(color.Bold)
		for _, id := range userIDs {
			ctx := contexthelpers.AuthenticateContext(cmd.Context(), id)
			if err := svc.EnsureUser(ctx, id, ""); err != nil {
				return fmt.Errorf("ensure user %d: %w", id, err)
			}
			days, err := svc.BackfillLoads(ctx)
			if err != nil {
				return fmt.Errorf("backfill user %d: %w", id, err)
			}
			fmt.Printf("user %s: recomputed %s\n",
				bold.Sprintf("%d", id), color.GreenString("%d days", days))
		}
		return nil
	},
}

func init() {
	backfillCmd.Flags().BoolVar(&backfillAll, "all", false, "backfill every user")
	rootCmd.AddCommand(backfillCmd)
}
