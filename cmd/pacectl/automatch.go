package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/myrjola/pacekeeper/internal/training"
	"github.com/spf13/cobra"
)

var automatchThreshold float64

var automatchCmd = &cobra.Command{
	Use:   "automatch",
	Short: "Link completed workouts to their scheduled slots",
	Long: `Automatch scores every unmatched completed workout of the selected
user against the open slots of their training plans and links the pairs
whose score clears the threshold.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := userContext(cmd.Context())
		if err != nil {
			return err
		}

		outcome, err := svc.AutoMatchAll(ctx, automatchThreshold)
		if err != nil {
			return fmt.Errorf("automatch: %w", err)
		}

		fmt.Printf("matched %s, skipped %s\n",
			color.GreenString("%d", outcome.Matched),
			color.YellowString("%d", outcome.Skipped))
		for _, msg := range outcome.Errors {
			fmt.Println(color.RedString("error: %s", msg))
		}
		return nil
	},
}

func init() {
	automatchCmd.Flags().Float64Var(&automatchThreshold, "threshold", training.AutoMatchThreshold,
		"minimum match score")
	rootCmd.AddCommand(automatchCmd)
}
