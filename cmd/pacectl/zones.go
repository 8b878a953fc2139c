package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/myrjola/pacekeeper/internal/training"
	"github.com/spf13/cobra"
)

var zonesApply bool

var zonesCmd = &cobra.Command{
	Use:   "zones <threshold-pace>",
	Short: "Calculate pace zones from a threshold pace",
	Long: `Zones derives the six training pace zones from a lactate threshold
pace given as decimal minutes per kilometer, e.g. 4.50 for 4:30/km.
By default the result is only printed; --apply saves the zones and the
threshold pace for the selected user.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		thresholdPace, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("threshold pace must be a decimal min/km value, got %q", args[0])
		}

		calc, err := training.ZonesFromThresholdPace(thresholdPace)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		fmt.Printf("%s (VDOT %.1f)\n", bold.Sprint(calc.SourceDescription), calc.VDOT)
		for _, zone := range calc.Zones {
			fmt.Printf("  %-10s %s - %s/km  %s\n",
				zone.Name,
				training.FormatPace(zone.MinPaceMinKm),
				training.FormatPace(zone.MaxPaceMinKm),
				color.New(color.Faint).Sprint(zone.Description))
		}

		if !zonesApply {
			return nil
		}
		ctx, err := userContext(cmd.Context())
		if err != nil {
			return err
		}
		if err = svc.ApplyZoneCalculation(ctx, calc); err != nil {
			return fmt.Errorf("apply zones: %w", err)
		}
		fmt.Println(color.GreenString("zones saved for user %d", userID))
		return nil
	},
}

func init() {
	zonesCmd.Flags().BoolVar(&zonesApply, "apply", false, "save the calculated zones")
	rootCmd.AddCommand(zonesCmd)
}
