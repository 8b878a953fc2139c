package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/myrjola/pacekeeper/internal/training"
	"github.com/spf13/cobra"
)

var (
	planMethodology string
	planType        string
	planRaceDate    string
	planGoalTime    string
	planName        string
	planSave        bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Work with training plans",
}

var planPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate a training plan preview",
	Long: `Preview generates a training plan for a race without saving it.
Pass --save to store the plan for the selected user.

EXAMPLES:

  pacectl plan preview --type half_marathon --race-date 2026-10-18
  pacectl plan preview --type full_marathon --race-date 2027-04-25 --goal-time 3h30m --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raceDate, err := time.Parse(time.DateOnly, planRaceDate)
		if err != nil {
			return fmt.Errorf("race date must be formatted as YYYY-MM-DD, got %q", planRaceDate)
		}
		cfg := training.PlanConfig{
			PlanType: training.PlanType(planType),
			RaceDate: raceDate,
			Name:     planName,
		}
		if planGoalTime != "" {
			goalTime, parseErr := time.ParseDuration(planGoalTime)
			if parseErr != nil {
				return fmt.Errorf("goal time must be a duration like 1h45m, got %q", planGoalTime)
			}
			cfg.GoalTime = &goalTime
		}

		problems, err := svc.ValidatePlanConfig(planMethodology, cfg)
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			for _, problem := range problems {
				fmt.Println(color.RedString(problem))
			}
			return fmt.Errorf("invalid plan configuration")
		}

		preview, err := svc.PreviewPlan(planMethodology, cfg)
		if err != nil {
			return err
		}
		printPlanPreview(preview)

		if !planSave {
			return nil
		}
		ctx, err := userContext(cmd.Context())
		if err != nil {
			return err
		}
		plan, err := svc.SavePlanPreview(ctx, preview, cfg.RaceDate, cfg.GoalTime)
		if err != nil {
			return fmt.Errorf("save plan: %w", err)
		}
		fmt.Println(color.GreenString("saved plan %d for user %d", plan.ID, userID))
		return nil
	},
}

func printPlanPreview(plan training.GeneratedPlan) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Printf("%s (%d weeks)\n", bold.Sprint(plan.Name), plan.DurationWeeks)
	for _, week := range plan.Weeks {
		fmt.Printf("week %2d  %-6s %5.1f km", week.WeekNumber, week.Focus, week.TotalDistanceKm)
		if week.Notes != "" {
			fmt.Printf("  %s", faint.Sprint(week.Notes))
		}
		fmt.Println()
		for _, workout := range week.Workouts {
			day := time.Weekday(workout.DayOfWeek % 7)
			if workout.TargetDistanceKm != nil {
				fmt.Printf("  %-9s %-8s %5.1f km\n", day, workout.Type, *workout.TargetDistanceKm)
			} else {
				fmt.Printf("  %-9s %s\n", day, workout.Type)
			}
		}
	}
}

func init() {
	planPreviewCmd.Flags().StringVar(&planMethodology, "methodology", "custom", "plan methodology")
	planPreviewCmd.Flags().StringVar(&planType, "type", "half_marathon", "race: half_marathon or full_marathon")
	planPreviewCmd.Flags().StringVar(&planRaceDate, "race-date", "", "race date (YYYY-MM-DD)")
	planPreviewCmd.Flags().StringVar(&planGoalTime, "goal-time", "", "goal finish time, e.g. 1h45m")
	planPreviewCmd.Flags().StringVar(&planName, "name", "", "plan name override")
	planPreviewCmd.Flags().BoolVar(&planSave, "save", false, "save the plan for the selected user")
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planPreviewCmd)
}
