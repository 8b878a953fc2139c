package training

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// GoalProgress is the computed progress of a goal at read time.
type GoalProgress struct {
	Goal            Goal
	CurrentValue    *float64
	TargetValue     *float64
	ProgressPercent int
	Remaining       string
	StatusMessage   string
	IsAchieved      bool
}

// CreateGoal validates and stores a new goal in the active state.
func (s *Service) CreateGoal(ctx context.Context, goal Goal) (Goal, error) {
	switch goal.Type {
	case GoalRaceTime:
		if goal.RaceDistance == "" || goal.TargetTime == nil {
			return Goal{}, fmt.Errorf("race time goal requires a distance and target time")
		}
	case GoalWeeklyKm, GoalMonthlyKm:
		if goal.TargetDistanceKm == nil || *goal.TargetDistanceKm <= 0 {
			return Goal{}, fmt.Errorf("distance goal requires a positive target distance")
		}
	case GoalPace:
		if goal.RaceDistance == "" || goal.TargetPace == nil || *goal.TargetPace <= 0 {
			return Goal{}, fmt.Errorf("pace goal requires a distance and target pace")
		}
	default:
		return Goal{}, fmt.Errorf("unknown goal type %q", goal.Type)
	}

	goal.Status = GoalActive
	created, err := s.repo.goals.Create(ctx, goal)
	if err != nil {
		return Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return created, nil
}

// Goals retrieves all goals, newest first.
func (s *Service) Goals(ctx context.Context) ([]Goal, error) {
	goals, err := s.repo.goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// ActiveGoals retrieves the goals still in the active state.
func (s *Service) ActiveGoals(ctx context.Context) ([]Goal, error) {
	goals, err := s.repo.goals.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active goals: %w", err)
	}
	return goals, nil
}

// DeleteGoal removes a goal.
func (s *Service) DeleteGoal(ctx context.Context, id int64) error {
	if err := s.repo.goals.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// GoalProgress computes the current progress of a goal.
func (s *Service) GoalProgress(ctx context.Context, goal Goal) (GoalProgress, error) {
	switch goal.Type {
	case GoalRaceTime:
		return s.raceTimeProgress(ctx, goal)
	case GoalWeeklyKm:
		return s.distanceProgress(ctx, goal, mondayOf(s.today()), "this week")
	case GoalMonthlyKm:
		today := s.today()
		firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return s.distanceProgress(ctx, goal, firstOfMonth, "this month")
	case GoalPace:
		return s.paceProgress(ctx, goal)
	}
	return GoalProgress{Goal: goal, StatusMessage: "Unknown goal type"}, nil
}

// raceTimeProgress scales linearly between double the target time (0%) and
// the target itself (100%).
func (s *Service) raceTimeProgress(ctx context.Context, goal Goal) (GoalProgress, error) {
	if goal.RaceDistance == "" || goal.TargetTime == nil {
		return GoalProgress{Goal: goal, StatusMessage: "Invalid goal configuration"}, nil
	}
	targetSeconds := goal.TargetTime.Seconds()
	target := targetSeconds

	best, err := s.repo.records.Best(ctx, goal.RaceDistance)
	if errors.Is(err, ErrNotFound) {
		return GoalProgress{
			Goal:          goal,
			TargetValue:   &target,
			Remaining:     formatDuration(*goal.TargetTime),
			StatusMessage: "No PR recorded yet",
		}, nil
	}
	if err != nil {
		return GoalProgress{}, fmt.Errorf("get record for %s: %w", goal.RaceDistance, err)
	}

	currentSeconds := best.Time.Seconds()
	if currentSeconds <= targetSeconds {
		return GoalProgress{
			Goal:            goal,
			CurrentValue:    &currentSeconds,
			TargetValue:     &target,
			ProgressPercent: 100,
			Remaining:       "0:00",
			StatusMessage:   fmt.Sprintf("Achieved! PR: %s", formatDuration(best.Time)),
			IsAchieved:      true,
		}, nil
	}

	maxSeconds := targetSeconds * 2
	progress := 0
	if currentSeconds < maxSeconds {
		progress = clampPercent(int((maxSeconds - currentSeconds) / (maxSeconds - targetSeconds) * 100))
	}
	return GoalProgress{
		Goal:            goal,
		CurrentValue:    &currentSeconds,
		TargetValue:     &target,
		ProgressPercent: progress,
		Remaining:       formatDuration(best.Time - *goal.TargetTime),
		StatusMessage:   fmt.Sprintf("Current PR: %s", formatDuration(best.Time)),
	}, nil
}

// distanceProgress handles weekly and monthly kilometer goals against the
// window starting at periodStart.
func (s *Service) distanceProgress(ctx context.Context, goal Goal, periodStart time.Time, period string) (GoalProgress, error) {
	if goal.TargetDistanceKm == nil || *goal.TargetDistanceKm <= 0 {
		return GoalProgress{Goal: goal, StatusMessage: "Invalid goal configuration"}, nil
	}

	currentKm, err := s.repo.workouts.SumDistanceBetween(ctx, periodStart, s.today())
	if err != nil {
		return GoalProgress{}, err
	}
	targetKm := *goal.TargetDistanceKm

	progress := min(int(currentKm/targetKm*100), 100)
	remainingKm := max(0.0, targetKm-currentKm)
	return GoalProgress{
		Goal:            goal,
		CurrentValue:    &currentKm,
		TargetValue:     &targetKm,
		ProgressPercent: progress,
		Remaining:       fmt.Sprintf("%.1f km", remainingKm),
		StatusMessage:   fmt.Sprintf("%.1f / %.1f km %s", currentKm, targetKm, period),
		IsAchieved:      currentKm >= targetKm,
	}, nil
}

// paceProgress scales between 1.5x the target pace (0%) and the target
// (100%). Lower pace is faster.
func (s *Service) paceProgress(ctx context.Context, goal Goal) (GoalProgress, error) {
	if goal.TargetPace == nil || goal.RaceDistance == "" {
		return GoalProgress{Goal: goal, StatusMessage: "Invalid goal configuration"}, nil
	}
	targetPace := *goal.TargetPace

	best, err := s.repo.records.Best(ctx, goal.RaceDistance)
	if errors.Is(err, ErrNotFound) {
		return GoalProgress{
			Goal:          goal,
			TargetValue:   &targetPace,
			Remaining:     FormatPace(targetPace),
			StatusMessage: "No PR recorded yet",
		}, nil
	}
	if err != nil {
		return GoalProgress{}, fmt.Errorf("get record for %s: %w", goal.RaceDistance, err)
	}

	currentPace := best.PaceMinPerKm
	if currentPace <= targetPace {
		return GoalProgress{
			Goal:            goal,
			CurrentValue:    &currentPace,
			TargetValue:     &targetPace,
			ProgressPercent: 100,
			Remaining:       "0:00/km",
			StatusMessage:   fmt.Sprintf("Achieved! Current: %s", FormatPace(currentPace)),
			IsAchieved:      true,
		}, nil
	}

	maxPace := targetPace * 1.5
	progress := 0
	if currentPace < maxPace {
		progress = clampPercent(int((maxPace - currentPace) / (maxPace - targetPace) * 100))
	}
	return GoalProgress{
		Goal:            goal,
		CurrentValue:    &currentPace,
		TargetValue:     &targetPace,
		ProgressPercent: progress,
		Remaining:       fmt.Sprintf("%s/km to improve", FormatPace(currentPace-targetPace)),
		StatusMessage:   fmt.Sprintf("Current: %s", FormatPace(currentPace)),
	}, nil
}

// refreshGoals recomputes every active goal after a workout change, caching
// the current value and advancing achieved or expired goals.
func (s *Service) refreshGoals(ctx context.Context) error {
	goals, err := s.repo.goals.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active goals: %w", err)
	}

	today := s.today()
	for _, goal := range goals {
		progress, err := s.GoalProgress(ctx, goal)
		if err != nil {
			return err
		}

		status := goal.Status
		if progress.IsAchieved {
			status = GoalAchieved
		} else if !goal.Deadline.IsZero() && goal.Deadline.Before(today) {
			status = GoalExpired
		}

		value := goal.CurrentValue
		if progress.CurrentValue != nil {
			value = progress.CurrentValue
		}
		if err = s.repo.goals.UpdateProgress(ctx, goal.ID, value, status); err != nil {
			return err
		}
	}
	return nil
}

func clampPercent(p int) int {
	return max(0, min(100, p))
}
