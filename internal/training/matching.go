package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Scoring weights and thresholds for workout matching.
const (
	dateWeight         = 0.6
	distanceWeight     = 0.4
	maxDateDiffDays    = 3
	AutoMatchThreshold = 0.7
)

// MatchCandidate is a potential scheduled workout for a completed workout.
type MatchCandidate struct {
	Scheduled      ScheduledWorkout
	ScheduledDate  string // ISO date the slot falls on.
	Score          float64
	DateDiffDays   int
	DistanceDiffKm *float64
	Reason         string
}

// MatchOutcome summarizes an auto-match run.
type MatchOutcome struct {
	Matched int
	Skipped int
	Errors  []string
}

// FindMatchCandidates scores the open scheduled workouts of the user's plans
// against a completed workout and returns the best candidates first. Rest
// days, slots that already have a completion, and slots more than three days
// away are never candidates.
func (s *Service) FindMatchCandidates(ctx context.Context, w Workout, limit int) ([]MatchCandidate, error) {
	plans, err := s.repo.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list training plans: %w", err)
	}

	var candidates []MatchCandidate
	for _, plan := range plans {
		if plan.RaceDate.IsZero() || plan.DurationWeeks == 0 {
			continue
		}
		for _, week := range plan.Weeks {
			for _, scheduled := range week.Workouts {
				if scheduled.Type == WorkoutRest {
					continue
				}
				claimed, err := s.repo.workouts.HasCompletion(ctx, scheduled.ID)
				if err != nil {
					return nil, fmt.Errorf("check completion: %w", err)
				}
				if claimed {
					continue
				}

				scheduledDate := ScheduledWorkoutDate(plan.RaceDate, plan.DurationWeeks,
					week.WeekNumber, scheduled.DayOfWeek)
				dateDiff := daysBetween(scheduledDate, w.Date)
				if dateDiff < 0 {
					dateDiff = -dateDiff
				}
				if dateDiff > maxDateDiffDays {
					continue
				}

				candidates = append(candidates,
					scoreCandidate(w, scheduled, formatDate(scheduledDate), dateDiff))
			}
		}
	}

	// Ties resolve to the lower scheduled workout ID so repeated runs pick
	// the same slot.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Scheduled.ID < candidates[j].Scheduled.ID
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// scoreCandidate combines date proximity (60%) and distance similarity (40%)
// into a 0..1 score.
func scoreCandidate(w Workout, scheduled ScheduledWorkout, scheduledDate string, dateDiff int) MatchCandidate {
	dateScore := max(0, 1.0-float64(dateDiff)/(maxDateDiffDays+1))

	var distanceDiff *float64
	distanceScore := 0.5 // Neutral when there is no distance to compare.
	if w.DistanceKm > 0 && scheduled.TargetDistanceKm != nil {
		target := *scheduled.TargetDistanceKm
		diff := w.DistanceKm - target
		if diff < 0 {
			diff = -diff
		}
		distanceDiff = &diff
		if target > 0 {
			distanceScore = max(0, 1.0-diff/target)
		}
	}

	var reasons []string
	switch dateDiff {
	case 0:
		reasons = append(reasons, "Same day")
	case 1:
		reasons = append(reasons, "1 day apart")
	default:
		reasons = append(reasons, fmt.Sprintf("%d days apart", dateDiff))
	}
	if distanceDiff != nil {
		if *distanceDiff < 0.5 {
			reasons = append(reasons, "Distance matches")
		} else {
			reasons = append(reasons, fmt.Sprintf("%.1fkm difference", *distanceDiff))
		}
	}

	return MatchCandidate{
		Scheduled:      scheduled,
		ScheduledDate:  scheduledDate,
		Score:          round2(dateScore*dateWeight + distanceScore*distanceWeight),
		DateDiffDays:   dateDiff,
		DistanceDiffKm: distanceDiff,
		Reason:         strings.Join(reasons, ", "),
	}
}

// BestMatch returns the highest-scoring candidate for a workout, or false
// when none qualifies.
func (s *Service) BestMatch(ctx context.Context, w Workout) (MatchCandidate, bool, error) {
	candidates, err := s.FindMatchCandidates(ctx, w, 1)
	if err != nil {
		return MatchCandidate{}, false, err
	}
	if len(candidates) == 0 {
		return MatchCandidate{}, false, nil
	}
	return candidates[0], true, nil
}

// MatchWorkout links a completed workout to a scheduled workout. The boolean
// reports whether the link was made; the message explains a refusal. The
// exclusivity checks rerun here, so a stale candidate list can never produce
// a double link.
func (s *Service) MatchWorkout(ctx context.Context, completedID, scheduledID int64) (bool, string, error) {
	unlock := s.lockUser(ctx)
	defer unlock()

	completed, err := s.repo.workouts.Get(ctx, completedID)
	if errors.Is(err, ErrNotFound) {
		return false, "Completed workout not found", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("get completed workout: %w", err)
	}

	if _, err = s.repo.plans.GetScheduledSlot(ctx, scheduledID); errors.Is(err, ErrNotFound) {
		return false, "Scheduled workout not found", nil
	} else if err != nil {
		return false, "", fmt.Errorf("get scheduled workout: %w", err)
	}

	if completed.ScheduledWorkoutID != nil {
		return false, "Workout already matched", nil
	}
	claimed, err := s.repo.workouts.HasCompletion(ctx, scheduledID)
	if err != nil {
		return false, "", fmt.Errorf("check completion: %w", err)
	}
	if claimed {
		return false, "Scheduled workout already has a completion", nil
	}

	if err = s.repo.workouts.SetScheduledWorkout(ctx, completedID, &scheduledID); err != nil {
		return false, "", fmt.Errorf("link workout: %w", err)
	}
	return true, "Workout matched successfully", nil
}

// UnmatchWorkout removes the link between a completed workout and its
// scheduled workout.
func (s *Service) UnmatchWorkout(ctx context.Context, completedID int64) (bool, string, error) {
	unlock := s.lockUser(ctx)
	defer unlock()

	completed, err := s.repo.workouts.Get(ctx, completedID)
	if errors.Is(err, ErrNotFound) {
		return false, "Workout not found", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("get workout: %w", err)
	}
	if completed.ScheduledWorkoutID == nil {
		return false, "Workout is not matched", nil
	}

	if err = s.repo.workouts.SetScheduledWorkout(ctx, completedID, nil); err != nil {
		return false, "", fmt.Errorf("unlink workout: %w", err)
	}
	return true, "Workout unmatched successfully", nil
}

// AutoMatchAll links every unmatched workout whose best candidate scores at
// or above the threshold. Pass 0 to use the default threshold.
func (s *Service) AutoMatchAll(ctx context.Context, threshold float64) (MatchOutcome, error) {
	if threshold == 0 {
		threshold = AutoMatchThreshold
	}

	unmatched, err := s.repo.workouts.ListUnmatched(ctx)
	if err != nil {
		return MatchOutcome{}, fmt.Errorf("list unmatched workouts: %w", err)
	}

	var outcome MatchOutcome
	for _, w := range unmatched {
		best, found, err := s.BestMatch(ctx, w)
		if err != nil {
			return outcome, err
		}
		if !found || best.Score < threshold {
			outcome.Skipped++
			continue
		}

		ok, msg, err := s.MatchWorkout(ctx, w.ID, best.Scheduled.ID)
		if err != nil {
			return outcome, err
		}
		if ok {
			outcome.Matched++
		} else {
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("Workout %d: %s", w.ID, msg))
		}
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "auto-match finished",
		slog.Int("matched", outcome.Matched),
		slog.Int("skipped", outcome.Skipped),
		slog.Int("errors", len(outcome.Errors)))
	return outcome, nil
}
