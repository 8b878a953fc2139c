package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Exponential decay time constants in days.
const (
	atlDecayDays = 7
	ctlDecayDays = 42
)

// defaultThresholdPace is used for TSS until the user calibrates their own,
// 5:00/km in decimal.
const defaultThresholdPace = 5.00

// defaultBackfillDays is how far back the historical backfill walks.
const defaultBackfillDays = 90

// workoutTSS calculates the Training Stress Score of a single workout:
//
//	TSS = duration_hours * (threshold_pace / actual_pace)² * 100
//
// A workout at threshold pace for one hour scores exactly 100. Workouts
// without a usable pace or duration score zero.
func workoutTSS(w Workout, thresholdPace float64) float64 {
	if w.Duration <= 0 || w.AvgPaceMinPerKm <= 0 {
		return 0
	}
	intensityFactor := thresholdPace / w.AvgPaceMinPerKm
	durationHours := w.Duration.Hours()
	return round2(durationHours * intensityFactor * intensityFactor * 100)
}

// nextLoad advances the exponentially weighted averages by one day:
//
//	new = previous + (daily_tss - previous) * (1 - e^(-1/N))
//
// with N = 7 for ATL and N = 42 for CTL. TSB is CTL - ATL.
func nextLoad(prev TrainingLoad, day time.Time, dailyTSS float64) TrainingLoad {
	atlFactor := 1 - math.Exp(-1.0/atlDecayDays)
	ctlFactor := 1 - math.Exp(-1.0/ctlDecayDays)

	atl := round2(prev.ATL + (dailyTSS-prev.ATL)*atlFactor)
	ctl := round2(prev.CTL + (dailyTSS-prev.CTL)*ctlFactor)
	return TrainingLoad{
		Date:     dateOnly(day),
		DailyTSS: dailyTSS,
		ATL:      atl,
		CTL:      ctl,
		TSB:      round2(ctl - atl),
	}
}

// dailyTSS totals the TSS of all workouts completed on a day.
func (s *Service) dailyTSS(ctx context.Context, day time.Time, thresholdPace float64) (float64, error) {
	workouts, err := s.repo.workouts.ListByDate(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("list workouts for day: %w", err)
	}
	var total float64
	for _, w := range workouts {
		total += workoutTSS(w, thresholdPace)
	}
	return round2(total), nil
}

// updateTrainingLoad computes and stores the load row for one day, chaining
// from the previous day's row or from zero when none exists.
func (s *Service) updateTrainingLoad(ctx context.Context, day time.Time, thresholdPace float64) (TrainingLoad, error) {
	dailyTSS, err := s.dailyTSS(ctx, day, thresholdPace)
	if err != nil {
		return TrainingLoad{}, err
	}

	prev, err := s.repo.loads.Get(ctx, day.AddDate(0, 0, -1))
	if errors.Is(err, ErrNotFound) {
		prev = TrainingLoad{}
	} else if err != nil {
		return TrainingLoad{}, fmt.Errorf("get previous training load: %w", err)
	}

	load := nextLoad(prev, day, dailyTSS)
	if err = s.repo.loads.Upsert(ctx, load); err != nil {
		return TrainingLoad{}, fmt.Errorf("store training load: %w", err)
	}
	return load, nil
}

// recalculateFrom walks day by day from start to today, recomputing every
// load row so downstream days pick up changes upstream. Returns the number
// of days recalculated.
func (s *Service) recalculateFrom(ctx context.Context, start time.Time) (int, error) {
	settings, err := s.repo.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("get fitness settings: %w", err)
	}
	thresholdPace := defaultThresholdPace
	if settings.ThresholdPaceMinPerKm != nil {
		thresholdPace = *settings.ThresholdPaceMinPerKm
	}

	today := s.today()
	count := 0
	for current := dateOnly(start); !current.After(today); current = current.AddDate(0, 0, 1) {
		if _, err = s.updateTrainingLoad(ctx, current, thresholdPace); err != nil {
			return count, fmt.Errorf("update training load for %s: %w", formatDate(current), err)
		}
		count++
	}
	return count, nil
}

// RecalculateLoads recomputes training load from the given date to today and
// returns the number of days processed.
func (s *Service) RecalculateLoads(ctx context.Context, from time.Time) (int, error) {
	unlock := s.lockUser(ctx)
	defer unlock()

	count, err := s.recalculateFrom(ctx, from)
	if err != nil {
		return count, err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "training load recalculated",
		slog.String("from", formatDate(dateOnly(from))),
		slog.Int("days", count))
	return count, nil
}

// BackfillLoads recomputes training load from historical workouts over the
// default lookback window.
func (s *Service) BackfillLoads(ctx context.Context) (int, error) {
	return s.RecalculateLoads(ctx, s.today().AddDate(0, 0, -defaultBackfillDays))
}

// CurrentLoad retrieves the most recent load row.
func (s *Service) CurrentLoad(ctx context.Context) (TrainingLoad, error) {
	load, err := s.repo.loads.Latest(ctx)
	if err != nil {
		return TrainingLoad{}, fmt.Errorf("get current load: %w", err)
	}
	return load, nil
}

// LoadHistory retrieves the load rows for the past number of days, oldest
// first.
func (s *Service) LoadHistory(ctx context.Context, days int) ([]TrainingLoad, error) {
	today := s.today()
	loads, err := s.repo.loads.Range(ctx, today.AddDate(0, 0, -days), today)
	if err != nil {
		return nil, fmt.Errorf("get load history: %w", err)
	}
	return loads, nil
}

// WeeklyTSS totals daily TSS from Monday of the current week through today.
func (s *Service) WeeklyTSS(ctx context.Context) (float64, error) {
	today := s.today()
	total, err := s.repo.loads.SumDailyTSS(ctx, mondayOf(today), today)
	if err != nil {
		return 0, fmt.Errorf("get weekly tss: %w", err)
	}
	return total, nil
}

// LoadSummary is the dashboard view of current training load status.
type LoadSummary struct {
	CurrentTSS            float64
	ATL                   float64
	CTL                   float64
	TSB                   float64
	FormStatus            string
	FormColor             string
	WeeklyTSS             float64
	WeeklyTarget          int
	WeeklyProgressPercent int
	FitnessTrend          string
}

// LoadSummary builds the complete training load summary for the user.
func (s *Service) LoadSummary(ctx context.Context) (LoadSummary, error) {
	summary := LoadSummary{
		FormStatus: "No Data",
		FormColor:  "#9ca3af",
	}

	load, err := s.repo.loads.Latest(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return LoadSummary{}, fmt.Errorf("get current load: %w", err)
	}
	if err == nil {
		summary.CurrentTSS = load.DailyTSS
		summary.ATL = load.ATL
		summary.CTL = load.CTL
		summary.TSB = load.TSB
		summary.FormStatus, summary.FormColor = formStatus(load.TSB)
	}

	if summary.WeeklyTSS, err = s.WeeklyTSS(ctx); err != nil {
		return LoadSummary{}, err
	}

	settings, err := s.repo.settings.Get(ctx)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("get fitness settings: %w", err)
	}
	summary.WeeklyTarget = settings.TargetWeeklyTSS
	if summary.WeeklyTarget > 0 {
		progress := int(summary.WeeklyTSS / float64(summary.WeeklyTarget) * 100)
		summary.WeeklyProgressPercent = min(progress, 100)
	}

	if summary.FitnessTrend, err = s.fitnessTrend(ctx); err != nil {
		return LoadSummary{}, err
	}
	return summary, nil
}

// formStatus maps a training stress balance to its readiness label and
// display color.
func formStatus(tsb float64) (string, string) {
	switch {
	case tsb >= 25:
		return "Very Fresh", "#60a5fa"
	case tsb >= 10:
		return "Fresh", "#22c55e"
	case tsb >= -10:
		return "Neutral", "#eab308"
	case tsb >= -25:
		return "Tired", "#f97316"
	default:
		return "Very Tired", "#ef4444"
	}
}

// fitnessTrend compares CTL today against seven days ago. A change of more
// than 2 points either way counts as a trend.
func (s *Service) fitnessTrend(ctx context.Context) (string, error) {
	today := s.today()

	current, err := s.repo.loads.Get(ctx, today)
	if errors.Is(err, ErrNotFound) {
		return "unknown", nil
	}
	if err != nil {
		return "", fmt.Errorf("get current load: %w", err)
	}

	past, err := s.repo.loads.Get(ctx, today.AddDate(0, 0, -7))
	if errors.Is(err, ErrNotFound) {
		return "unknown", nil
	}
	if err != nil {
		return "", fmt.Errorf("get past load: %w", err)
	}

	diff := current.CTL - past.CTL
	switch {
	case diff > 2:
		return "improving", nil
	case diff < -2:
		return "declining", nil
	default:
		return "maintaining", nil
	}
}
