package training

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// farFuture stands in for an open-ended upper bound in date range filters.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// WeeklySummary is one calendar week's statistics against the active plan.
type WeeklySummary struct {
	WeekStart            time.Time
	WeekEnd              time.Time
	ActualDistanceKm     float64
	PlannedDistanceKm    *float64
	WorkoutsCompleted    int
	WorkoutsScheduled    int
	AveragePace          *float64
	CompletionPercentage float64
}

// WeeklySummary builds the summary for the week starting on weekStart. A
// zero weekStart means the current week.
func (s *Service) WeeklySummary(ctx context.Context, weekStart time.Time) (WeeklySummary, error) {
	if weekStart.IsZero() {
		weekStart = mondayOf(s.today())
	}
	weekStart = dateOnly(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	workouts, err := s.repo.workouts.ListBetween(ctx, weekStart, weekEnd)
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("list workouts for week: %w", err)
	}

	summary := WeeklySummary{
		WeekStart:         weekStart,
		WeekEnd:           weekEnd,
		WorkoutsCompleted: len(workouts),
	}
	var paceSum float64
	for _, w := range workouts {
		summary.ActualDistanceKm += w.DistanceKm
		paceSum += w.AvgPaceMinPerKm
	}
	if len(workouts) > 0 {
		pace := round2(paceSum / float64(len(workouts)))
		summary.AveragePace = &pace
	}

	planned, scheduled, err := s.scheduledForWeek(ctx, weekStart)
	if err != nil {
		return WeeklySummary{}, err
	}
	summary.PlannedDistanceKm = planned
	summary.WorkoutsScheduled = scheduled

	if scheduled > 0 {
		pct := float64(summary.WorkoutsCompleted) / float64(scheduled) * 100
		summary.CompletionPercentage = math.Min(pct, 100)
	}
	return summary, nil
}

// scheduledForWeek resolves the planned distance and scheduled workout count
// for a calendar week from the latest plan. Weeks outside the plan fall back
// to the plan's weekly averages.
func (s *Service) scheduledForWeek(ctx context.Context, weekStart time.Time) (*float64, int, error) {
	plan, err := s.repo.plans.Latest(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("get latest plan: %w", err)
	}

	if !plan.RaceDate.IsZero() && plan.DurationWeeks > 0 {
		planStart := PlanStartDate(plan.RaceDate, plan.DurationWeeks)
		if !weekStart.Before(planStart) {
			weekNumber := daysBetween(planStart, weekStart)/7 + 1
			for _, week := range plan.Weeks {
				if week.WeekNumber == weekNumber {
					return week.TotalDistanceKm, countNonRest(week), nil
				}
			}
		}
	}

	// Fallback: plan-wide weekly averages.
	totalScheduled := 0
	var totalDistance float64
	hasDistance := false
	for _, week := range plan.Weeks {
		totalScheduled += countNonRest(week)
		if week.TotalDistanceKm != nil {
			totalDistance += *week.TotalDistanceKm
			hasDistance = true
		}
	}
	duration := plan.DurationWeeks
	if duration == 0 {
		duration = 1
	}
	var avgDistance *float64
	if hasDistance {
		avg := totalDistance / float64(duration)
		avgDistance = &avg
	}
	return avgDistance, totalScheduled / duration, nil
}

func countNonRest(week TrainingWeek) int {
	count := 0
	for _, w := range week.Workouts {
		if w.Type != WorkoutRest {
			count++
		}
	}
	return count
}

// PlanAdherence compares completed workouts against a plan's schedule.
type PlanAdherence struct {
	TotalScheduled    int
	TotalCompleted    int
	CompletionRate    float64
	DistancePlannedKm float64
	DistanceActualKm  float64
	DistanceAdherence float64
	MissedWorkouts    int
}

// PlanAdherence computes adherence for a plan; pass planID 0 for the latest
// plan and zero times for an unbounded range. A user without plans gets the
// zero adherence value.
func (s *Service) PlanAdherence(ctx context.Context, planID int64, from, to time.Time) (PlanAdherence, error) {
	var (
		plan TrainingPlan
		err  error
	)
	if planID == 0 {
		plan, err = s.repo.plans.Latest(ctx)
		if errors.Is(err, ErrNotFound) {
			return PlanAdherence{}, nil
		}
	} else {
		plan, err = s.repo.plans.Get(ctx, planID)
	}
	if err != nil {
		return PlanAdherence{}, fmt.Errorf("get plan: %w", err)
	}

	var adherence PlanAdherence
	for _, week := range plan.Weeks {
		for _, scheduled := range week.Workouts {
			if scheduled.Type == WorkoutRest {
				continue
			}
			adherence.TotalScheduled++
			if scheduled.TargetDistanceKm != nil {
				adherence.DistancePlannedKm += *scheduled.TargetDistanceKm
			}
		}
	}

	if to.IsZero() {
		to = farFuture
	}
	completed, actualKm, err := s.repo.workouts.CountLinkedToPlan(ctx, plan.ID, from, to)
	if err != nil {
		return PlanAdherence{}, err
	}
	adherence.TotalCompleted = completed
	adherence.DistanceActualKm = actualKm

	if adherence.TotalScheduled > 0 {
		adherence.CompletionRate = math.Min(float64(completed)/float64(adherence.TotalScheduled)*100, 100)
	}
	if adherence.DistancePlannedKm > 0 {
		adherence.DistanceAdherence = math.Min(actualKm/adherence.DistancePlannedKm*100, 100)
	}
	adherence.MissedWorkouts = max(0, adherence.TotalScheduled-completed)
	return adherence, nil
}

// ZoneDistribution is the share of distance run in one pace zone.
type ZoneDistribution struct {
	ZoneName   string
	ZoneColor  string
	DistanceKm float64
	Percentage float64
}

// ZoneDistribution buckets completed distance by the user's pace zones. Zero
// times mean an unbounded range. Without configured zones the result is
// empty.
func (s *Service) ZoneDistribution(ctx context.Context, from, to time.Time) ([]ZoneDistribution, error) {
	zones, err := s.repo.zones.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pace zones: %w", err)
	}
	if len(zones) == 0 {
		return nil, nil
	}

	if to.IsZero() {
		to = farFuture
	}
	workouts, err := s.repo.workouts.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	totals := make(map[ZoneName]float64, len(zones))
	var totalDistance float64
	for _, w := range workouts {
		if w.DistanceKm <= 0 {
			continue
		}
		name, ok := ZoneForPace(w.AvgPaceMinPerKm, zones)
		if !ok {
			continue
		}
		totals[name] += w.DistanceKm
		totalDistance += w.DistanceKm
	}

	distribution := make([]ZoneDistribution, 0, len(zones))
	for _, zone := range zones {
		distance := totals[zone.Name]
		pct := 0.0
		if totalDistance > 0 {
			pct = round1(distance / totalDistance * 100)
		}
		distribution = append(distribution, ZoneDistribution{
			ZoneName:   zoneDisplayName(zone.Name),
			ZoneColor:  zone.ColorHex,
			DistanceKm: distance,
			Percentage: pct,
		})
	}
	return distribution, nil
}

func zoneDisplayName(name ZoneName) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(string(name[:1])) + string(name[1:])
}

// WeeklyTrend is one week's data point for trend charts.
type WeeklyTrend struct {
	WeekStart         time.Time
	WeekLabel         string
	ActualDistanceKm  float64
	PlannedDistanceKm *float64
	AveragePace       *float64
	AverageHeartRate  *int
}

// WeeklyTrends returns one point per calendar week over the past number of
// weeks, Monday-aligned, including empty weeks. Planned distance is filled
// only where the week falls inside the chosen plan's window; pass planID 0
// for the latest plan.
func (s *Service) WeeklyTrends(ctx context.Context, planID int64, weeks int) ([]WeeklyTrend, error) {
	today := s.today()
	start := today.AddDate(0, 0, -weeks*7)

	workouts, err := s.repo.workouts.ListBetween(ctx, start, today)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	type weekAgg struct {
		distance float64
		paceSum  float64
		hrSum    int
		hrCount  int
		count    int
	}
	byWeek := make(map[time.Time]*weekAgg)
	for _, w := range workouts {
		monday := mondayOf(w.Date)
		agg, ok := byWeek[monday]
		if !ok {
			agg = &weekAgg{}
			byWeek[monday] = agg
		}
		agg.distance += w.DistanceKm
		agg.paceSum += w.AvgPaceMinPerKm
		agg.count++
		if w.AvgHeartRate != nil {
			agg.hrSum += *w.AvgHeartRate
			agg.hrCount++
		}
	}

	// Plan window for planned distances, aligned to Monday.
	var (
		planStart     time.Time
		planEnd       time.Time
		plannedWeekly map[int]*float64
		plan          TrainingPlan
	)
	if planID == 0 {
		plan, err = s.repo.plans.Latest(ctx)
	} else {
		plan, err = s.repo.plans.Get(ctx, planID)
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if err == nil && !plan.RaceDate.IsZero() && plan.DurationWeeks > 0 {
		planStart = mondayOf(PlanStartDate(plan.RaceDate, plan.DurationWeeks))
		planEnd = plan.RaceDate
		plannedWeekly = make(map[int]*float64, len(plan.Weeks))
		for _, week := range plan.Weeks {
			plannedWeekly[week.WeekNumber] = week.TotalDistanceKm
		}
	}

	var trends []WeeklyTrend
	for current := mondayOf(start); !current.After(today); current = current.AddDate(0, 0, 7) {
		trend := WeeklyTrend{
			WeekStart: current,
			WeekLabel: current.Format("Jan 02"),
		}
		if agg, ok := byWeek[current]; ok && agg.count > 0 {
			trend.ActualDistanceKm = agg.distance
			pace := round2(agg.paceSum / float64(agg.count))
			trend.AveragePace = &pace
			if agg.hrCount > 0 {
				hr := int(math.Round(float64(agg.hrSum) / float64(agg.hrCount)))
				trend.AverageHeartRate = &hr
			}
		}
		if !planStart.IsZero() && !current.Before(planStart) && !current.After(planEnd) {
			weekNumber := daysBetween(planStart, current)/7 + 1
			if planned, ok := plannedWeekly[weekNumber]; ok {
				trend.PlannedDistanceKm = planned
			}
		}
		trends = append(trends, trend)
	}
	return trends, nil
}
