package training

import (
	"context"
	"fmt"
	"time"
)

// Day statuses for calendar rendering.
const (
	DayEmpty     = "empty"
	DayPlanned   = "planned"
	DayCompleted = "completed"
	DayPartial   = "partial"
	DayMissed    = "missed"
	DayRest      = "rest"
)

// workoutTypeColors are the calendar display colors per workout type.
var workoutTypeColors = map[WorkoutType]string{
	WorkoutEasy:     "#22c55e",
	WorkoutLong:     "#3b82f6",
	WorkoutTempo:    "#f59e0b",
	WorkoutInterval: "#ef4444",
	WorkoutRecovery: "#9ca3af",
	WorkoutRest:     "#e5e7eb",
}

// CalendarDay merges the scheduled and completed workouts of one date.
type CalendarDay struct {
	Date            time.Time
	Scheduled       []ScheduledWorkout
	Completed       []Workout
	IsToday         bool
	IsCurrentMonth  bool
	ZoneColor       string
	TotalDistanceKm float64
	Status          string
}

// CalendarWeek is one Monday-aligned row of the month grid.
type CalendarWeek struct {
	WeekNumber     int
	Days           []CalendarDay
	TotalPlannedKm float64
	TotalActualKm  float64
}

// MonthCalendar builds the full-week grid covering a month, with scheduled
// workouts resolved onto their derived dates.
func (s *Service) MonthCalendar(ctx context.Context, year int, month time.Month) ([]CalendarWeek, error) {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	start := mondayOf(firstOfMonth)
	end := lastOfMonth.AddDate(0, 0, 7-isoWeekday(lastOfMonth))

	scheduledByDate, scheduledTypes, err := s.scheduledWorkoutsByDate(ctx, start, end)
	if err != nil {
		return nil, err
	}
	completedByDate, err := s.completedWorkoutsByDate(ctx, start, end)
	if err != nil {
		return nil, err
	}

	today := s.today()
	var weeks []CalendarWeek
	for current := start; !current.After(end); {
		week := CalendarWeek{}
		_, week.WeekNumber = current.ISOWeek()

		for range 7 {
			day := buildCalendarDay(current, scheduledByDate[current], completedByDate[current],
				scheduledTypes, today)
			day.IsCurrentMonth = current.Month() == month

			var plannedKm float64
			for _, scheduled := range day.Scheduled {
				if scheduled.TargetDistanceKm != nil {
					plannedKm += *scheduled.TargetDistanceKm
				}
			}
			week.TotalPlannedKm += plannedKm
			for _, completed := range day.Completed {
				week.TotalActualKm += completed.DistanceKm
			}

			week.Days = append(week.Days, day)
			current = current.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

// DayCalendar builds the detailed view for a single date.
func (s *Service) DayCalendar(ctx context.Context, day time.Time) (CalendarDay, error) {
	day = dateOnly(day)
	scheduledByDate, scheduledTypes, err := s.scheduledWorkoutsByDate(ctx, day, day)
	if err != nil {
		return CalendarDay{}, err
	}
	completedByDate, err := s.completedWorkoutsByDate(ctx, day, day)
	if err != nil {
		return CalendarDay{}, err
	}

	result := buildCalendarDay(day, scheduledByDate[day], completedByDate[day], scheduledTypes, s.today())
	result.IsCurrentMonth = true
	return result, nil
}

func buildCalendarDay(
	day time.Time,
	scheduled []ScheduledWorkout,
	completed []Workout,
	scheduledTypes map[int64]WorkoutType,
	today time.Time,
) CalendarDay {
	var plannedKm, actualKm float64
	for _, w := range scheduled {
		if w.TargetDistanceKm != nil {
			plannedKm += *w.TargetDistanceKm
		}
	}
	for _, w := range completed {
		actualKm += w.DistanceKm
	}
	total := actualKm
	if total == 0 {
		total = plannedKm
	}

	return CalendarDay{
		Date:            day,
		Scheduled:       scheduled,
		Completed:       completed,
		IsToday:         day.Equal(today),
		ZoneColor:       dayColor(scheduled, completed, scheduledTypes),
		TotalDistanceKm: total,
		Status:          dayStatus(scheduled, completed, day, today),
	}
}

// scheduledWorkoutsByDate resolves every scheduled workout of the user's
// plans onto its calendar date within [start, end]. The second return value
// maps scheduled workout IDs to their types for color resolution.
func (s *Service) scheduledWorkoutsByDate(
	ctx context.Context,
	start, end time.Time,
) (map[time.Time][]ScheduledWorkout, map[int64]WorkoutType, error) {
	plans, err := s.repo.plans.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list training plans: %w", err)
	}

	byDate := make(map[time.Time][]ScheduledWorkout)
	types := make(map[int64]WorkoutType)
	for _, plan := range plans {
		if plan.RaceDate.IsZero() || plan.DurationWeeks == 0 {
			continue
		}
		for _, week := range plan.Weeks {
			for _, scheduled := range week.Workouts {
				types[scheduled.ID] = scheduled.Type
				workoutDate := ScheduledWorkoutDate(plan.RaceDate, plan.DurationWeeks,
					week.WeekNumber, scheduled.DayOfWeek)
				if !workoutDate.Before(start) && !workoutDate.After(end) {
					byDate[workoutDate] = append(byDate[workoutDate], scheduled)
				}
			}
		}
	}
	return byDate, types, nil
}

func (s *Service) completedWorkoutsByDate(
	ctx context.Context,
	start, end time.Time,
) (map[time.Time][]Workout, error) {
	workouts, err := s.repo.workouts.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	byDate := make(map[time.Time][]Workout)
	for _, w := range workouts {
		byDate[w.Date] = append(byDate[w.Date], w)
	}
	return byDate, nil
}

// dayStatus classifies a calendar day. Days in the past with unfulfilled
// schedules count as missed; future ones stay planned.
func dayStatus(scheduled []ScheduledWorkout, completed []Workout, day, today time.Time) string {
	nonRest := 0
	for _, w := range scheduled {
		if w.Type != WorkoutRest {
			nonRest++
		}
	}
	if len(scheduled) > 0 && nonRest == 0 {
		return DayRest
	}
	if len(scheduled) == 0 && len(completed) == 0 {
		return DayEmpty
	}
	if len(completed) > 0 {
		if len(scheduled) > 0 && len(completed) < nonRest {
			return DayPartial
		}
		return DayCompleted
	}
	if day.Before(today) {
		return DayMissed
	}
	return DayPlanned
}

// dayColor picks the display color of a day, preferring completed workouts
// and skipping rest slots.
func dayColor(scheduled []ScheduledWorkout, completed []Workout, types map[int64]WorkoutType) string {
	if len(completed) > 0 {
		for _, w := range completed {
			workoutType := WorkoutEasy
			if w.ScheduledWorkoutID != nil {
				if t, ok := types[*w.ScheduledWorkoutID]; ok {
					workoutType = t
				}
			}
			if workoutType != WorkoutRest {
				return workoutTypeColors[workoutType]
			}
		}
		return workoutTypeColors[WorkoutRest]
	}

	for _, w := range scheduled {
		if w.Type != WorkoutRest {
			return workoutTypeColors[w.Type]
		}
	}
	if len(scheduled) > 0 {
		return workoutTypeColors[WorkoutRest]
	}
	return ""
}

// isoWeekday returns 1 for Monday through 7 for Sunday.
func isoWeekday(t time.Time) int {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return weekday
}
