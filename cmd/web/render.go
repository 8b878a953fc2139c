package main

import (
	"time"

	"github.com/myrjola/pacekeeper/internal/ptr"
	"github.com/myrjola/pacekeeper/internal/training"
)

// JSON representations of the training domain types. Dates are ISO date
// strings, durations are integer seconds, paces are decimal min/km with a
// formatted mm:ss display alongside.

type workoutJSON struct {
	ID                 int64    `json:"id"`
	Date               string   `json:"date"`
	DistanceKm         float64  `json:"distance_km"`
	DurationSeconds    int      `json:"duration_seconds"`
	AvgPaceMinPerKm    float64  `json:"avg_pace_min_per_km"`
	AvgPaceDisplay     string   `json:"avg_pace_display"`
	AvgHeartRate       *int     `json:"avg_heart_rate,omitempty"`
	ElevationGainM     *float64 `json:"elevation_gain_m,omitempty"`
	Source             string   `json:"source"`
	Notes              string   `json:"notes,omitempty"`
	ScheduledWorkoutID *int64   `json:"scheduled_workout_id,omitempty"`
	CreatedAt          string   `json:"created_at"`
}

func renderWorkout(w training.Workout) workoutJSON {
	return workoutJSON{
		ID:                 w.ID,
		Date:               w.Date.Format(time.DateOnly),
		DistanceKm:         w.DistanceKm,
		DurationSeconds:    int(w.Duration.Seconds()),
		AvgPaceMinPerKm:    w.AvgPaceMinPerKm,
		AvgPaceDisplay:     training.FormatPace(w.AvgPaceMinPerKm),
		AvgHeartRate:       w.AvgHeartRate,
		ElevationGainM:     w.ElevationGainM,
		Source:             string(w.Source),
		Notes:              w.Notes,
		ScheduledWorkoutID: w.ScheduledWorkoutID,
		CreatedAt:          w.CreatedAt.Format(time.RFC3339),
	}
}

func renderWorkouts(workouts []training.Workout) []workoutJSON {
	out := make([]workoutJSON, 0, len(workouts))
	for _, w := range workouts {
		out = append(out, renderWorkout(w))
	}
	return out
}

type scheduledWorkoutJSON struct {
	ID                int64    `json:"id"`
	WeekID            int64    `json:"week_id"`
	DayOfWeek         int      `json:"day_of_week"`
	Type              string   `json:"type"`
	TargetDistanceKm  *float64 `json:"target_distance_km,omitempty"`
	TargetDurationSec *int     `json:"target_duration_seconds,omitempty"`
	TargetPaceMinPerK *float64 `json:"target_pace_min_per_km,omitempty"`
	Description       string   `json:"description,omitempty"`
}

func renderScheduledWorkout(sw training.ScheduledWorkout) scheduledWorkoutJSON {
	out := scheduledWorkoutJSON{
		ID:                sw.ID,
		WeekID:            sw.WeekID,
		DayOfWeek:         sw.DayOfWeek,
		Type:              string(sw.Type),
		TargetDistanceKm:  sw.TargetDistanceKm,
		TargetPaceMinPerK: sw.TargetPaceMinPerK,
		Description:       sw.Description,
	}
	if sw.TargetDuration != nil {
		out.TargetDurationSec = ptr.Ref(int(sw.TargetDuration.Seconds()))
	}
	return out
}

type matchCandidateJSON struct {
	Scheduled      scheduledWorkoutJSON `json:"scheduled"`
	ScheduledDate  string               `json:"scheduled_date"`
	Score          float64              `json:"score"`
	DateDiffDays   int                  `json:"date_diff_days"`
	DistanceDiffKm *float64             `json:"distance_diff_km,omitempty"`
	Reason         string               `json:"reason"`
}

func renderMatchCandidates(candidates []training.MatchCandidate) []matchCandidateJSON {
	out := make([]matchCandidateJSON, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, matchCandidateJSON{
			Scheduled:      renderScheduledWorkout(c.Scheduled),
			ScheduledDate:  c.ScheduledDate,
			Score:          c.Score,
			DateDiffDays:   c.DateDiffDays,
			DistanceDiffKm: c.DistanceDiffKm,
			Reason:         c.Reason,
		})
	}
	return out
}

type paceZoneJSON struct {
	Name           string  `json:"name"`
	MinPaceMinKm   float64 `json:"min_pace_min_km"`
	MaxPaceMinKm   float64 `json:"max_pace_min_km"`
	MinPaceDisplay string  `json:"min_pace_display"`
	MaxPaceDisplay string  `json:"max_pace_display"`
	Description    string  `json:"description,omitempty"`
	ColorHex       string  `json:"color_hex"`
}

func renderPaceZones(zones []training.PaceZone) []paceZoneJSON {
	out := make([]paceZoneJSON, 0, len(zones))
	for _, z := range zones {
		out = append(out, paceZoneJSON{
			Name:           string(z.Name),
			MinPaceMinKm:   z.MinPaceMinKm,
			MaxPaceMinKm:   z.MaxPaceMinKm,
			MinPaceDisplay: training.FormatPace(z.MinPaceMinKm),
			MaxPaceDisplay: training.FormatPace(z.MaxPaceMinKm),
			Description:    z.Description,
			ColorHex:       z.ColorHex,
		})
	}
	return out
}

type zoneCalculationJSON struct {
	VDOT              float64        `json:"vdot"`
	Zones             []paceZoneJSON `json:"zones"`
	SourceDescription string         `json:"source_description"`
}

func renderZoneCalculation(calc training.ZoneCalculation) zoneCalculationJSON {
	return zoneCalculationJSON{
		VDOT:              calc.VDOT,
		Zones:             renderPaceZones(calc.Zones),
		SourceDescription: calc.SourceDescription,
	}
}

type trainingLoadJSON struct {
	Date     string  `json:"date"`
	DailyTSS float64 `json:"daily_tss"`
	ATL      float64 `json:"atl"`
	CTL      float64 `json:"ctl"`
	TSB      float64 `json:"tsb"`
}

func renderTrainingLoads(loads []training.TrainingLoad) []trainingLoadJSON {
	out := make([]trainingLoadJSON, 0, len(loads))
	for _, l := range loads {
		out = append(out, trainingLoadJSON{
			Date:     l.Date.Format(time.DateOnly),
			DailyTSS: l.DailyTSS,
			ATL:      l.ATL,
			CTL:      l.CTL,
			TSB:      l.TSB,
		})
	}
	return out
}

type personalRecordJSON struct {
	ID               int64    `json:"id"`
	Distance         string   `json:"distance"`
	CustomDistanceKm *float64 `json:"custom_distance_km,omitempty"`
	TimeSeconds      int      `json:"time_seconds"`
	Date             string   `json:"date"`
	PaceMinPerKm     float64  `json:"pace_min_per_km"`
	PaceDisplay      string   `json:"pace_display"`
	WorkoutID        *int64   `json:"workout_id,omitempty"`
	IsManual         bool     `json:"is_manual"`
}

func renderPersonalRecord(pr training.PersonalRecord) personalRecordJSON {
	return personalRecordJSON{
		ID:               pr.ID,
		Distance:         string(pr.Distance),
		CustomDistanceKm: pr.CustomDistanceKm,
		TimeSeconds:      int(pr.Time.Seconds()),
		Date:             pr.Date.Format(time.DateOnly),
		PaceMinPerKm:     pr.PaceMinPerKm,
		PaceDisplay:      training.FormatPace(pr.PaceMinPerKm),
		WorkoutID:        pr.WorkoutID,
		IsManual:         pr.IsManual,
	}
}

func renderPersonalRecords(records []training.PersonalRecord) []personalRecordJSON {
	out := make([]personalRecordJSON, 0, len(records))
	for _, pr := range records {
		out = append(out, renderPersonalRecord(pr))
	}
	return out
}

type prCheckJSON struct {
	IsNewPR             bool   `json:"is_new_pr"`
	Distance            string `json:"distance"`
	TimeSeconds         int    `json:"time_seconds"`
	PreviousTimeSeconds *int   `json:"previous_time_seconds,omitempty"`
	ImprovementSeconds  *int   `json:"improvement_seconds,omitempty"`
}

func renderPRChecks(checks []training.PRCheck) []prCheckJSON {
	out := make([]prCheckJSON, 0, len(checks))
	for _, c := range checks {
		item := prCheckJSON{
			IsNewPR:     c.IsNewPR,
			Distance:    string(c.Distance),
			TimeSeconds: int(c.Time.Seconds()),
		}
		if c.PreviousTime != nil {
			item.PreviousTimeSeconds = ptr.Ref(int(c.PreviousTime.Seconds()))
		}
		if c.Improvement != nil {
			item.ImprovementSeconds = ptr.Ref(int(c.Improvement.Seconds()))
		}
		out = append(out, item)
	}
	return out
}

type goalJSON struct {
	ID                int64    `json:"id"`
	Type              string   `json:"type"`
	RaceDistance      string   `json:"race_distance,omitempty"`
	TargetTimeSeconds *int     `json:"target_time_seconds,omitempty"`
	TargetDistanceKm  *float64 `json:"target_distance_km,omitempty"`
	TargetPace        *float64 `json:"target_pace,omitempty"`
	Deadline          string   `json:"deadline,omitempty"`
	Status            string   `json:"status"`
	CurrentValue      *float64 `json:"current_value,omitempty"`
}

func renderGoal(g training.Goal) goalJSON {
	out := goalJSON{
		ID:               g.ID,
		Type:             string(g.Type),
		RaceDistance:     string(g.RaceDistance),
		TargetDistanceKm: g.TargetDistanceKm,
		TargetPace:       g.TargetPace,
		Status:           string(g.Status),
		CurrentValue:     g.CurrentValue,
	}
	if g.TargetTime != nil {
		out.TargetTimeSeconds = ptr.Ref(int(g.TargetTime.Seconds()))
	}
	if !g.Deadline.IsZero() {
		out.Deadline = g.Deadline.Format(time.DateOnly)
	}
	return out
}

type goalProgressJSON struct {
	Goal            goalJSON `json:"goal"`
	CurrentValue    *float64 `json:"current_value,omitempty"`
	TargetValue     *float64 `json:"target_value,omitempty"`
	ProgressPercent int      `json:"progress_percent"`
	Remaining       string   `json:"remaining"`
	StatusMessage   string   `json:"status_message"`
	IsAchieved      bool     `json:"is_achieved"`
}

func renderGoalProgress(p training.GoalProgress) goalProgressJSON {
	return goalProgressJSON{
		Goal:            renderGoal(p.Goal),
		CurrentValue:    p.CurrentValue,
		TargetValue:     p.TargetValue,
		ProgressPercent: p.ProgressPercent,
		Remaining:       p.Remaining,
		StatusMessage:   p.StatusMessage,
		IsAchieved:      p.IsAchieved,
	}
}

type trainingWeekJSON struct {
	WeekNumber      int                    `json:"week_number"`
	Focus           string                 `json:"focus"`
	TotalDistanceKm *float64               `json:"total_distance_km,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	Workouts        []scheduledWorkoutJSON `json:"workouts"`
}

type trainingPlanJSON struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	Type            string             `json:"type"`
	Methodology     string             `json:"methodology"`
	DurationWeeks   int                `json:"duration_weeks"`
	RaceDate        string             `json:"race_date,omitempty"`
	GoalTimeSeconds *int               `json:"goal_time_seconds,omitempty"`
	CreatedAt       string             `json:"created_at"`
	Weeks           []trainingWeekJSON `json:"weeks,omitempty"`
}

func renderTrainingPlan(plan training.TrainingPlan) trainingPlanJSON {
	out := trainingPlanJSON{
		ID:            plan.ID,
		Name:          plan.Name,
		Description:   plan.Description,
		Type:          string(plan.Type),
		Methodology:   plan.Methodology,
		DurationWeeks: plan.DurationWeeks,
		CreatedAt:     plan.CreatedAt.Format(time.RFC3339),
	}
	if !plan.RaceDate.IsZero() {
		out.RaceDate = plan.RaceDate.Format(time.DateOnly)
	}
	if plan.GoalTime != nil {
		out.GoalTimeSeconds = ptr.Ref(int(plan.GoalTime.Seconds()))
	}
	for _, week := range plan.Weeks {
		weekJSON := trainingWeekJSON{
			WeekNumber:      week.WeekNumber,
			Focus:           string(week.Focus),
			TotalDistanceKm: week.TotalDistanceKm,
			Notes:           week.Notes,
			Workouts:        make([]scheduledWorkoutJSON, 0, len(week.Workouts)),
		}
		for _, sw := range week.Workouts {
			weekJSON.Workouts = append(weekJSON.Workouts, renderScheduledWorkout(sw))
		}
		out.Weeks = append(out.Weeks, weekJSON)
	}
	return out
}

type generatedWorkoutJSON struct {
	DayOfWeek        int      `json:"day_of_week"`
	Type             string   `json:"type"`
	TargetDistanceKm *float64 `json:"target_distance_km,omitempty"`
	Description      string   `json:"description,omitempty"`
}

type generatedWeekJSON struct {
	WeekNumber      int                    `json:"week_number"`
	Focus           string                 `json:"focus"`
	TotalDistanceKm float64                `json:"total_distance_km"`
	Notes           string                 `json:"notes,omitempty"`
	Workouts        []generatedWorkoutJSON `json:"workouts"`
}

type generatedPlanJSON struct {
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	PlanType      string              `json:"plan_type"`
	Methodology   string              `json:"methodology"`
	DurationWeeks int                 `json:"duration_weeks"`
	Weeks         []generatedWeekJSON `json:"weeks"`
}

func renderGeneratedPlan(plan training.GeneratedPlan) generatedPlanJSON {
	out := generatedPlanJSON{
		Name:          plan.Name,
		Description:   plan.Description,
		PlanType:      string(plan.PlanType),
		Methodology:   plan.Methodology,
		DurationWeeks: plan.DurationWeeks,
		Weeks:         make([]generatedWeekJSON, 0, len(plan.Weeks)),
	}
	for _, week := range plan.Weeks {
		weekJSON := generatedWeekJSON{
			WeekNumber:      week.WeekNumber,
			Focus:           string(week.Focus),
			TotalDistanceKm: week.TotalDistanceKm,
			Notes:           week.Notes,
			Workouts:        make([]generatedWorkoutJSON, 0, len(week.Workouts)),
		}
		for _, workout := range week.Workouts {
			weekJSON.Workouts = append(weekJSON.Workouts, generatedWorkoutJSON{
				DayOfWeek:        workout.DayOfWeek,
				Type:             string(workout.Type),
				TargetDistanceKm: workout.TargetDistanceKm,
				Description:      workout.Description,
			})
		}
		out.Weeks = append(out.Weeks, weekJSON)
	}
	return out
}

type calendarDayJSON struct {
	Date            string                 `json:"date"`
	Scheduled       []scheduledWorkoutJSON `json:"scheduled"`
	Completed       []workoutJSON          `json:"completed"`
	IsToday         bool                   `json:"is_today"`
	IsCurrentMonth  bool                   `json:"is_current_month"`
	ZoneColor       string                 `json:"zone_color,omitempty"`
	TotalDistanceKm float64                `json:"total_distance_km"`
	Status          string                 `json:"status"`
}

func renderCalendarDay(day training.CalendarDay) calendarDayJSON {
	out := calendarDayJSON{
		Date:            day.Date.Format(time.DateOnly),
		Scheduled:       make([]scheduledWorkoutJSON, 0, len(day.Scheduled)),
		Completed:       renderWorkouts(day.Completed),
		IsToday:         day.IsToday,
		IsCurrentMonth:  day.IsCurrentMonth,
		ZoneColor:       day.ZoneColor,
		TotalDistanceKm: day.TotalDistanceKm,
		Status:          day.Status,
	}
	for _, sw := range day.Scheduled {
		out.Scheduled = append(out.Scheduled, renderScheduledWorkout(sw))
	}
	return out
}

type calendarWeekJSON struct {
	WeekNumber     int               `json:"week_number"`
	Days           []calendarDayJSON `json:"days"`
	TotalPlannedKm float64           `json:"total_planned_km"`
	TotalActualKm  float64           `json:"total_actual_km"`
}

func renderCalendarWeeks(weeks []training.CalendarWeek) []calendarWeekJSON {
	out := make([]calendarWeekJSON, 0, len(weeks))
	for _, week := range weeks {
		weekJSON := calendarWeekJSON{
			WeekNumber:     week.WeekNumber,
			Days:           make([]calendarDayJSON, 0, len(week.Days)),
			TotalPlannedKm: week.TotalPlannedKm,
			TotalActualKm:  week.TotalActualKm,
		}
		for _, day := range week.Days {
			weekJSON.Days = append(weekJSON.Days, renderCalendarDay(day))
		}
		out = append(out, weekJSON)
	}
	return out
}
