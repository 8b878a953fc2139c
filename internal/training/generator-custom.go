package training

import (
	"fmt"
	"strings"
	"time"
)

// customGenerator builds a balanced plan scaffold with progressive loading:
// base (25%), build (35%), peak (25%), taper (15%).
type customGenerator struct{}

func (customGenerator) Name() string        { return "custom" }
func (customGenerator) DisplayName() string { return "Custom Plan" }
func (customGenerator) Description() string {
	return "Create your own week-by-week training structure"
}

func (customGenerator) SupportedDistances() []PlanType {
	return []PlanType{PlanHalfMarathon, PlanFullMarathon}
}

var customMinWeeks = map[PlanType]int{
	PlanHalfMarathon: 8,
	PlanFullMarathon: 12,
}

var customMaxWeeks = map[PlanType]int{
	PlanHalfMarathon: 20,
	PlanFullMarathon: 30,
}

// baseWeeklyKm is the starting weekly volume per distance.
var baseWeeklyKm = map[PlanType]float64{
	PlanHalfMarathon: 30,
	PlanFullMarathon: 45,
}

// phaseMultipliers scale the weekly volume by training phase.
var phaseMultipliers = map[Focus]float64{
	FocusBase:  0.80,
	FocusBuild: 1.00,
	FocusPeak:  1.15,
	FocusTaper: 0.60,
}

var workoutDescriptions = map[WorkoutType]string{
	WorkoutEasy:     "Easy effort, conversational pace",
	WorkoutLong:     "Long run - focus on time on feet",
	WorkoutTempo:    "Comfortably hard, sustainable effort",
	WorkoutInterval: "Hard efforts with recovery intervals",
	WorkoutRecovery: "Very easy recovery run",
	WorkoutRest:     "Rest day - optional stretching or cross-training",
}

// dayPlan is one slot in a weekly structure. A nil fraction means a rest
// day; otherwise the fraction is the share of the weekly volume.
type dayPlan struct {
	day      int
	workout  WorkoutType
	fraction *float64
}

func frac(f float64) *float64 { return &f }

// weekStructures fixes the seven-day layout per phase.
var weekStructures = map[Focus][]dayPlan{
	FocusBase: {
		{1, WorkoutEasy, frac(0.20)},
		{2, WorkoutRest, nil},
		{3, WorkoutEasy, frac(0.18)},
		{4, WorkoutRest, nil},
		{5, WorkoutEasy, frac(0.15)},
		{6, WorkoutRest, nil},
		{7, WorkoutLong, frac(0.35)},
	},
	FocusBuild: {
		{1, WorkoutEasy, frac(0.15)},
		{2, WorkoutTempo, frac(0.15)},
		{3, WorkoutEasy, frac(0.12)},
		{4, WorkoutRest, nil},
		{5, WorkoutEasy, frac(0.12)},
		{6, WorkoutRecovery, frac(0.08)},
		{7, WorkoutLong, frac(0.38)},
	},
	FocusPeak: {
		{1, WorkoutEasy, frac(0.12)},
		{2, WorkoutTempo, frac(0.15)},
		{3, WorkoutEasy, frac(0.10)},
		{4, WorkoutInterval, frac(0.12)},
		{5, WorkoutRecovery, frac(0.08)},
		{6, WorkoutRest, nil},
		{7, WorkoutLong, frac(0.43)},
	},
	FocusTaper: {
		{1, WorkoutEasy, frac(0.18)},
		{2, WorkoutRest, nil},
		{3, WorkoutEasy, frac(0.15)},
		{4, WorkoutRest, nil},
		{5, WorkoutEasy, frac(0.12)},
		{6, WorkoutRest, nil},
		{7, WorkoutLong, frac(0.30)},
	},
}

var weekNotes = map[Focus]string{
	FocusBase:  "Focus on building aerobic base. Keep all runs at conversational pace.",
	FocusBuild: "Building volume with quality sessions. Listen to your body.",
	FocusPeak:  "Peak training block. Prioritize recovery between hard efforts.",
	FocusTaper: "Reducing volume to arrive fresh at race day. Trust your training.",
}

const raceWeekNote = "Race week! Keep runs short and easy. Focus on rest and nutrition."

func (g customGenerator) Validate(cfg PlanConfig, today time.Time) []string {
	var problems []string
	weeks := weeksUntilRace(cfg.RaceDate, today)
	readable := strings.ReplaceAll(string(cfg.PlanType), "_", " ")

	supported := false
	for _, distance := range g.SupportedDistances() {
		if cfg.PlanType == distance {
			supported = true
		}
	}
	if !supported {
		return []string{fmt.Sprintf("This generator does not support %s", readable)}
	}

	if minWeeks := customMinWeeks[cfg.PlanType]; weeks < minWeeks {
		problems = append(problems, fmt.Sprintf(
			"At least %d weeks required for %s. You have %d weeks until race day.",
			minWeeks, readable, weeks))
	}

	if cfg.GoalTime != nil {
		problems = append(problems, validateGoalTime(*cfg.GoalTime, cfg.PlanType)...)
	}
	return problems
}

// validateGoalTime rejects goal times outside plausible race bands.
func validateGoalTime(goalTime time.Duration, planType PlanType) []string {
	switch planType {
	case PlanHalfMarathon:
		if goalTime < time.Hour {
			return []string{"Half marathon goal time under 1 hour is faster than " +
				"the world record. Please enter a realistic goal."}
		}
		if goalTime > 4*time.Hour {
			return []string{"Half marathon goal time over 4 hours exceeds typical " +
				"race cutoffs. Consider a more achievable goal."}
		}
	case PlanFullMarathon:
		if goalTime < 2*time.Hour {
			return []string{"Marathon goal time under 2 hours is faster than " +
				"the world record. Please enter a realistic goal."}
		}
		if goalTime > 7*time.Hour {
			return []string{"Marathon goal time over 7 hours exceeds typical " +
				"race cutoffs. Consider a more achievable goal."}
		}
	}
	return nil
}

func (g customGenerator) Generate(cfg PlanConfig, today time.Time) GeneratedPlan {
	duration := min(weeksUntilRace(cfg.RaceDate, today), customMaxWeeks[cfg.PlanType])

	var weeks []GeneratedWeek
	for weekNum := 1; weekNum <= duration; weekNum++ {
		focus := weekFocus(weekNum, duration)
		weeks = append(weeks, g.generateWeek(weekNum, focus, cfg.PlanType, duration))
	}

	name := cfg.Name
	if name == "" {
		name = defaultPlanName(duration, cfg.PlanType)
	}

	return GeneratedPlan{
		Name:          name,
		Description:   fmt.Sprintf("Custom %s training plan", strings.ReplaceAll(string(cfg.PlanType), "_", " ")),
		PlanType:      cfg.PlanType,
		Methodology:   g.Name(),
		DurationWeeks: duration,
		Weeks:         weeks,
	}
}

// weekFocus maps a week's position in the plan to its training phase.
func weekFocus(weekNumber, totalWeeks int) Focus {
	progress := float64(weekNumber) / float64(totalWeeks)
	switch {
	case progress <= 0.25:
		return FocusBase
	case progress <= 0.60:
		return FocusBuild
	case progress <= 0.85:
		return FocusPeak
	default:
		return FocusTaper
	}
}

func defaultPlanName(duration int, planType PlanType) string {
	distance := "Half Marathon"
	if planType == PlanFullMarathon {
		distance = "Marathon"
	}
	return fmt.Sprintf("%d-Week %s Plan", duration, distance)
}

func (g customGenerator) generateWeek(weekNum int, focus Focus, planType PlanType, totalWeeks int) GeneratedWeek {
	// Volume ramps with overall plan progress on top of the phase
	// multiplier.
	progress := float64(weekNum) / float64(totalWeeks)
	weekKm := baseWeeklyKm[planType] * phaseMultipliers[focus] * (0.9 + 0.2*progress)

	var workouts []GeneratedWorkout
	for _, slot := range weekStructures[focus] {
		var distance *float64
		if slot.fraction != nil {
			d := round1(weekKm * *slot.fraction)
			distance = &d
		}
		workouts = append(workouts, GeneratedWorkout{
			DayOfWeek:        slot.day,
			Type:             slot.workout,
			TargetDistanceKm: distance,
			Description:      workoutDescriptions[slot.workout],
		})
	}

	notes := weekNotes[focus]
	if weekNum == totalWeeks {
		notes = raceWeekNote
	}

	return GeneratedWeek{
		WeekNumber:      weekNum,
		Focus:           focus,
		TotalDistanceKm: round1(weekKm),
		Workouts:        workouts,
		Notes:           notes,
	}
}
