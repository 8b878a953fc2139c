// Package training implements the analytics engine of pacekeeper: pace-zone
// calculation, training-load bookkeeping, workout matching, personal-record
// detection, plan generation, and the aggregate reports built on top of them.
package training

import (
	"math"
	"time"

	"github.com/myrjola/pacekeeper/internal/errors"
)

// ErrNotFound is returned when a requested entity does not exist for the
// authenticated user.
var ErrNotFound = errors.NewSentinel("not found")

// WorkoutType classifies a scheduled workout.
type WorkoutType string

const (
	WorkoutEasy     WorkoutType = "easy"
	WorkoutLong     WorkoutType = "long"
	WorkoutTempo    WorkoutType = "tempo"
	WorkoutInterval WorkoutType = "interval"
	WorkoutRecovery WorkoutType = "recovery"
	WorkoutRest     WorkoutType = "rest"
)

// Source records how a completed workout entered the system.
type Source string

const (
	SourceManual     Source = "manual"
	SourceFileUpload Source = "file_upload"
	SourceImported   Source = "imported"
)

// PlanType is the race a training plan prepares for.
type PlanType string

const (
	PlanHalfMarathon PlanType = "half_marathon"
	PlanFullMarathon PlanType = "full_marathon"
)

// Focus is the training emphasis of a week within a plan.
type Focus string

const (
	FocusBase  Focus = "base"
	FocusBuild Focus = "build"
	FocusPeak  Focus = "peak"
	FocusTaper Focus = "taper"
)

// Distance is a personal-record bucket.
type Distance string

const (
	Distance1K     Distance = "1k"
	Distance5K     Distance = "5k"
	Distance10K    Distance = "10k"
	DistanceHalf   Distance = "half"
	DistanceFull   Distance = "full"
	DistanceCustom Distance = "custom"
)

// distanceKm maps PR buckets to their distance in kilometers.
var distanceKm = map[Distance]float64{
	Distance1K:   1,
	Distance5K:   5,
	Distance10K:  10,
	DistanceHalf: 21.0975,
	DistanceFull: 42.195,
}

// StandardDistances lists the PR buckets checked on every saved workout, in
// ascending distance order.
var StandardDistances = []Distance{Distance1K, Distance5K, Distance10K, DistanceHalf, DistanceFull}

// RaceDistanceKm resolves race distance codes accepted by the pace calculator
// and the plan generator.
var RaceDistanceKm = map[string]float64{
	"5k":            5.0,
	"10k":           10.0,
	"half_marathon": 21.0975,
	"marathon":      42.195,
}

// ZoneName identifies one of the six pace zones.
type ZoneName string

const (
	ZoneRecovery   ZoneName = "recovery"
	ZoneEasy       ZoneName = "easy"
	ZoneTempo      ZoneName = "tempo"
	ZoneThreshold  ZoneName = "threshold"
	ZoneInterval   ZoneName = "interval"
	ZoneRepetition ZoneName = "repetition"
)

// GoalType classifies a goal.
type GoalType string

const (
	GoalRaceTime  GoalType = "race_time"
	GoalWeeklyKm  GoalType = "weekly_km"
	GoalMonthlyKm GoalType = "monthly_km"
	GoalPace      GoalType = "pace"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive   GoalStatus = "active"
	GoalAchieved GoalStatus = "achieved"
	GoalExpired  GoalStatus = "expired"
)

// Workout is a completed run. Paces are minutes per kilometer as decimal
// values, e.g. 5.50 means 5:30/km.
type Workout struct {
	ID                 int64
	Date               time.Time
	DistanceKm         float64
	Duration           time.Duration
	AvgPaceMinPerKm    float64
	AvgHeartRate       *int
	ElevationGainM     *float64
	Source             Source
	Notes              string
	ScheduledWorkoutID *int64
	CreatedAt          time.Time
}

// ScheduledWorkout is one planned workout inside a training week. Its
// absolute calendar date is derived from the plan, never stored.
type ScheduledWorkout struct {
	ID                int64
	WeekID            int64
	DayOfWeek         int // 1 = Monday ... 7 = Sunday.
	Type              WorkoutType
	TargetDistanceKm  *float64
	TargetDuration    *time.Duration
	TargetPaceMinPerK *float64
	Description       string
}

// TrainingWeek is a single week within a training plan.
type TrainingWeek struct {
	ID              int64
	PlanID          int64
	WeekNumber      int
	Focus           Focus
	TotalDistanceKm *float64
	Notes           string
	Workouts        []ScheduledWorkout
}

// TrainingPlan is a race-preparation schedule.
type TrainingPlan struct {
	ID            int64
	Name          string
	Description   string
	Type          PlanType
	Methodology   string
	DurationWeeks int
	RaceDate      time.Time // zero when the plan has no race date.
	GoalTime      *time.Duration
	IsTemplate    bool
	CreatedAt     time.Time
	Weeks         []TrainingWeek
}

// TrainingLoad is the derived per-day load record. The tsb = ctl − atl
// invariant holds for every stored row.
type TrainingLoad struct {
	Date     time.Time
	DailyTSS float64
	ATL      float64
	CTL      float64
	TSB      float64
}

// PersonalRecord is one appended best-effort row. History is append-only;
// the current PR for a bucket is the row with the minimum time.
type PersonalRecord struct {
	ID               int64
	Distance         Distance
	CustomDistanceKm *float64
	Time             time.Duration
	Date             time.Time
	PaceMinPerKm     float64
	WorkoutID        *int64
	IsManual         bool
	CreatedAt        time.Time
}

// PaceZone is one of the user's six configured zones. Lower pace values are
// faster, so MaxPace < MinPace within a valid zone.
type PaceZone struct {
	ID           int64
	Name         ZoneName
	MinPaceMinKm float64
	MaxPaceMinKm float64
	Description  string
	ColorHex     string
}

// Goal is a user objective whose progress is computed on read.
type Goal struct {
	ID               int64
	Type             GoalType
	RaceDistance     Distance
	TargetTime       *time.Duration
	TargetDistanceKm *float64
	TargetPace       *float64
	Deadline         time.Time // zero when open-ended.
	Status           GoalStatus
	CurrentValue     *float64
	CreatedAt        time.Time
}

// FitnessSettings holds per-user calibration values.
type FitnessSettings struct {
	ThresholdPaceMinPerKm *float64
	TargetWeeklyTSS       int
}

// round2 quantizes to two decimals, matching the stored precision of
// distances and paces.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 quantizes to one decimal, used for weekly distance targets.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
