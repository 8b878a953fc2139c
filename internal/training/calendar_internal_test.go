package training

import (
	"testing"
	"time"
)

func TestDayStatus(t *testing.T) {
	today := date(2026, 8, 26)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	easy := ScheduledWorkout{ID: 1, Type: WorkoutEasy}
	rest := ScheduledWorkout{ID: 2, Type: WorkoutRest}
	run := Workout{ID: 1, DistanceKm: 8}

	tests := []struct {
		name      string
		scheduled []ScheduledWorkout
		completed []Workout
		day       time.Time
		want      string
	}{
		{"nothing on the day", nil, nil, today, DayEmpty},
		{"only a rest slot", []ScheduledWorkout{rest}, nil, today, DayRest},
		{"scheduled in the future", []ScheduledWorkout{easy}, nil, tomorrow, DayPlanned},
		{"scheduled today not yet run", []ScheduledWorkout{easy}, nil, today, DayPlanned},
		{"scheduled in the past without a run", []ScheduledWorkout{easy}, nil, yesterday, DayMissed},
		{"completed against the schedule", []ScheduledWorkout{easy}, []Workout{run}, yesterday, DayCompleted},
		{"unscheduled run", nil, []Workout{run}, yesterday, DayCompleted},
		{
			"fewer runs than scheduled",
			[]ScheduledWorkout{easy, {ID: 3, Type: WorkoutTempo}},
			[]Workout{run},
			yesterday,
			DayPartial,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dayStatus(tt.scheduled, tt.completed, tt.day, today); got != tt.want {
				t.Errorf("dayStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDayColor(t *testing.T) {
	types := map[int64]WorkoutType{10: WorkoutTempo, 11: WorkoutRest}
	linked := func(id int64) *int64 { return &id }

	tests := []struct {
		name      string
		scheduled []ScheduledWorkout
		completed []Workout
		want      string
	}{
		{"no workouts at all", nil, nil, ""},
		{"scheduled easy run", []ScheduledWorkout{{Type: WorkoutEasy}}, nil, "#22c55e"},
		{
			"rest slots are skipped for the color",
			[]ScheduledWorkout{{Type: WorkoutRest}, {Type: WorkoutLong}},
			nil,
			"#3b82f6",
		},
		{"only rest slots", []ScheduledWorkout{{Type: WorkoutRest}}, nil, "#e5e7eb"},
		{
			"completed takes the linked scheduled type",
			[]ScheduledWorkout{{ID: 10, Type: WorkoutTempo}},
			[]Workout{{ScheduledWorkoutID: linked(10)}},
			"#f59e0b",
		},
		{
			"unlinked completion counts as easy",
			[]ScheduledWorkout{{Type: WorkoutInterval}},
			[]Workout{{}},
			"#22c55e",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dayColor(tt.scheduled, tt.completed, types); got != tt.want {
				t.Errorf("dayColor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsoWeekday(t *testing.T) {
	if got := isoWeekday(date(2026, 8, 24)); got != 1 { // Monday
		t.Errorf("monday = %d, want 1", got)
	}
	if got := isoWeekday(date(2026, 8, 30)); got != 7 { // Sunday
		t.Errorf("sunday = %d, want 7", got)
	}
}
