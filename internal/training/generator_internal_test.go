package training

import (
	"strings"
	"testing"
	"time"
)

func TestCustomGenerator_Generate(t *testing.T) {
	gen := customGenerator{}
	today := date(2026, 1, 5) // Monday.
	cfg := PlanConfig{
		PlanType: PlanHalfMarathon,
		RaceDate: today.AddDate(0, 0, 16*7),
	}

	if problems := gen.Validate(cfg, today); len(problems) > 0 {
		t.Fatalf("Validate returned problems: %v", problems)
	}
	plan := gen.Generate(cfg, today)

	if plan.DurationWeeks != 16 {
		t.Fatalf("DurationWeeks = %d, want 16", plan.DurationWeeks)
	}
	if plan.Name != "16-Week Half Marathon Plan" {
		t.Errorf("Name = %q", plan.Name)
	}
	if plan.Description != "Custom half marathon training plan" {
		t.Errorf("Description = %q", plan.Description)
	}
	if plan.Methodology != "custom" {
		t.Errorf("Methodology = %q", plan.Methodology)
	}
	if len(plan.Weeks) != 16 {
		t.Fatalf("got %d weeks, want 16", len(plan.Weeks))
	}

	// Phases progress base -> build -> peak -> taper over the plan.
	wantFocus := map[int]Focus{
		1:  FocusBase,
		4:  FocusBase,
		5:  FocusBuild,
		9:  FocusBuild,
		10: FocusPeak,
		13: FocusPeak,
		14: FocusTaper,
		16: FocusTaper,
	}
	for weekNum, want := range wantFocus {
		if got := plan.Weeks[weekNum-1].Focus; got != want {
			t.Errorf("week %d focus = %s, want %s", weekNum, got, want)
		}
	}

	// Week 1: 30 km base volume, 0.80 base multiplier, 1/16th progression.
	week1 := plan.Weeks[0]
	if week1.TotalDistanceKm != 21.9 {
		t.Errorf("week 1 distance = %v, want 21.9", week1.TotalDistanceKm)
	}
	if len(week1.Workouts) != 7 {
		t.Fatalf("week 1 has %d workouts, want 7", len(week1.Workouts))
	}
	if week1.Workouts[1].Type != WorkoutRest || week1.Workouts[1].TargetDistanceKm != nil {
		t.Errorf("week 1 day 2 should be a rest day without a distance")
	}
	long := week1.Workouts[6]
	if long.Type != WorkoutLong {
		t.Errorf("week 1 day 7 = %s, want long", long.Type)
	}
	if long.TargetDistanceKm == nil || *long.TargetDistanceKm != 7.7 {
		t.Errorf("week 1 long run = %v, want 7.7", long.TargetDistanceKm)
	}
	if long.Description != "Long run - focus on time on feet" {
		t.Errorf("long run description = %q", long.Description)
	}

	// Every week's slots cover the seven days in order.
	for _, week := range plan.Weeks {
		for i, w := range week.Workouts {
			if w.DayOfWeek != i+1 {
				t.Fatalf("week %d slot %d has day %d", week.WeekNumber, i, w.DayOfWeek)
			}
		}
	}

	if got := plan.Weeks[15].Notes; got != "Race week! Keep runs short and easy. Focus on rest and nutrition." {
		t.Errorf("race week notes = %q", got)
	}
	if got := plan.Weeks[0].Notes; !strings.Contains(got, "aerobic base") {
		t.Errorf("base week notes = %q", got)
	}
}

func TestCustomGenerator_CapsDuration(t *testing.T) {
	gen := customGenerator{}
	today := date(2026, 1, 5)
	plan := gen.Generate(PlanConfig{
		PlanType: PlanFullMarathon,
		RaceDate: today.AddDate(0, 0, 40*7),
	}, today)

	if plan.DurationWeeks != 30 {
		t.Errorf("DurationWeeks = %d, want cap at 30", plan.DurationWeeks)
	}
	if plan.Name != "30-Week Marathon Plan" {
		t.Errorf("Name = %q", plan.Name)
	}
}

func TestCustomGenerator_Validate(t *testing.T) {
	gen := customGenerator{}
	today := date(2026, 1, 5)
	goal := func(d time.Duration) *time.Duration { return &d }

	tests := []struct {
		name string
		cfg  PlanConfig
		want string
	}{
		{
			name: "too few weeks for a half marathon",
			cfg: PlanConfig{
				PlanType: PlanHalfMarathon,
				RaceDate: today.AddDate(0, 0, 5*7),
			},
			want: "At least 8 weeks required for half marathon. You have 5 weeks until race day.",
		},
		{
			name: "too few weeks for a marathon",
			cfg: PlanConfig{
				PlanType: PlanFullMarathon,
				RaceDate: today.AddDate(0, 0, 10*7),
			},
			want: "At least 12 weeks required for full marathon. You have 10 weeks until race day.",
		},
		{
			name: "half marathon goal faster than the world record",
			cfg: PlanConfig{
				PlanType: PlanHalfMarathon,
				RaceDate: today.AddDate(0, 0, 12*7),
				GoalTime: goal(50 * time.Minute),
			},
			want: "Half marathon goal time under 1 hour is faster than the world record. " +
				"Please enter a realistic goal.",
		},
		{
			name: "half marathon goal beyond race cutoffs",
			cfg: PlanConfig{
				PlanType: PlanHalfMarathon,
				RaceDate: today.AddDate(0, 0, 12*7),
				GoalTime: goal(5 * time.Hour),
			},
			want: "Half marathon goal time over 4 hours exceeds typical race cutoffs. " +
				"Consider a more achievable goal.",
		},
		{
			name: "marathon goal faster than the world record",
			cfg: PlanConfig{
				PlanType: PlanFullMarathon,
				RaceDate: today.AddDate(0, 0, 16*7),
				GoalTime: goal(110 * time.Minute),
			},
			want: "Marathon goal time under 2 hours is faster than the world record. " +
				"Please enter a realistic goal.",
		},
		{
			name: "marathon goal beyond race cutoffs",
			cfg: PlanConfig{
				PlanType: PlanFullMarathon,
				RaceDate: today.AddDate(0, 0, 16*7),
				GoalTime: goal(8 * time.Hour),
			},
			want: "Marathon goal time over 7 hours exceeds typical race cutoffs. " +
				"Consider a more achievable goal.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := gen.Validate(tt.cfg, today)
			if len(problems) != 1 {
				t.Fatalf("got %d problems %v, want 1", len(problems), problems)
			}
			if problems[0] != tt.want {
				t.Errorf("problem = %q, want %q", problems[0], tt.want)
			}
		})
	}

	valid := PlanConfig{
		PlanType: PlanHalfMarathon,
		RaceDate: today.AddDate(0, 0, 12*7),
		GoalTime: goal(105 * time.Minute),
	}
	if problems := gen.Validate(valid, today); len(problems) > 0 {
		t.Errorf("valid config returned problems: %v", problems)
	}

	unsupported := gen.Validate(PlanConfig{PlanType: PlanType("10k"), RaceDate: today.AddDate(0, 0, 70)}, today)
	if len(unsupported) != 1 || unsupported[0] != "This generator does not support 10k" {
		t.Errorf("unsupported distance problems = %v", unsupported)
	}
}

func TestWeekFocus_Boundaries(t *testing.T) {
	tests := []struct {
		week, total int
		want        Focus
	}{
		{4, 16, FocusBase},  // exactly 25%
		{5, 16, FocusBuild}, // just past 25%
		{2, 4, FocusBuild},  // 50%
		{3, 4, FocusPeak},   // 75%
		{4, 4, FocusTaper},  // 100%
	}
	for _, tt := range tests {
		if got := weekFocus(tt.week, tt.total); got != tt.want {
			t.Errorf("weekFocus(%d, %d) = %s, want %s", tt.week, tt.total, got, tt.want)
		}
	}
}
