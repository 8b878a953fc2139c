package training

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanDates(t *testing.T) {
	raceDate := date(2026, 10, 18) // Sunday.
	weeks := 12

	start := PlanStartDate(raceDate, weeks)
	if want := date(2026, 7, 26); !start.Equal(want) {
		t.Errorf("PlanStartDate = %v, want %v", start, want)
	}

	if got := WeekStartDate(raceDate, weeks, 1); !got.Equal(start) {
		t.Errorf("WeekStartDate week 1 = %v, want plan start %v", got, start)
	}
	if got, want := WeekStartDate(raceDate, weeks, 5), start.AddDate(0, 0, 28); !got.Equal(want) {
		t.Errorf("WeekStartDate week 5 = %v, want %v", got, want)
	}

	if got := ScheduledWorkoutDate(raceDate, weeks, 1, 1); !got.Equal(start) {
		t.Errorf("first workout = %v, want plan start %v", got, start)
	}
	// The last slot of the last week lands on the day before the race.
	if got, want := ScheduledWorkoutDate(raceDate, weeks, weeks, 7), raceDate.AddDate(0, 0, -1); !got.Equal(want) {
		t.Errorf("last workout = %v, want %v", got, want)
	}
}

func TestMondayOf(t *testing.T) {
	monday := date(2026, 8, 24)
	tests := []struct {
		name string
		in   time.Time
	}{
		{"monday maps to itself", monday},
		{"midweek", date(2026, 8, 26)},
		{"sunday belongs to the preceding monday", date(2026, 8, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mondayOf(tt.in); !got.Equal(monday) {
				t.Errorf("mondayOf(%v) = %v, want %v", tt.in, got, monday)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	a := date(2026, 3, 1)
	if got := daysBetween(a, a.AddDate(0, 0, 10)); got != 10 {
		t.Errorf("daysBetween forward = %d, want 10", got)
	}
	if got := daysBetween(a.AddDate(0, 0, 3), a); got != -3 {
		t.Errorf("daysBetween backward = %d, want -3", got)
	}
	if got := daysBetween(a, a); got != 0 {
		t.Errorf("daysBetween same day = %d, want 0", got)
	}
}

func TestDateOnly_NormalizesToUTC(t *testing.T) {
	helsinki, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	in := time.Date(2026, 8, 30, 14, 45, 12, 0, helsinki)
	got := dateOnly(in)
	if want := date(2026, 8, 30); !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("dateOnly = %v (%v), want %v UTC", got, got.Location(), want)
	}
}
