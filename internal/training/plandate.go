package training

import "time"

// dateOnly truncates t to midnight UTC. All calendar math in this package
// operates on date-only values normalized to UTC, matching the dates parsed
// back from storage.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PlanStartDate returns the first day of a plan counted backwards from the
// race date.
func PlanStartDate(raceDate time.Time, durationWeeks int) time.Time {
	return dateOnly(raceDate).AddDate(0, 0, -durationWeeks*7)
}

// WeekStartDate returns the calendar date on which the given one-based week
// of the plan starts.
func WeekStartDate(raceDate time.Time, durationWeeks, weekNumber int) time.Time {
	return PlanStartDate(raceDate, durationWeeks).AddDate(0, 0, (weekNumber-1)*7)
}

// ScheduledWorkoutDate resolves the absolute date of a scheduled workout from
// its plan coordinates. Day 1 is the first day of the week.
func ScheduledWorkoutDate(raceDate time.Time, durationWeeks, weekNumber, dayOfWeek int) time.Time {
	return WeekStartDate(raceDate, durationWeeks, weekNumber).AddDate(0, 0, dayOfWeek-1)
}

// mondayOf returns the Monday of the ISO week containing t.
func mondayOf(t time.Time) time.Time {
	t = dateOnly(t)
	weekday := int(t.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// daysBetween returns the whole days from a to b, negative when b is earlier.
func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}
