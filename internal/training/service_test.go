package training_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/pacekeeper/internal/contexthelpers"
	"github.com/myrjola/pacekeeper/internal/sqlite"
	"github.com/myrjola/pacekeeper/internal/testhelpers"
	"github.com/myrjola/pacekeeper/internal/training"
)

// newTestService spins up an in-memory database with one user and returns a
// context authenticated as that user.
func newTestService(t *testing.T) (context.Context, *training.Service) {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})

	res, err := db.ReadWrite.ExecContext(ctx,
		"INSERT INTO users (display_name) VALUES (?)", "Test Runner")
	if err != nil {
		t.Fatalf("insert test user: %v", err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("read user id: %v", err)
	}

	return contexthelpers.AuthenticateContext(ctx, userID), training.NewService(db, logger)
}

// todayUTC is the current date the way the service normalizes workout dates.
func todayUTC() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Monday of the week containing day.
func weekStart(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// saveCurrentWeekPlan stores a one-week plan whose seven daily 8 km easy runs
// cover the current calendar week, and returns it with IDs assigned.
func saveCurrentWeekPlan(t *testing.T, ctx context.Context, svc *training.Service) training.TrainingPlan {
	t.Helper()

	distance := 8.0
	week := training.GeneratedWeek{
		WeekNumber:      1,
		Focus:           training.FocusBase,
		TotalDistanceKm: 56,
		Notes:           "Test week",
	}
	for day := 1; day <= 7; day++ {
		week.Workouts = append(week.Workouts, training.GeneratedWorkout{
			DayOfWeek:        day,
			Type:             training.WorkoutEasy,
			TargetDistanceKm: &distance,
			Description:      "Easy effort, conversational pace",
		})
	}
	preview := training.GeneratedPlan{
		Name:          "Test Week Plan",
		Description:   "One week of easy running",
		PlanType:      training.PlanHalfMarathon,
		Methodology:   "custom",
		DurationWeeks: 1,
		Weeks:         []training.GeneratedWeek{week},
	}

	// Race immediately after this week puts the plan's only week on the
	// current calendar week.
	raceDate := weekStart(todayUTC()).AddDate(0, 0, 7)
	plan, err := svc.SavePlanPreview(ctx, preview, raceDate, nil)
	if err != nil {
		t.Fatalf("save plan preview: %v", err)
	}
	return plan
}

func recordRun(t *testing.T, ctx context.Context, svc *training.Service,
	day time.Time, km float64, duration time.Duration) training.Workout {
	t.Helper()
	created, _, err := svc.RecordWorkout(ctx, training.Workout{
		Date:       day,
		DistanceKm: km,
		Duration:   duration,
	})
	if err != nil {
		t.Fatalf("record workout: %v", err)
	}
	return created
}

func Test_RecordWorkout_DerivesPaceAndTrainingLoad(t *testing.T) {
	ctx, svc := newTestService(t)

	created := recordRun(t, ctx, svc, todayUTC(), 12, time.Hour)
	if created.ID == 0 {
		t.Error("created workout has no ID")
	}
	if created.AvgPaceMinPerKm != 5.0 {
		t.Errorf("derived pace = %v, want 5.0", created.AvgPaceMinPerKm)
	}
	if created.Source != training.SourceManual {
		t.Errorf("source = %s, want manual", created.Source)
	}

	// One hour at the default threshold pace is exactly 100 TSS.
	load, err := svc.CurrentLoad(ctx)
	if err != nil {
		t.Fatalf("current load: %v", err)
	}
	if load.DailyTSS != 100 {
		t.Errorf("DailyTSS = %v, want 100", load.DailyTSS)
	}
	if load.ATL != 13.31 || load.CTL != 2.35 {
		t.Errorf("ATL/CTL = %v/%v, want 13.31/2.35", load.ATL, load.CTL)
	}
	if load.TSB != -10.96 {
		t.Errorf("TSB = %v, want -10.96", load.TSB)
	}

	summary, err := svc.LoadSummary(ctx)
	if err != nil {
		t.Fatalf("load summary: %v", err)
	}
	if summary.FormStatus != "Tired" {
		t.Errorf("FormStatus = %q, want Tired", summary.FormStatus)
	}
	if summary.WeeklyTSS != 100 {
		t.Errorf("WeeklyTSS = %v, want 100", summary.WeeklyTSS)
	}
	if summary.WeeklyTarget != 300 || summary.WeeklyProgressPercent != 33 {
		t.Errorf("weekly target/progress = %d/%d, want 300/33",
			summary.WeeklyTarget, summary.WeeklyProgressPercent)
	}
	if summary.FitnessTrend != "unknown" {
		t.Errorf("FitnessTrend = %q, want unknown without history", summary.FitnessTrend)
	}
}

func Test_RecordWorkout_RejectsInvalidInput(t *testing.T) {
	ctx, svc := newTestService(t)

	cases := []training.Workout{
		{Date: todayUTC(), DistanceKm: 0, Duration: time.Hour},
		{Date: todayUTC(), DistanceKm: 10, Duration: 0},
		{DistanceKm: 10, Duration: time.Hour},
	}
	for i, w := range cases {
		if _, _, err := svc.RecordWorkout(ctx, w); err == nil {
			t.Errorf("case %d: expected an error", i)
		}
	}
}

func Test_RecordWorkout_PersonalRecordProgression(t *testing.T) {
	ctx, svc := newTestService(t)
	day := todayUTC().AddDate(0, 0, -2)

	// First 5K effort is always a record.
	_, checks, err := svc.RecordWorkout(ctx, training.Workout{
		Date: day, DistanceKm: 5.0, Duration: 25 * time.Minute,
	})
	if err != nil {
		t.Fatalf("first workout: %v", err)
	}
	if len(checks) != 1 || checks[0].Distance != training.Distance5K || !checks[0].IsNewPR {
		t.Fatalf("first workout checks = %+v, want one new 5k PR", checks)
	}
	if checks[0].PreviousTime != nil {
		t.Errorf("first PR should have no previous time")
	}

	// 30 seconds faster the next day.
	_, checks, err = svc.RecordWorkout(ctx, training.Workout{
		Date: day.AddDate(0, 0, 1), DistanceKm: 5.0, Duration: 24*time.Minute + 30*time.Second,
	})
	if err != nil {
		t.Fatalf("second workout: %v", err)
	}
	if len(checks) != 1 || !checks[0].IsNewPR {
		t.Fatalf("second workout checks = %+v, want a new PR", checks)
	}
	if checks[0].PreviousTime == nil || *checks[0].PreviousTime != 25*time.Minute {
		t.Errorf("PreviousTime = %v, want 25m", checks[0].PreviousTime)
	}
	if checks[0].Improvement == nil || *checks[0].Improvement != 30*time.Second {
		t.Errorf("Improvement = %v, want 30s", checks[0].Improvement)
	}

	// A slower effort sets nothing.
	_, checks, err = svc.RecordWorkout(ctx, training.Workout{
		Date: day.AddDate(0, 0, 2), DistanceKm: 5.0, Duration: 26 * time.Minute,
	})
	if err != nil {
		t.Fatalf("third workout: %v", err)
	}
	if len(checks) != 0 {
		t.Errorf("third workout checks = %+v, want none", checks)
	}

	current, err := svc.CurrentRecords(ctx)
	if err != nil {
		t.Fatalf("current records: %v", err)
	}
	if current[training.Distance5K] == nil || current[training.Distance5K].Time != 24*time.Minute+30*time.Second {
		t.Errorf("current 5k record = %+v, want 24:30", current[training.Distance5K])
	}
	if current[training.Distance10K] != nil {
		t.Errorf("10k record = %+v, want none", current[training.Distance10K])
	}

	// History keeps superseded rows, fastest first.
	history, err := svc.RecordHistory(ctx, training.Distance5K)
	if err != nil {
		t.Fatalf("record history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d rows, want 2", len(history))
	}
	if history[0].Time != 24*time.Minute+30*time.Second || history[1].Time != 25*time.Minute {
		t.Errorf("history order = %v then %v, want 24:30 then 25:00", history[0].Time, history[1].Time)
	}
}

func Test_AddManualRecord(t *testing.T) {
	ctx, svc := newTestService(t)

	if _, err := svc.AddManualRecord(ctx, training.DistanceCustom, 12*time.Minute, todayUTC(), nil); err == nil {
		t.Error("custom record without a distance should fail")
	}
	if _, err := svc.AddManualRecord(ctx, training.Distance5K, 0, todayUTC(), nil); err == nil {
		t.Error("record without a time should fail")
	}

	customKm := 3.0
	record, err := svc.AddManualRecord(ctx, training.DistanceCustom, 12*time.Minute, todayUTC(), &customKm)
	if err != nil {
		t.Fatalf("add manual record: %v", err)
	}
	if record.PaceMinPerKm != 4.0 {
		t.Errorf("pace = %v, want 4.0", record.PaceMinPerKm)
	}
	if !record.IsManual {
		t.Error("record should be flagged manual")
	}

	recent, err := svc.RecentRecords(ctx, 5)
	if err != nil {
		t.Fatalf("recent records: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != record.ID {
		t.Errorf("recent records = %+v, want the manual record", recent)
	}
}

func Test_DeleteWorkout_RecalculatesLoad(t *testing.T) {
	ctx, svc := newTestService(t)

	created := recordRun(t, ctx, svc, todayUTC(), 12, time.Hour)
	if err := svc.DeleteWorkout(ctx, created.ID); err != nil {
		t.Fatalf("delete workout: %v", err)
	}

	if _, err := svc.Workout(ctx, created.ID); !errors.Is(err, training.ErrNotFound) {
		t.Errorf("get deleted workout: got %v, want ErrNotFound", err)
	}

	load, err := svc.CurrentLoad(ctx)
	if err != nil {
		t.Fatalf("current load: %v", err)
	}
	if load.DailyTSS != 0 {
		t.Errorf("DailyTSS after delete = %v, want 0", load.DailyTSS)
	}
}

func Test_RecalculateLoads_Idempotent(t *testing.T) {
	ctx, svc := newTestService(t)
	recordRun(t, ctx, svc, todayUTC().AddDate(0, 0, -10), 12, time.Hour)
	recordRun(t, ctx, svc, todayUTC().AddDate(0, 0, -3), 8, 44*time.Minute)

	from := todayUTC().AddDate(0, 0, -14)
	if _, err := svc.RecalculateLoads(ctx, from); err != nil {
		t.Fatalf("first recalculation: %v", err)
	}
	first, err := svc.LoadHistory(ctx, 30)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected load rows after recalculation")
	}

	// Recomputing over unchanged workouts must reproduce every row exactly.
	if _, err = svc.RecalculateLoads(ctx, from); err != nil {
		t.Fatalf("second recalculation: %v", err)
	}
	second, err := svc.LoadHistory(ctx, 30)
	if err != nil {
		t.Fatalf("load history after recompute: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("load rows changed on recompute (-first +second):\n%s", diff)
	}
}

func Test_MatchWorkout_Exclusivity(t *testing.T) {
	ctx, svc := newTestService(t)
	saveCurrentWeekPlan(t, ctx, svc)

	first := recordRun(t, ctx, svc, todayUTC(), 8, 44*time.Minute)
	second := recordRun(t, ctx, svc, todayUTC(), 8, 46*time.Minute)

	candidates, err := svc.FindMatchCandidates(ctx, first, 3)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatal("no match candidates for a workout inside the plan week")
	}
	best := candidates[0]
	if best.Score != 1.0 {
		t.Errorf("best score = %v, want 1.0 for same day and distance", best.Score)
	}
	if best.Reason != "Same day, Distance matches" {
		t.Errorf("best reason = %q", best.Reason)
	}

	ok, msg, err := svc.MatchWorkout(ctx, first.ID, best.Scheduled.ID)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !ok || msg != "Workout matched successfully" {
		t.Fatalf("match = %v %q", ok, msg)
	}

	// The claimed slot refuses a second completion.
	ok, msg, err = svc.MatchWorkout(ctx, second.ID, best.Scheduled.ID)
	if err != nil {
		t.Fatalf("second match: %v", err)
	}
	if ok || msg != "Scheduled workout already has a completion" {
		t.Errorf("second match = %v %q", ok, msg)
	}

	// A matched workout refuses another link.
	candidates, err = svc.FindMatchCandidates(ctx, second, 1)
	if err != nil {
		t.Fatalf("find candidates for second: %v", err)
	}
	if len(candidates) > 0 {
		if ok, msg, err = svc.MatchWorkout(ctx, first.ID, candidates[0].Scheduled.ID); err != nil {
			t.Fatalf("re-match: %v", err)
		} else if ok || msg != "Workout already matched" {
			t.Errorf("re-match = %v %q", ok, msg)
		}
	}

	// Claimed slots drop out of the candidate list.
	for _, c := range candidates {
		if c.Scheduled.ID == best.Scheduled.ID {
			t.Errorf("claimed slot %d still offered as a candidate", c.Scheduled.ID)
		}
	}

	ok, msg, err = svc.UnmatchWorkout(ctx, first.ID)
	if err != nil {
		t.Fatalf("unmatch: %v", err)
	}
	if !ok || msg != "Workout unmatched successfully" {
		t.Errorf("unmatch = %v %q", ok, msg)
	}
	ok, msg, err = svc.UnmatchWorkout(ctx, first.ID)
	if err != nil {
		t.Fatalf("second unmatch: %v", err)
	}
	if ok || msg != "Workout is not matched" {
		t.Errorf("second unmatch = %v %q", ok, msg)
	}

	if ok, msg, err = svc.MatchWorkout(ctx, 99999, best.Scheduled.ID); err != nil || ok ||
		msg != "Completed workout not found" {
		t.Errorf("unknown workout = %v %q %v", ok, msg, err)
	}
	if ok, msg, err = svc.MatchWorkout(ctx, first.ID, 99999); err != nil || ok ||
		msg != "Scheduled workout not found" {
		t.Errorf("unknown slot = %v %q %v", ok, msg, err)
	}
}

func Test_AutoMatchAll(t *testing.T) {
	ctx, svc := newTestService(t)
	saveCurrentWeekPlan(t, ctx, svc)
	recordRun(t, ctx, svc, todayUTC(), 8, 44*time.Minute)

	outcome, err := svc.AutoMatchAll(ctx, 0)
	if err != nil {
		t.Fatalf("auto match: %v", err)
	}
	if outcome.Matched != 1 || outcome.Skipped != 0 || len(outcome.Errors) != 0 {
		t.Errorf("outcome = %+v, want one match", outcome)
	}

	unmatched, err := svc.UnmatchedWorkouts(ctx)
	if err != nil {
		t.Fatalf("unmatched workouts: %v", err)
	}
	if len(unmatched) != 0 {
		t.Errorf("%d workouts still unmatched, want 0", len(unmatched))
	}

	// Nothing left to match on a second run.
	outcome, err = svc.AutoMatchAll(ctx, 0)
	if err != nil {
		t.Fatalf("second auto match: %v", err)
	}
	if outcome.Matched != 0 {
		t.Errorf("second run matched %d, want 0", outcome.Matched)
	}
}

func Test_ApplyZoneCalculation(t *testing.T) {
	ctx, svc := newTestService(t)

	calc, err := training.ZonesFromThresholdPace(5.0)
	if err != nil {
		t.Fatalf("zones from threshold: %v", err)
	}
	if err = svc.ApplyZoneCalculation(ctx, calc); err != nil {
		t.Fatalf("apply zones: %v", err)
	}

	zones, err := svc.PaceZones(ctx)
	if err != nil {
		t.Fatalf("pace zones: %v", err)
	}
	if len(zones) != 6 {
		t.Fatalf("got %d zones, want 6", len(zones))
	}
	// Stored zones come back slowest first, same as the calculation.
	for i, zone := range zones {
		if zone.Name != calc.Zones[i].Name {
			t.Errorf("zone %d = %s, want %s", i, zone.Name, calc.Zones[i].Name)
		}
		if zone.MinPaceMinKm != calc.Zones[i].MinPaceMinKm || zone.MaxPaceMinKm != calc.Zones[i].MaxPaceMinKm {
			t.Errorf("zone %s boundaries = %v..%v, want %v..%v", zone.Name,
				zone.MinPaceMinKm, zone.MaxPaceMinKm,
				calc.Zones[i].MinPaceMinKm, calc.Zones[i].MaxPaceMinKm)
		}
	}

	// The derived threshold pace becomes the TSS calibration.
	settings, err := svc.FitnessSettings(ctx)
	if err != nil {
		t.Fatalf("fitness settings: %v", err)
	}
	if settings.ThresholdPaceMinPerKm == nil || *settings.ThresholdPaceMinPerKm != 5.0 {
		t.Errorf("threshold pace = %v, want 5.0", settings.ThresholdPaceMinPerKm)
	}
}

func Test_SavePaceZones_RejectsInvertedBoundaries(t *testing.T) {
	ctx, svc := newTestService(t)

	err := svc.SavePaceZones(ctx, []training.PaceZone{
		{Name: training.ZoneEasy, MinPaceMinKm: 5.0, MaxPaceMinKm: 6.0},
	})
	if err == nil {
		t.Error("inverted zone boundaries should fail validation")
	}

	// Boundaries must be strictly ordered; a zero-width zone is rejected too.
	err = svc.SavePaceZones(ctx, []training.PaceZone{
		{Name: training.ZoneEasy, MinPaceMinKm: 5.0, MaxPaceMinKm: 5.0},
	})
	if err == nil {
		t.Error("equal zone boundaries should fail validation")
	}
}

func Test_ZoneDistribution(t *testing.T) {
	ctx, svc := newTestService(t)

	// No zones configured yet.
	distribution, err := svc.ZoneDistribution(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("zone distribution: %v", err)
	}
	if distribution != nil {
		t.Errorf("distribution without zones = %+v, want none", distribution)
	}

	calc, err := training.ZonesFromThresholdPace(5.0)
	if err != nil {
		t.Fatalf("zones from threshold: %v", err)
	}
	if err = svc.ApplyZoneCalculation(ctx, calc); err != nil {
		t.Fatalf("apply zones: %v", err)
	}

	// 12 km at 6:00/km sits in the easy zone.
	recordRun(t, ctx, svc, todayUTC(), 12, 72*time.Minute)

	distribution, err = svc.ZoneDistribution(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("zone distribution: %v", err)
	}
	if len(distribution) != 6 {
		t.Fatalf("got %d buckets, want 6", len(distribution))
	}
	easy := distribution[1]
	if easy.ZoneName != "Easy" {
		t.Errorf("bucket 1 = %q, want Easy", easy.ZoneName)
	}
	if easy.DistanceKm != 12 || easy.Percentage != 100 {
		t.Errorf("easy bucket = %vkm %v%%, want 12km 100%%", easy.DistanceKm, easy.Percentage)
	}
}

func Test_Goals_WeeklyDistance(t *testing.T) {
	ctx, svc := newTestService(t)

	target := 30.0
	goal, err := svc.CreateGoal(ctx, training.Goal{
		Type:             training.GoalWeeklyKm,
		TargetDistanceKm: &target,
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if goal.Status != training.GoalActive {
		t.Errorf("new goal status = %s, want active", goal.Status)
	}

	recordRun(t, ctx, svc, todayUTC(), 12, time.Hour)

	progress, err := svc.GoalProgress(ctx, goal)
	if err != nil {
		t.Fatalf("goal progress: %v", err)
	}
	if progress.ProgressPercent != 40 {
		t.Errorf("progress = %d%%, want 40%%", progress.ProgressPercent)
	}
	if progress.StatusMessage != "12.0 / 30.0 km this week" {
		t.Errorf("status message = %q", progress.StatusMessage)
	}
	if progress.Remaining != "18.0 km" {
		t.Errorf("remaining = %q", progress.Remaining)
	}
	if progress.IsAchieved {
		t.Error("goal should not be achieved yet")
	}

	// Crossing the target flips the stored goal to achieved.
	recordRun(t, ctx, svc, todayUTC(), 18, 90*time.Minute)

	goals, err := svc.Goals(ctx)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("got %d goals, want 1", len(goals))
	}
	if goals[0].Status != training.GoalAchieved {
		t.Errorf("goal status = %s, want achieved", goals[0].Status)
	}
	if goals[0].CurrentValue == nil || *goals[0].CurrentValue != 30 {
		t.Errorf("cached value = %v, want 30", goals[0].CurrentValue)
	}

	active, err := svc.ActiveGoals(ctx)
	if err != nil {
		t.Fatalf("active goals: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("%d active goals, want 0", len(active))
	}
}

func Test_Goals_RaceTime(t *testing.T) {
	ctx, svc := newTestService(t)

	targetTime := 25 * time.Minute
	goal, err := svc.CreateGoal(ctx, training.Goal{
		Type:         training.GoalRaceTime,
		RaceDistance: training.Distance5K,
		TargetTime:   &targetTime,
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	progress, err := svc.GoalProgress(ctx, goal)
	if err != nil {
		t.Fatalf("goal progress: %v", err)
	}
	if progress.StatusMessage != "No PR recorded yet" {
		t.Errorf("status without PR = %q", progress.StatusMessage)
	}

	recordRun(t, ctx, svc, todayUTC(), 5.0, 24*time.Minute)

	progress, err = svc.GoalProgress(ctx, goal)
	if err != nil {
		t.Fatalf("goal progress after PR: %v", err)
	}
	if !progress.IsAchieved || progress.ProgressPercent != 100 {
		t.Errorf("progress = %+v, want achieved at 100%%", progress)
	}
	if progress.StatusMessage != "Achieved! PR: 24:00" {
		t.Errorf("status message = %q", progress.StatusMessage)
	}
	if progress.Remaining != "0:00" {
		t.Errorf("remaining = %q", progress.Remaining)
	}

	goals, err := svc.Goals(ctx)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if goals[0].Status != training.GoalAchieved {
		t.Errorf("stored status = %s, want achieved", goals[0].Status)
	}
}

func Test_CreateGoal_Validation(t *testing.T) {
	ctx, svc := newTestService(t)
	targetTime := 25 * time.Minute

	cases := []training.Goal{
		{Type: training.GoalRaceTime},                                // missing distance and time
		{Type: training.GoalWeeklyKm},                                // missing target
		{Type: training.GoalPace, RaceDistance: training.Distance5K}, // missing pace
		{Type: training.GoalType("streak"), TargetTime: &targetTime}, // unknown type
	}
	for i, goal := range cases {
		if _, err := svc.CreateGoal(ctx, goal); err == nil {
			t.Errorf("case %d: expected an error", i)
		}
	}
}

func Test_WeeklySummary(t *testing.T) {
	ctx, svc := newTestService(t)
	saveCurrentWeekPlan(t, ctx, svc)
	recordRun(t, ctx, svc, todayUTC(), 10, 50*time.Minute)

	summary, err := svc.WeeklySummary(ctx, time.Time{})
	if err != nil {
		t.Fatalf("weekly summary: %v", err)
	}
	if summary.ActualDistanceKm != 10 || summary.WorkoutsCompleted != 1 {
		t.Errorf("actual = %vkm over %d workouts, want 10km over 1",
			summary.ActualDistanceKm, summary.WorkoutsCompleted)
	}
	if summary.AveragePace == nil || *summary.AveragePace != 5.0 {
		t.Errorf("average pace = %v, want 5.0", summary.AveragePace)
	}
	if summary.WorkoutsScheduled != 7 {
		t.Errorf("scheduled = %d, want 7", summary.WorkoutsScheduled)
	}
	if summary.PlannedDistanceKm == nil || *summary.PlannedDistanceKm != 56 {
		t.Errorf("planned distance = %v, want 56", summary.PlannedDistanceKm)
	}
	if math.Abs(summary.CompletionPercentage-100.0/7) > 1e-9 {
		t.Errorf("completion = %v, want one seventh", summary.CompletionPercentage)
	}
}

func Test_PlanAdherence(t *testing.T) {
	ctx, svc := newTestService(t)
	plan := saveCurrentWeekPlan(t, ctx, svc)

	w := recordRun(t, ctx, svc, todayUTC(), 8, 44*time.Minute)
	if _, err := svc.AutoMatchAll(ctx, 0); err != nil {
		t.Fatalf("auto match: %v", err)
	}

	adherence, err := svc.PlanAdherence(ctx, plan.ID, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("plan adherence: %v", err)
	}
	if adherence.TotalScheduled != 7 || adherence.TotalCompleted != 1 {
		t.Errorf("scheduled/completed = %d/%d, want 7/1",
			adherence.TotalScheduled, adherence.TotalCompleted)
	}
	if adherence.MissedWorkouts != 6 {
		t.Errorf("missed = %d, want 6", adherence.MissedWorkouts)
	}
	if adherence.DistancePlannedKm != 56 || adherence.DistanceActualKm != w.DistanceKm {
		t.Errorf("distance planned/actual = %v/%v, want 56/%v",
			adherence.DistancePlannedKm, adherence.DistanceActualKm, w.DistanceKm)
	}
	if int(adherence.CompletionRate) != 14 {
		t.Errorf("completion rate = %v, want ~14.3", adherence.CompletionRate)
	}

	// Without any plans the adherence is all zeros.
	if err = svc.DeleteTrainingPlan(ctx, plan.ID); err != nil {
		t.Fatalf("delete plan: %v", err)
	}
	adherence, err = svc.PlanAdherence(ctx, 0, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("adherence without plans: %v", err)
	}
	if adherence.TotalScheduled != 0 || adherence.TotalCompleted != 0 {
		t.Errorf("adherence without plans = %+v, want zero value", adherence)
	}
}

func Test_PlanAdherence_CapsCompletionRate(t *testing.T) {
	ctx, svc := newTestService(t)

	// Rest slots are excluded from the scheduled count but can still be
	// matched directly, so the completed count may exceed it.
	distance := 8.0
	preview := training.GeneratedPlan{
		Name:          "Short Plan",
		Description:   "One running day",
		PlanType:      training.PlanHalfMarathon,
		Methodology:   "custom",
		DurationWeeks: 1,
		Weeks: []training.GeneratedWeek{{
			WeekNumber:      1,
			Focus:           training.FocusBase,
			TotalDistanceKm: 8,
			Workouts: []training.GeneratedWorkout{
				{DayOfWeek: 1, Type: training.WorkoutEasy, TargetDistanceKm: &distance},
				{DayOfWeek: 2, Type: training.WorkoutRest},
			},
		}},
	}
	raceDate := weekStart(todayUTC()).AddDate(0, 0, 7)
	saved, err := svc.SavePlanPreview(ctx, preview, raceDate, nil)
	if err != nil {
		t.Fatalf("save plan preview: %v", err)
	}
	plan, err := svc.TrainingPlan(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	slots := plan.Weeks[0].Workouts

	first := recordRun(t, ctx, svc, todayUTC(), 8, 44*time.Minute)
	second := recordRun(t, ctx, svc, todayUTC(), 5, 30*time.Minute)
	for i, pair := range []struct{ completedID, scheduledID int64 }{
		{first.ID, slots[0].ID},
		{second.ID, slots[1].ID},
	} {
		matched, message, matchErr := svc.MatchWorkout(ctx, pair.completedID, pair.scheduledID)
		if matchErr != nil || !matched {
			t.Fatalf("match %d: matched=%v message=%q err=%v", i, matched, message, matchErr)
		}
	}

	adherence, err := svc.PlanAdherence(ctx, plan.ID, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("plan adherence: %v", err)
	}
	if adherence.TotalScheduled != 1 || adherence.TotalCompleted != 2 {
		t.Errorf("scheduled/completed = %d/%d, want 1/2",
			adherence.TotalScheduled, adherence.TotalCompleted)
	}
	if adherence.CompletionRate != 100 {
		t.Errorf("completion rate = %v, want capped at 100", adherence.CompletionRate)
	}
	if adherence.MissedWorkouts != 0 {
		t.Errorf("missed = %d, want 0", adherence.MissedWorkouts)
	}
}

func Test_WeeklyTrends(t *testing.T) {
	ctx, svc := newTestService(t)
	recordRun(t, ctx, svc, todayUTC(), 10, 50*time.Minute)
	recordRun(t, ctx, svc, todayUTC().AddDate(0, 0, -7), 6, 36*time.Minute)

	trends, err := svc.WeeklyTrends(ctx, 0, 4)
	if err != nil {
		t.Fatalf("weekly trends: %v", err)
	}
	if len(trends) < 4 {
		t.Fatalf("got %d weeks, want at least 4", len(trends))
	}

	last := trends[len(trends)-1]
	if !last.WeekStart.Equal(weekStart(todayUTC())) {
		t.Errorf("last week start = %v, want current Monday", last.WeekStart)
	}
	if last.WeekLabel != last.WeekStart.Format("Jan 02") {
		t.Errorf("week label = %q", last.WeekLabel)
	}
	if last.ActualDistanceKm != 10 {
		t.Errorf("current week distance = %v, want 10", last.ActualDistanceKm)
	}
	if last.AveragePace == nil || *last.AveragePace != 5.0 {
		t.Errorf("current week pace = %v, want 5.0", last.AveragePace)
	}

	previous := trends[len(trends)-2]
	if previous.ActualDistanceKm != 6 {
		t.Errorf("previous week distance = %v, want 6", previous.ActualDistanceKm)
	}
	if previous.AveragePace == nil || *previous.AveragePace != 6.0 {
		t.Errorf("previous week pace = %v, want 6.0", previous.AveragePace)
	}

	// Planned distances come from the selected plan, not only the latest.
	selected := saveCurrentWeekPlan(t, ctx, svc)
	trends, err = svc.WeeklyTrends(ctx, selected.ID, 4)
	if err != nil {
		t.Fatalf("weekly trends for plan: %v", err)
	}
	last = trends[len(trends)-1]
	if last.PlannedDistanceKm == nil || *last.PlannedDistanceKm != 56 {
		t.Errorf("current week planned distance = %v, want 56", last.PlannedDistanceKm)
	}
}

func Test_Calendar(t *testing.T) {
	ctx, svc := newTestService(t)
	saveCurrentWeekPlan(t, ctx, svc)
	recordRun(t, ctx, svc, todayUTC(), 8, 44*time.Minute)

	today := todayUTC()
	day, err := svc.DayCalendar(ctx, today)
	if err != nil {
		t.Fatalf("day calendar: %v", err)
	}
	if !day.IsToday {
		t.Error("day should be flagged as today")
	}
	if day.Status != training.DayCompleted {
		t.Errorf("status = %q, want completed", day.Status)
	}
	if len(day.Scheduled) != 1 || len(day.Completed) != 1 {
		t.Errorf("scheduled/completed = %d/%d, want 1/1", len(day.Scheduled), len(day.Completed))
	}
	if day.TotalDistanceKm != 8 {
		t.Errorf("total distance = %v, want the actual 8", day.TotalDistanceKm)
	}

	weeks, err := svc.MonthCalendar(ctx, today.Year(), today.Month())
	if err != nil {
		t.Fatalf("month calendar: %v", err)
	}
	if len(weeks) < 4 {
		t.Fatalf("got %d weeks, want at least 4", len(weeks))
	}
	foundToday := false
	for _, week := range weeks {
		if len(week.Days) != 7 {
			t.Fatalf("week %d has %d days, want 7", week.WeekNumber, len(week.Days))
		}
		for _, d := range week.Days {
			if d.IsToday {
				foundToday = true
				if !d.IsCurrentMonth {
					t.Error("today should belong to the current month")
				}
			}
		}
	}
	if !foundToday {
		t.Error("today missing from the month grid")
	}
}

func Test_PlanLifecycle(t *testing.T) {
	ctx, svc := newTestService(t)

	raceDate := todayUTC().AddDate(0, 0, 12*7)
	preview, err := svc.PreviewPlan("custom", training.PlanConfig{
		PlanType: training.PlanHalfMarathon,
		RaceDate: raceDate,
	})
	if err != nil {
		t.Fatalf("preview plan: %v", err)
	}
	if preview.DurationWeeks != 12 {
		t.Errorf("preview weeks = %d, want 12", preview.DurationWeeks)
	}

	plan, err := svc.SavePlanPreview(ctx, preview, raceDate, nil)
	if err != nil {
		t.Fatalf("save preview: %v", err)
	}
	if plan.ID == 0 {
		t.Fatal("saved plan has no ID")
	}

	loaded, err := svc.TrainingPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("load plan: %v", err)
	}
	if len(loaded.Weeks) != 12 {
		t.Fatalf("loaded plan has %d weeks, want 12", len(loaded.Weeks))
	}
	for _, week := range loaded.Weeks {
		if len(week.Workouts) != 7 {
			t.Fatalf("week %d has %d workouts, want 7", week.WeekNumber, len(week.Workouts))
		}
	}
	if !loaded.RaceDate.Equal(raceDate) {
		t.Errorf("race date = %v, want %v", loaded.RaceDate, raceDate)
	}

	plans, err := svc.TrainingPlans(ctx)
	if err != nil {
		t.Fatalf("list plans: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("got %d plans, want 1", len(plans))
	}

	if err = svc.DeleteTrainingPlan(ctx, plan.ID); err != nil {
		t.Fatalf("delete plan: %v", err)
	}
	if _, err = svc.TrainingPlan(ctx, plan.ID); !errors.Is(err, training.ErrNotFound) {
		t.Errorf("get deleted plan: got %v, want ErrNotFound", err)
	}
}

func Test_PreviewPlan_Errors(t *testing.T) {
	_, svc := newTestService(t)

	_, err := svc.PreviewPlan("fancy", training.PlanConfig{})
	if !errors.Is(err, training.ErrUnknownMethodology) {
		t.Errorf("unknown methodology: got %v", err)
	}

	_, err = svc.PreviewPlan("custom", training.PlanConfig{
		PlanType: training.PlanHalfMarathon,
		RaceDate: todayUTC().AddDate(0, 0, 14), // two weeks away
	})
	if !errors.Is(err, training.ErrInvalidPlanConfig) {
		t.Errorf("short runway: got %v", err)
	}
}

func Test_UserIsolation(t *testing.T) {
	ctx, svc := newTestService(t)
	recordRun(t, ctx, svc, todayUTC(), 10, 50*time.Minute)

	// A different user sees none of it.
	otherCtx := contexthelpers.AuthenticateContext(ctx, 999)
	workouts, err := svc.Workouts(otherCtx, todayUTC().AddDate(0, 0, -7), todayUTC())
	if err != nil {
		t.Fatalf("list workouts: %v", err)
	}
	if len(workouts) != 0 {
		t.Errorf("other user sees %d workouts, want 0", len(workouts))
	}
}
