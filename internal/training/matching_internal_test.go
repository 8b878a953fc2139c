package training

import (
	"testing"
)

func TestScoreCandidate(t *testing.T) {
	target := func(km float64) *float64 { return &km }

	tests := []struct {
		name       string
		workout    Workout
		scheduled  ScheduledWorkout
		dateDiff   int
		wantScore  float64
		wantReason string
	}{
		{
			name:       "same day with matching distance is a perfect score",
			workout:    Workout{DistanceKm: 10},
			scheduled:  ScheduledWorkout{ID: 1, TargetDistanceKm: target(10)},
			dateDiff:   0,
			wantScore:  1.0,
			wantReason: "Same day, Distance matches",
		},
		{
			name:       "small distance gap still counts as matching",
			workout:    Workout{DistanceKm: 10.3},
			scheduled:  ScheduledWorkout{ID: 2, TargetDistanceKm: target(10)},
			dateDiff:   0,
			wantScore:  0.99,
			wantReason: "Same day, Distance matches",
		},
		{
			name:       "one day apart without a target distance scores neutral on distance",
			workout:    Workout{DistanceKm: 8},
			scheduled:  ScheduledWorkout{ID: 3},
			dateDiff:   1,
			wantScore:  0.65,
			wantReason: "1 day apart",
		},
		{
			name:       "three days apart with a distance gap",
			workout:    Workout{DistanceKm: 12},
			scheduled:  ScheduledWorkout{ID: 4, TargetDistanceKm: target(10)},
			dateDiff:   3,
			wantScore:  0.47,
			wantReason: "3 days apart, 2.0km difference",
		},
		{
			name:       "zero distance workout scores neutral on distance",
			workout:    Workout{DistanceKm: 0},
			scheduled:  ScheduledWorkout{ID: 5, TargetDistanceKm: target(10)},
			dateDiff:   2,
			wantScore:  0.5,
			wantReason: "2 days apart",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreCandidate(tt.workout, tt.scheduled, "2026-03-02", tt.dateDiff)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.DateDiffDays != tt.dateDiff {
				t.Errorf("DateDiffDays = %d, want %d", got.DateDiffDays, tt.dateDiff)
			}
		})
	}
}

func TestScoreCandidate_DistanceDiff(t *testing.T) {
	target := 10.0
	got := scoreCandidate(Workout{DistanceKm: 12.5},
		ScheduledWorkout{TargetDistanceKm: &target}, "2026-03-02", 0)
	if got.DistanceDiffKm == nil || *got.DistanceDiffKm != 2.5 {
		t.Fatalf("DistanceDiffKm = %v, want 2.5", got.DistanceDiffKm)
	}

	got = scoreCandidate(Workout{DistanceKm: 12.5}, ScheduledWorkout{}, "2026-03-02", 0)
	if got.DistanceDiffKm != nil {
		t.Fatalf("DistanceDiffKm = %v, want nil without a target", *got.DistanceDiffKm)
	}
}
