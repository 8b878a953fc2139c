package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// distanceTolerance is how close a workout's distance must be to a standard
// distance to count for that bucket, in kilometers.
const distanceTolerance = 0.1

// PRCheck is the result of checking one distance bucket against a workout.
type PRCheck struct {
	IsNewPR      bool
	Distance     Distance
	Time         time.Duration
	PreviousTime *time.Duration
	Improvement  *time.Duration
}

// CheckForPRs reports which standard distances a workout would set a new
// record for, without writing anything.
func (s *Service) CheckForPRs(ctx context.Context, w Workout) ([]PRCheck, error) {
	if w.DistanceKm <= 0 || w.Duration <= 0 {
		return nil, nil
	}

	var results []PRCheck
	for _, distance := range StandardDistances {
		target := distanceKm[distance]
		diff := w.DistanceKm - target
		if diff < 0 {
			diff = -diff
		}
		if diff > distanceTolerance {
			continue
		}

		check, err := s.checkDistancePR(ctx, distance, w.Duration)
		if err != nil {
			return nil, err
		}
		if check.IsNewPR {
			results = append(results, check)
		}
	}
	return results, nil
}

// checkDistancePR compares a time against the current best for a bucket.
// The first effort at a distance is always a PR.
func (s *Service) checkDistancePR(ctx context.Context, distance Distance, t time.Duration) (PRCheck, error) {
	check := PRCheck{Distance: distance, Time: t}

	best, err := s.repo.records.Best(ctx, distance)
	if errors.Is(err, ErrNotFound) {
		check.IsNewPR = true
		return check, nil
	}
	if err != nil {
		return PRCheck{}, fmt.Errorf("get record for %s: %w", distance, err)
	}

	check.PreviousTime = &best.Time
	if t < best.Time {
		check.IsNewPR = true
		improvement := best.Time - t
		check.Improvement = &improvement
	}
	return check, nil
}

// recordPersonalRecords runs PR detection for a saved workout and appends a
// record row for every new best. History is append-only; superseded rows
// stay.
func (s *Service) recordPersonalRecords(ctx context.Context, w Workout) ([]PRCheck, error) {
	checks, err := s.CheckForPRs(ctx, w)
	if err != nil {
		return nil, err
	}

	for _, check := range checks {
		workoutID := w.ID
		record := PersonalRecord{
			Distance:     check.Distance,
			Time:         check.Time,
			Date:         w.Date,
			PaceMinPerKm: round2(check.Time.Minutes() / distanceKm[check.Distance]),
			WorkoutID:    &workoutID,
			IsManual:     false,
		}
		if _, err = s.repo.records.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("create record for %s: %w", check.Distance, err)
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "new personal record",
			slog.String("distance", string(check.Distance)),
			slog.Duration("time", check.Time),
			slog.Int64("workout_id", w.ID))
	}
	return checks, nil
}

// CurrentRecords retrieves the current best for every standard distance.
// Buckets without a record map to nil.
func (s *Service) CurrentRecords(ctx context.Context) (map[Distance]*PersonalRecord, error) {
	records := make(map[Distance]*PersonalRecord, len(StandardDistances))
	for _, distance := range StandardDistances {
		best, err := s.repo.records.Best(ctx, distance)
		if errors.Is(err, ErrNotFound) {
			records[distance] = nil
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get record for %s: %w", distance, err)
		}
		r := best
		records[distance] = &r
	}
	return records, nil
}

// RecordForDistance retrieves the current best for one bucket.
func (s *Service) RecordForDistance(ctx context.Context, distance Distance) (PersonalRecord, error) {
	best, err := s.repo.records.Best(ctx, distance)
	if err != nil {
		return PersonalRecord{}, fmt.Errorf("get record for %s: %w", distance, err)
	}
	return best, nil
}

// RecordHistory retrieves all recorded efforts for a bucket, fastest first.
func (s *Service) RecordHistory(ctx context.Context, distance Distance) ([]PersonalRecord, error) {
	history, err := s.repo.records.History(ctx, distance)
	if err != nil {
		return nil, fmt.Errorf("get record history: %w", err)
	}
	return history, nil
}

// RecentRecords retrieves the most recently set records across all buckets.
func (s *Service) RecentRecords(ctx context.Context, limit int) ([]PersonalRecord, error) {
	records, err := s.repo.records.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent records: %w", err)
	}
	return records, nil
}

// AddManualRecord appends a record entered by hand rather than derived from
// a workout. Custom distances must carry their length in kilometers.
func (s *Service) AddManualRecord(
	ctx context.Context,
	distance Distance,
	t time.Duration,
	date time.Time,
	customKm *float64,
) (PersonalRecord, error) {
	if t <= 0 {
		return PersonalRecord{}, fmt.Errorf("record time must be positive, got %s", t)
	}

	var km float64
	if distance == DistanceCustom {
		if customKm == nil {
			return PersonalRecord{}, fmt.Errorf("custom distance requires a length in km")
		}
		km = *customKm
	} else {
		km = distanceKm[distance]
		customKm = nil
	}
	if km <= 0 {
		return PersonalRecord{}, fmt.Errorf("invalid record distance %q", distance)
	}

	record := PersonalRecord{
		Distance:         distance,
		CustomDistanceKm: customKm,
		Time:             t,
		Date:             dateOnly(date),
		PaceMinPerKm:     round2(t.Minutes() / km),
		IsManual:         true,
	}
	created, err := s.repo.records.Create(ctx, record)
	if err != nil {
		return PersonalRecord{}, fmt.Errorf("create manual record: %w", err)
	}
	return created, nil
}

// DeleteRecord removes one record row.
func (s *Service) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.repo.records.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}
