package training

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/myrjola/pacekeeper/internal/contexthelpers"
	"github.com/myrjola/pacekeeper/internal/sqlite"
)

// Service handles the business logic for training analytics: workouts,
// training load, pace zones, personal records, plans, and goals.
type Service struct {
	repo   *repositories
	logger *slog.Logger
	now    func() time.Time

	// mu guards userLocks. Each user's writes run under their own lock so
	// the load recalculation walk never races with a concurrent save.
	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// NewService creates a new training service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:      newRepositories(db, logger),
		logger:    logger,
		now:       time.Now,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

// lockUser serializes writes for the authenticated user and returns the
// unlock function.
func (s *Service) lockUser(ctx context.Context) func() {
	userID := contexthelpers.AuthenticatedUserID(ctx)

	s.mu.Lock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// today returns the current date truncated to midnight.
func (s *Service) today() time.Time {
	return dateOnly(s.now())
}

// UserIDs lists every known user. The backfill fan-out iterates these.
func (s *Service) UserIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.users.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

// EnsureUser creates the user with the given id unless it already exists.
func (s *Service) EnsureUser(ctx context.Context, id int64, displayName string) error {
	if err := s.repo.users.Ensure(ctx, id, displayName); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

// RecordWorkout saves a completed workout and runs the downstream pipeline:
// training load recalculation from the workout date, personal record
// detection, and goal progress refresh. The returned PR checks describe any
// new records set by this workout.
func (s *Service) RecordWorkout(ctx context.Context, w Workout) (Workout, []PRCheck, error) {
	if w.DistanceKm <= 0 {
		return Workout{}, nil, fmt.Errorf("workout distance must be positive, got %.2f", w.DistanceKm)
	}
	if w.Duration <= 0 {
		return Workout{}, nil, fmt.Errorf("workout duration must be positive, got %s", w.Duration)
	}
	if w.Date.IsZero() {
		return Workout{}, nil, fmt.Errorf("workout date is required")
	}
	if w.Source == "" {
		w.Source = SourceManual
	}
	if w.AvgPaceMinPerKm == 0 {
		w.AvgPaceMinPerKm = round2(w.Duration.Minutes() / w.DistanceKm)
	}
	w.Date = dateOnly(w.Date)

	unlock := s.lockUser(ctx)
	defer unlock()

	created, err := s.repo.workouts.Create(ctx, w)
	if err != nil {
		return Workout{}, nil, fmt.Errorf("create workout: %w", err)
	}

	if _, err = s.recalculateFrom(ctx, created.Date); err != nil {
		return Workout{}, nil, fmt.Errorf("recalculate training load: %w", err)
	}

	checks, err := s.recordPersonalRecords(ctx, created)
	if err != nil {
		return Workout{}, nil, fmt.Errorf("record personal records: %w", err)
	}

	if err = s.refreshGoals(ctx); err != nil {
		return Workout{}, nil, fmt.Errorf("refresh goals: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "workout recorded",
		slog.Int64("workout_id", created.ID),
		slog.String("date", formatDate(created.Date)),
		slog.Float64("distance_km", created.DistanceKm))
	return created, checks, nil
}

// DeleteWorkout removes a workout and recalculates training load from its
// date. Personal records derived from the workout are kept; history is
// append-only.
func (s *Service) DeleteWorkout(ctx context.Context, id int64) error {
	unlock := s.lockUser(ctx)
	defer unlock()

	w, err := s.repo.workouts.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get workout: %w", err)
	}
	if err = s.repo.workouts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if _, err = s.recalculateFrom(ctx, w.Date); err != nil {
		return fmt.Errorf("recalculate training load: %w", err)
	}
	if err = s.refreshGoals(ctx); err != nil {
		return fmt.Errorf("refresh goals: %w", err)
	}
	return nil
}

// Workout retrieves a single workout.
func (s *Service) Workout(ctx context.Context, id int64) (Workout, error) {
	w, err := s.repo.workouts.Get(ctx, id)
	if err != nil {
		return Workout{}, fmt.Errorf("get workout: %w", err)
	}
	return w, nil
}

// Workouts retrieves the workouts within [from, to] inclusive.
func (s *Service) Workouts(ctx context.Context, from, to time.Time) ([]Workout, error) {
	workouts, err := s.repo.workouts.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workouts, nil
}

// UnmatchedWorkouts retrieves completed workouts not yet linked to a
// scheduled workout, most recent first.
func (s *Service) UnmatchedWorkouts(ctx context.Context) ([]Workout, error) {
	workouts, err := s.repo.workouts.ListUnmatched(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unmatched workouts: %w", err)
	}
	return workouts, nil
}

// PaceZones retrieves the user's configured zones ordered slowest to
// fastest.
func (s *Service) PaceZones(ctx context.Context) ([]PaceZone, error) {
	zones, err := s.repo.zones.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pace zones: %w", err)
	}
	return zones, nil
}

// SavePaceZones replaces the user's zone set atomically after validating
// that each zone's boundaries are ordered.
func (s *Service) SavePaceZones(ctx context.Context, zones []PaceZone) error {
	for _, zone := range zones {
		if zone.MaxPaceMinKm >= zone.MinPaceMinKm {
			return fmt.Errorf("zone %s: min pace %.2f must be slower than max pace %.2f",
				zone.Name, zone.MinPaceMinKm, zone.MaxPaceMinKm)
		}
	}
	if err := s.repo.zones.ReplaceAll(ctx, zones); err != nil {
		return fmt.Errorf("replace pace zones: %w", err)
	}
	return nil
}

// ApplyZoneCalculation saves a calculated zone set and stores the derived
// threshold pace in the user's fitness settings so TSS uses it from now on.
func (s *Service) ApplyZoneCalculation(ctx context.Context, calc ZoneCalculation) error {
	if err := s.SavePaceZones(ctx, calc.Zones); err != nil {
		return err
	}

	settings, err := s.repo.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("get fitness settings: %w", err)
	}
	for _, zone := range calc.Zones {
		if zone.Name == ZoneThreshold {
			threshold := zone.MaxPaceMinKm
			settings.ThresholdPaceMinPerKm = &threshold
		}
	}
	if err = s.repo.settings.Set(ctx, settings); err != nil {
		return fmt.Errorf("save fitness settings: %w", err)
	}
	return nil
}

// FitnessSettings retrieves the user's calibration values.
func (s *Service) FitnessSettings(ctx context.Context) (FitnessSettings, error) {
	settings, err := s.repo.settings.Get(ctx)
	if err != nil {
		return FitnessSettings{}, fmt.Errorf("get fitness settings: %w", err)
	}
	return settings, nil
}

// SaveFitnessSettings saves the user's calibration values.
func (s *Service) SaveFitnessSettings(ctx context.Context, settings FitnessSettings) error {
	if settings.ThresholdPaceMinPerKm != nil {
		pace := *settings.ThresholdPaceMinPerKm
		if pace < 2.5 || pace > 10.0 {
			return fmt.Errorf("threshold pace %.2f out of range", pace)
		}
	}
	if err := s.repo.settings.Set(ctx, settings); err != nil {
		return fmt.Errorf("save fitness settings: %w", err)
	}
	return nil
}
