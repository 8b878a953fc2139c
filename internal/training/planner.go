package training

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/myrjola/pacekeeper/internal/errors"
)

// ErrUnknownMethodology is returned for generator lookups that miss.
var ErrUnknownMethodology = errors.NewSentinel("unknown plan methodology")

// ErrInvalidPlanConfig is returned when a plan configuration fails
// validation. The error message carries the individual problems.
var ErrInvalidPlanConfig = errors.NewSentinel("invalid plan configuration")

// PlanConfig is the input for generating a training plan.
type PlanConfig struct {
	PlanType PlanType
	RaceDate time.Time
	GoalTime *time.Duration
	Name     string
}

// GeneratedWorkout is one planned workout in a plan preview.
type GeneratedWorkout struct {
	DayOfWeek        int
	Type             WorkoutType
	TargetDistanceKm *float64
	Description      string
}

// GeneratedWeek is one week in a plan preview.
type GeneratedWeek struct {
	WeekNumber      int
	Focus           Focus
	TotalDistanceKm float64
	Workouts        []GeneratedWorkout
	Notes           string
}

// GeneratedPlan is a complete plan preview. Nothing is persisted until the
// preview is explicitly saved.
type GeneratedPlan struct {
	Name          string
	Description   string
	PlanType      PlanType
	Methodology   string
	DurationWeeks int
	Weeks         []GeneratedWeek
}

// planGenerator produces plan previews for one training methodology.
type planGenerator interface {
	Name() string
	DisplayName() string
	Description() string
	SupportedDistances() []PlanType
	Validate(cfg PlanConfig, today time.Time) []string
	Generate(cfg PlanConfig, today time.Time) GeneratedPlan
}

// generators is the methodology registry. New methodologies plug in here.
var generators = map[string]planGenerator{
	"custom": customGenerator{},
}

// GeneratorInfo describes an available plan methodology.
type GeneratorInfo struct {
	Name        string
	DisplayName string
	Description string
}

// Generators lists the available plan methodologies.
func Generators() []GeneratorInfo {
	infos := make([]GeneratorInfo, 0, len(generators))
	for _, gen := range generators {
		infos = append(infos, GeneratorInfo{
			Name:        gen.Name(),
			DisplayName: gen.DisplayName(),
			Description: gen.Description(),
		})
	}
	return infos
}

// ValidatePlanConfig checks a configuration against a methodology and
// returns human-readable problems, empty when valid.
func (s *Service) ValidatePlanConfig(methodology string, cfg PlanConfig) ([]string, error) {
	gen, ok := generators[methodology]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethodology, methodology)
	}
	return gen.Validate(cfg, s.today()), nil
}

// PreviewPlan validates the configuration and generates a plan preview.
func (s *Service) PreviewPlan(methodology string, cfg PlanConfig) (GeneratedPlan, error) {
	gen, ok := generators[methodology]
	if !ok {
		return GeneratedPlan{}, fmt.Errorf("%w: %q", ErrUnknownMethodology, methodology)
	}

	today := s.today()
	if problems := gen.Validate(cfg, today); len(problems) > 0 {
		return GeneratedPlan{}, fmt.Errorf("%w: %s", ErrInvalidPlanConfig, strings.Join(problems, "; "))
	}
	return gen.Generate(cfg, today), nil
}

// SavePlanPreview persists a generated plan for the user and returns the
// stored plan with IDs assigned.
func (s *Service) SavePlanPreview(
	ctx context.Context,
	preview GeneratedPlan,
	raceDate time.Time,
	goalTime *time.Duration,
) (TrainingPlan, error) {
	plan := TrainingPlan{
		Name:          preview.Name,
		Description:   preview.Description,
		Type:          preview.PlanType,
		Methodology:   preview.Methodology,
		DurationWeeks: preview.DurationWeeks,
		RaceDate:      dateOnly(raceDate),
		GoalTime:      goalTime,
	}
	for _, week := range preview.Weeks {
		total := week.TotalDistanceKm
		stored := TrainingWeek{
			WeekNumber:      week.WeekNumber,
			Focus:           week.Focus,
			TotalDistanceKm: &total,
			Notes:           week.Notes,
		}
		for _, w := range week.Workouts {
			stored.Workouts = append(stored.Workouts, ScheduledWorkout{
				DayOfWeek:        w.DayOfWeek,
				Type:             w.Type,
				TargetDistanceKm: w.TargetDistanceKm,
				Description:      w.Description,
			})
		}
		plan.Weeks = append(plan.Weeks, stored)
	}

	created, err := s.repo.plans.Create(ctx, plan)
	if err != nil {
		return TrainingPlan{}, fmt.Errorf("create training plan: %w", err)
	}
	return created, nil
}

// TrainingPlans retrieves the user's plans, newest first.
func (s *Service) TrainingPlans(ctx context.Context) ([]TrainingPlan, error) {
	plans, err := s.repo.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list training plans: %w", err)
	}
	return plans, nil
}

// TrainingPlan retrieves a single plan with its weeks and workouts.
func (s *Service) TrainingPlan(ctx context.Context, id int64) (TrainingPlan, error) {
	plan, err := s.repo.plans.Get(ctx, id)
	if err != nil {
		return TrainingPlan{}, fmt.Errorf("get training plan: %w", err)
	}
	return plan, nil
}

// DeleteTrainingPlan removes a plan. Links from completed workouts are
// cleared, the workouts themselves stay.
func (s *Service) DeleteTrainingPlan(ctx context.Context, id int64) error {
	if err := s.repo.plans.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete training plan: %w", err)
	}
	return nil
}

// weeksUntilRace counts full weeks from today until the race.
func weeksUntilRace(raceDate, today time.Time) int {
	return daysBetween(today, raceDate) / 7
}
