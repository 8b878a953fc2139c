package main

import (
	"net/http"
	"time"

	"github.com/myrjola/pacekeeper/internal/training"
)

func (app *application) planGeneratorsGET(w http.ResponseWriter, r *http.Request) {
	generators := training.Generators()
	out := make([]envelope, 0, len(generators))
	for _, g := range generators {
		out = append(out, envelope{
			"name":         g.Name,
			"display_name": g.DisplayName,
			"description":  g.Description,
		})
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"generators": out})
}

type planConfigRequest struct {
	Methodology     string `json:"methodology"`
	PlanType        string `json:"plan_type"`
	RaceDate        string `json:"race_date"`
	GoalTimeSeconds *int   `json:"goal_time_seconds"`
	Name            string `json:"name"`
}

func (app *application) parsePlanConfig(
	w http.ResponseWriter,
	r *http.Request,
	req planConfigRequest,
) (training.PlanConfig, bool) {
	cfg := training.PlanConfig{
		PlanType: training.PlanType(req.PlanType),
		Name:     req.Name,
	}
	if req.RaceDate != "" {
		raceDate, err := time.Parse(time.DateOnly, req.RaceDate)
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest, "race_date must be formatted as YYYY-MM-DD")
			return training.PlanConfig{}, false
		}
		cfg.RaceDate = raceDate
	}
	if req.GoalTimeSeconds != nil {
		goalTime := time.Duration(*req.GoalTimeSeconds) * time.Second
		cfg.GoalTime = &goalTime
	}
	return cfg, true
}

func (app *application) planPreviewPOST(w http.ResponseWriter, r *http.Request) {
	var req planConfigRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	cfg, ok := app.parsePlanConfig(w, r, req)
	if !ok {
		return
	}

	problems, err := app.trainingService.ValidatePlanConfig(req.Methodology, cfg)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	if len(problems) > 0 {
		app.writeJSON(w, r, http.StatusUnprocessableEntity, envelope{"problems": problems})
		return
	}

	preview, err := app.trainingService.PreviewPlan(req.Methodology, cfg)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"plan": renderGeneratedPlan(preview)})
}

func (app *application) plansPOST(w http.ResponseWriter, r *http.Request) {
	var req planConfigRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	cfg, ok := app.parsePlanConfig(w, r, req)
	if !ok {
		return
	}

	preview, err := app.trainingService.PreviewPlan(req.Methodology, cfg)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	plan, err := app.trainingService.SavePlanPreview(r.Context(), preview, cfg.RaceDate, cfg.GoalTime)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, envelope{"plan": renderTrainingPlan(plan)})
}

func (app *application) plansGET(w http.ResponseWriter, r *http.Request) {
	plans, err := app.trainingService.TrainingPlans(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	out := make([]trainingPlanJSON, 0, len(plans))
	for _, plan := range plans {
		out = append(out, renderTrainingPlan(plan))
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"plans": out})
}

func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	plan, err := app.trainingService.TrainingPlan(r.Context(), id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"plan": renderTrainingPlan(plan)})
}

func (app *application) planDELETE(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	if err := app.trainingService.DeleteTrainingPlan(r.Context(), id); err != nil {
		app.domainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) planAdherenceGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	from, ok := app.parseDateQuery(w, r, "from")
	if !ok {
		return
	}
	to, ok := app.parseDateQuery(w, r, "to")
	if !ok {
		return
	}

	adherence, err := app.trainingService.PlanAdherence(r.Context(), id, from, to)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{
		"total_scheduled":     adherence.TotalScheduled,
		"total_completed":     adherence.TotalCompleted,
		"completion_rate":     adherence.CompletionRate,
		"distance_planned_km": adherence.DistancePlannedKm,
		"distance_actual_km":  adherence.DistanceActualKm,
		"distance_adherence":  adherence.DistanceAdherence,
		"missed_workouts":     adherence.MissedWorkouts,
	})
}
