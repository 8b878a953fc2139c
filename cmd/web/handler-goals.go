package main

import (
	"net/http"
	"time"

	"github.com/myrjola/pacekeeper/internal/training"
)

func (app *application) goalsGET(w http.ResponseWriter, r *http.Request) {
	goals, err := app.trainingService.Goals(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	// Progress is computed on read so stale stored values never leak out.
	out := make([]goalProgressJSON, 0, len(goals))
	for _, goal := range goals {
		progress, err := app.trainingService.GoalProgress(r.Context(), goal)
		if err != nil {
			app.domainError(w, r, err)
			return
		}
		out = append(out, renderGoalProgress(progress))
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"goals": out})
}

type createGoalRequest struct {
	Type              string   `json:"type"`
	RaceDistance      string   `json:"race_distance"`
	TargetTimeSeconds *int     `json:"target_time_seconds"`
	TargetDistanceKm  *float64 `json:"target_distance_km"`
	TargetPace        *float64 `json:"target_pace"`
	Deadline          string   `json:"deadline"`
}

func (app *application) goalsPOST(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	goal := training.Goal{
		Type:             training.GoalType(req.Type),
		RaceDistance:     training.Distance(req.RaceDistance),
		TargetDistanceKm: req.TargetDistanceKm,
		TargetPace:       req.TargetPace,
	}
	if req.TargetTimeSeconds != nil {
		target := time.Duration(*req.TargetTimeSeconds) * time.Second
		goal.TargetTime = &target
	}
	if req.Deadline != "" {
		deadline, err := time.Parse(time.DateOnly, req.Deadline)
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest, "deadline must be formatted as YYYY-MM-DD")
			return
		}
		goal.Deadline = deadline
	}

	created, err := app.trainingService.CreateGoal(r.Context(), goal)
	if err != nil {
		app.clientError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	app.writeJSON(w, r, http.StatusCreated, envelope{"goal": renderGoal(created)})
}

func (app *application) goalDELETE(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	if err := app.trainingService.DeleteGoal(r.Context(), id); err != nil {
		app.domainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
