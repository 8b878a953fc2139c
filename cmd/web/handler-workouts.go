package main

import (
	"net/http"
	"time"

	"github.com/myrjola/pacekeeper/internal/training"
)

type recordWorkoutRequest struct {
	Date            string   `json:"date"`
	DistanceKm      float64  `json:"distance_km"`
	DurationSeconds int      `json:"duration_seconds"`
	AvgHeartRate    *int     `json:"avg_heart_rate"`
	ElevationGainM  *float64 `json:"elevation_gain_m"`
	Source          string   `json:"source"`
	Notes           string   `json:"notes"`
}

func (app *application) workoutsPOST(w http.ResponseWriter, r *http.Request) {
	var req recordWorkoutRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}
	source := training.Source(req.Source)
	if source == "" {
		source = training.SourceManual
	}

	workout, prChecks, err := app.trainingService.RecordWorkout(r.Context(), training.Workout{
		Date:           date,
		DistanceKm:     req.DistanceKm,
		Duration:       time.Duration(req.DurationSeconds) * time.Second,
		AvgHeartRate:   req.AvgHeartRate,
		ElevationGainM: req.ElevationGainM,
		Source:         source,
		Notes:          req.Notes,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, envelope{
		"workout":   renderWorkout(workout),
		"pr_checks": renderPRChecks(prChecks),
	})
}

func (app *application) workoutsGET(w http.ResponseWriter, r *http.Request) {
	from, ok := app.parseDateQuery(w, r, "from")
	if !ok {
		return
	}
	to, ok := app.parseDateQuery(w, r, "to")
	if !ok {
		return
	}
	// Default to the last 90 days when no explicit range is given.
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -90)
	}

	workouts, err := app.trainingService.Workouts(r.Context(), from, to)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"workouts": renderWorkouts(workouts)})
}

func (app *application) workoutGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	workout, err := app.trainingService.Workout(r.Context(), id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"workout": renderWorkout(workout)})
}

func (app *application) workoutDELETE(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	if err := app.trainingService.DeleteWorkout(r.Context(), id); err != nil {
		app.domainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) workoutsUnmatchedGET(w http.ResponseWriter, r *http.Request) {
	workouts, err := app.trainingService.UnmatchedWorkouts(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"workouts": renderWorkouts(workouts)})
}

func (app *application) workoutCandidatesGET(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	workout, err := app.trainingService.Workout(r.Context(), id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	const candidateLimit = 5
	candidates, err := app.trainingService.FindMatchCandidates(r.Context(), workout, candidateLimit)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"candidates": renderMatchCandidates(candidates)})
}

func (app *application) workoutMatchPOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	var req struct {
		ScheduledWorkoutID int64 `json:"scheduled_workout_id"`
	}
	if !app.readJSON(w, r, &req) {
		return
	}

	matched, message, err := app.trainingService.MatchWorkout(r.Context(), id, req.ScheduledWorkoutID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	status := http.StatusOK
	if !matched {
		status = http.StatusConflict
	}
	app.writeJSON(w, r, status, envelope{"matched": matched, "message": message})
}

func (app *application) workoutUnmatchPOST(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	unmatched, message, err := app.trainingService.UnmatchWorkout(r.Context(), id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	status := http.StatusOK
	if !unmatched {
		status = http.StatusConflict
	}
	app.writeJSON(w, r, status, envelope{"unmatched": unmatched, "message": message})
}

func (app *application) workoutsAutomatchPOST(w http.ResponseWriter, r *http.Request) {
	outcome, err := app.trainingService.AutoMatchAll(r.Context(), training.AutoMatchThreshold)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{
		"matched": outcome.Matched,
		"skipped": outcome.Skipped,
		"errors":  outcome.Errors,
	})
}
