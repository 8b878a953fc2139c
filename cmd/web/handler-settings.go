package main

import (
	"net/http"

	"github.com/myrjola/pacekeeper/internal/training"
)

func (app *application) settingsGET(w http.ResponseWriter, r *http.Request) {
	settings, err := app.trainingService.FitnessSettings(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{
		"threshold_pace_min_per_km": settings.ThresholdPaceMinPerKm,
		"target_weekly_tss":         settings.TargetWeeklyTSS,
	})
}

type saveSettingsRequest struct {
	ThresholdPaceMinPerKm *float64 `json:"threshold_pace_min_per_km"`
	TargetWeeklyTSS       int      `json:"target_weekly_tss"`
}

func (app *application) settingsPUT(w http.ResponseWriter, r *http.Request) {
	var req saveSettingsRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	settings := training.FitnessSettings{
		ThresholdPaceMinPerKm: req.ThresholdPaceMinPerKm,
		TargetWeeklyTSS:       req.TargetWeeklyTSS,
	}
	if err := app.trainingService.SaveFitnessSettings(r.Context(), settings); err != nil {
		app.clientError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{
		"threshold_pace_min_per_km": settings.ThresholdPaceMinPerKm,
		"target_weekly_tss":         settings.TargetWeeklyTSS,
	})
}
