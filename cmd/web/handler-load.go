package main

import (
	"net/http"
	"strconv"
)

func (app *application) loadSummaryGET(w http.ResponseWriter, r *http.Request) {
	summary, err := app.trainingService.LoadSummary(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{
		"current_tss":             summary.CurrentTSS,
		"atl":                     summary.ATL,
		"ctl":                     summary.CTL,
		"tsb":                     summary.TSB,
		"form_status":             summary.FormStatus,
		"form_color":              summary.FormColor,
		"weekly_tss":              summary.WeeklyTSS,
		"weekly_target":           summary.WeeklyTarget,
		"weekly_progress_percent": summary.WeeklyProgressPercent,
		"fitness_trend":           summary.FitnessTrend,
	})
}

func (app *application) loadHistoryGET(w http.ResponseWriter, r *http.Request) {
	days := 90
	if value := r.URL.Query().Get("days"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 {
			app.clientError(w, r, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	loads, err := app.trainingService.LoadHistory(r.Context(), days)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"loads": renderTrainingLoads(loads)})
}

func (app *application) loadBackfillPOST(w http.ResponseWriter, r *http.Request) {
	updated, err := app.trainingService.BackfillLoads(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"days_updated": updated})
}
