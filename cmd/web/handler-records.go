package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/myrjola/pacekeeper/internal/training"
)

func (app *application) recordsGET(w http.ResponseWriter, r *http.Request) {
	records, err := app.trainingService.CurrentRecords(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	// One entry per standard distance so clients can render the full PR
	// table, nulls included.
	out := make(map[string]*personalRecordJSON, len(training.StandardDistances))
	for _, distance := range training.StandardDistances {
		if pr := records[distance]; pr != nil {
			rendered := renderPersonalRecord(*pr)
			out[string(distance)] = &rendered
		} else {
			out[string(distance)] = nil
		}
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"records": out})
}

func (app *application) recordsRecentGET(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 {
			app.clientError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := app.trainingService.RecentRecords(r.Context(), limit)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"records": renderPersonalRecords(records)})
}

func (app *application) recordHistoryGET(w http.ResponseWriter, r *http.Request) {
	distance := training.Distance(r.PathValue("distance"))
	records, err := app.trainingService.RecordHistory(r.Context(), distance)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"records": renderPersonalRecords(records)})
}

type addRecordRequest struct {
	Distance         string   `json:"distance"`
	CustomDistanceKm *float64 `json:"custom_distance_km"`
	TimeSeconds      int      `json:"time_seconds"`
	Date             string   `json:"date"`
}

func (app *application) recordsPOST(w http.ResponseWriter, r *http.Request) {
	var req addRecordRequest
	if !app.readJSON(w, r, &req) {
		return
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	record, err := app.trainingService.AddManualRecord(
		r.Context(),
		training.Distance(req.Distance),
		time.Duration(req.TimeSeconds)*time.Second,
		date,
		req.CustomDistanceKm,
	)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, envelope{"record": renderPersonalRecord(record)})
}

func (app *application) recordDELETE(w http.ResponseWriter, r *http.Request) {
	id, ok := app.parseIDParam(w, r)
	if !ok {
		return
	}
	if err := app.trainingService.DeleteRecord(r.Context(), id); err != nil {
		app.domainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
