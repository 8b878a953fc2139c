package main

import (
	"net/http"
	"time"

	"github.com/myrjola/pacekeeper/internal/training"
)

func (app *application) zonesGET(w http.ResponseWriter, r *http.Request) {
	zones, err := app.trainingService.PaceZones(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"zones": renderPaceZones(zones)})
}

type savePaceZonesRequest struct {
	Zones []struct {
		Name         string  `json:"name"`
		MinPaceMinKm float64 `json:"min_pace_min_km"`
		MaxPaceMinKm float64 `json:"max_pace_min_km"`
		Description  string  `json:"description"`
		ColorHex     string  `json:"color_hex"`
	} `json:"zones"`
}

func (app *application) zonesPUT(w http.ResponseWriter, r *http.Request) {
	var req savePaceZonesRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	zones := make([]training.PaceZone, 0, len(req.Zones))
	for _, z := range req.Zones {
		zones = append(zones, training.PaceZone{
			Name:         training.ZoneName(z.Name),
			MinPaceMinKm: z.MinPaceMinKm,
			MaxPaceMinKm: z.MaxPaceMinKm,
			Description:  z.Description,
			ColorHex:     z.ColorHex,
		})
	}
	if err := app.trainingService.SavePaceZones(r.Context(), zones); err != nil {
		app.clientError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"zones": renderPaceZones(zones)})
}

type zonesFromRaceRequest struct {
	Distance          string  `json:"distance"`
	DistanceKm        float64 `json:"distance_km"`
	FinishTimeSeconds int     `json:"finish_time_seconds"`
	Apply             bool    `json:"apply"`
}

func (app *application) zonesFromRacePOST(w http.ResponseWriter, r *http.Request) {
	var req zonesFromRaceRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	finishTime := time.Duration(req.FinishTimeSeconds) * time.Second
	var (
		calc training.ZoneCalculation
		err  error
	)
	if req.Distance != "" {
		calc, err = training.ZonesFromRace(req.Distance, finishTime)
	} else {
		calc, err = training.ZonesFromRaceKm(req.DistanceKm, finishTime)
	}
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.finishZoneCalculation(w, r, calc, req.Apply)
}

type zonesFromThresholdRequest struct {
	ThresholdPaceMinPerKm float64 `json:"threshold_pace_min_per_km"`
	Apply                 bool    `json:"apply"`
}

func (app *application) zonesFromThresholdPOST(w http.ResponseWriter, r *http.Request) {
	var req zonesFromThresholdRequest
	if !app.readJSON(w, r, &req) {
		return
	}

	calc, err := training.ZonesFromThresholdPace(req.ThresholdPaceMinPerKm)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.finishZoneCalculation(w, r, calc, req.Apply)
}

// finishZoneCalculation optionally persists a calculated zone set before
// returning it.
func (app *application) finishZoneCalculation(
	w http.ResponseWriter,
	r *http.Request,
	calc training.ZoneCalculation,
	apply bool,
) {
	if apply {
		if err := app.trainingService.ApplyZoneCalculation(r.Context(), calc); err != nil {
			app.domainError(w, r, err)
			return
		}
	}
	app.writeJSON(w, r, http.StatusOK, envelope{
		"calculation": renderZoneCalculation(calc),
		"applied":     apply,
	})
}
