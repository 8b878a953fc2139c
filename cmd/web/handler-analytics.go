package main

import (
	"net/http"
	"strconv"
	"time"
)

func (app *application) weeklySummaryGET(w http.ResponseWriter, r *http.Request) {
	weekStart, ok := app.parseDateQuery(w, r, "week")
	if !ok {
		return
	}

	summary, err := app.trainingService.WeeklySummary(r.Context(), weekStart)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{
		"week_start":            summary.WeekStart.Format(time.DateOnly),
		"week_end":              summary.WeekEnd.Format(time.DateOnly),
		"actual_distance_km":    summary.ActualDistanceKm,
		"planned_distance_km":   summary.PlannedDistanceKm,
		"workouts_completed":    summary.WorkoutsCompleted,
		"workouts_scheduled":    summary.WorkoutsScheduled,
		"average_pace":          summary.AveragePace,
		"completion_percentage": summary.CompletionPercentage,
	})
}

func (app *application) weeklyTrendsGET(w http.ResponseWriter, r *http.Request) {
	weeks := 12
	if value := r.URL.Query().Get("weeks"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 {
			app.clientError(w, r, http.StatusBadRequest, "weeks must be a positive integer")
			return
		}
		weeks = parsed
	}
	var planID int64
	if value := r.URL.Query().Get("plan_id"); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed < 1 {
			app.clientError(w, r, http.StatusBadRequest, "plan_id must be a positive integer")
			return
		}
		planID = parsed
	}

	trends, err := app.trainingService.WeeklyTrends(r.Context(), planID, weeks)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	out := make([]envelope, 0, len(trends))
	for _, trend := range trends {
		out = append(out, envelope{
			"week_start":          trend.WeekStart.Format(time.DateOnly),
			"week_label":          trend.WeekLabel,
			"actual_distance_km":  trend.ActualDistanceKm,
			"planned_distance_km": trend.PlannedDistanceKm,
			"average_pace":        trend.AveragePace,
			"average_heart_rate":  trend.AverageHeartRate,
		})
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"trends": out})
}

func (app *application) zoneDistributionGET(w http.ResponseWriter, r *http.Request) {
	from, ok := app.parseDateQuery(w, r, "from")
	if !ok {
		return
	}
	to, ok := app.parseDateQuery(w, r, "to")
	if !ok {
		return
	}

	distribution, err := app.trainingService.ZoneDistribution(r.Context(), from, to)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	out := make([]envelope, 0, len(distribution))
	for _, bucket := range distribution {
		out = append(out, envelope{
			"zone_name":   bucket.ZoneName,
			"zone_color":  bucket.ZoneColor,
			"distance_km": bucket.DistanceKm,
			"percentage":  bucket.Percentage,
		})
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"distribution": out})
}
