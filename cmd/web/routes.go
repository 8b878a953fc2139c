package main

import (
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	var (
		noAuth = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logRequest(next))
		}
		api = func(next http.Handler) http.Handler {
			return noAuth(app.authenticate(next))
		}
	)

	mux.Handle("GET /api/healthy", noAuth(http.HandlerFunc(app.healthyGET)))

	mux.Handle("POST /api/workouts", api(http.HandlerFunc(app.workoutsPOST)))
	mux.Handle("GET /api/workouts", api(http.HandlerFunc(app.workoutsGET)))
	mux.Handle("GET /api/workouts/unmatched", api(http.HandlerFunc(app.workoutsUnmatchedGET)))
	mux.Handle("GET /api/workouts/{id}", api(http.HandlerFunc(app.workoutGET)))
	mux.Handle("DELETE /api/workouts/{id}", api(http.HandlerFunc(app.workoutDELETE)))
	mux.Handle("GET /api/workouts/{id}/candidates", api(http.HandlerFunc(app.workoutCandidatesGET)))
	mux.Handle("POST /api/workouts/{id}/match", api(http.HandlerFunc(app.workoutMatchPOST)))
	mux.Handle("POST /api/workouts/{id}/unmatch", api(http.HandlerFunc(app.workoutUnmatchPOST)))
	mux.Handle("POST /api/workouts/automatch", api(http.HandlerFunc(app.workoutsAutomatchPOST)))

	mux.Handle("GET /api/zones", api(http.HandlerFunc(app.zonesGET)))
	mux.Handle("PUT /api/zones", api(http.HandlerFunc(app.zonesPUT)))
	mux.Handle("POST /api/zones/from-race", api(http.HandlerFunc(app.zonesFromRacePOST)))
	mux.Handle("POST /api/zones/from-threshold", api(http.HandlerFunc(app.zonesFromThresholdPOST)))

	mux.Handle("GET /api/load/summary", api(http.HandlerFunc(app.loadSummaryGET)))
	mux.Handle("GET /api/load/history", api(http.HandlerFunc(app.loadHistoryGET)))
	mux.Handle("POST /api/load/backfill", api(http.HandlerFunc(app.loadBackfillPOST)))

	mux.Handle("GET /api/records", api(http.HandlerFunc(app.recordsGET)))
	mux.Handle("GET /api/records/recent", api(http.HandlerFunc(app.recordsRecentGET)))
	mux.Handle("GET /api/records/{distance}/history", api(http.HandlerFunc(app.recordHistoryGET)))
	mux.Handle("POST /api/records", api(http.HandlerFunc(app.recordsPOST)))
	mux.Handle("DELETE /api/records/{id}", api(http.HandlerFunc(app.recordDELETE)))

	mux.Handle("GET /api/goals", api(http.HandlerFunc(app.goalsGET)))
	mux.Handle("POST /api/goals", api(http.HandlerFunc(app.goalsPOST)))
	mux.Handle("DELETE /api/goals/{id}", api(http.HandlerFunc(app.goalDELETE)))

	mux.Handle("GET /api/plans/generators", api(http.HandlerFunc(app.planGeneratorsGET)))
	mux.Handle("POST /api/plans/preview", api(http.HandlerFunc(app.planPreviewPOST)))
	mux.Handle("POST /api/plans", api(http.HandlerFunc(app.plansPOST)))
	mux.Handle("GET /api/plans", api(http.HandlerFunc(app.plansGET)))
	mux.Handle("GET /api/plans/{id}", api(http.HandlerFunc(app.planGET)))
	mux.Handle("DELETE /api/plans/{id}", api(http.HandlerFunc(app.planDELETE)))
	mux.Handle("GET /api/plans/{id}/adherence", api(http.HandlerFunc(app.planAdherenceGET)))

	mux.Handle("GET /api/calendar/{year}/{month}", api(http.HandlerFunc(app.calendarMonthGET)))
	mux.Handle("GET /api/calendar/day/{date}", api(http.HandlerFunc(app.calendarDayGET)))

	mux.Handle("GET /api/analytics/weekly-summary", api(http.HandlerFunc(app.weeklySummaryGET)))
	mux.Handle("GET /api/analytics/trends", api(http.HandlerFunc(app.weeklyTrendsGET)))
	mux.Handle("GET /api/analytics/zone-distribution", api(http.HandlerFunc(app.zoneDistributionGET)))

	mux.Handle("GET /api/settings", api(http.HandlerFunc(app.settingsGET)))
	mux.Handle("PUT /api/settings", api(http.HandlerFunc(app.settingsPUT)))

	return mux
}
