package main

import (
	"net/http"
	"strconv"
	"time"
)

func (app *application) calendarMonthGET(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 {
		http.NotFound(w, r)
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		http.NotFound(w, r)
		return
	}

	weeks, err := app.trainingService.MonthCalendar(r.Context(), year, time.Month(month))
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{
		"year":  year,
		"month": month,
		"weeks": renderCalendarWeeks(weeks),
	})
}

func (app *application) calendarDayGET(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	day, err := app.trainingService.DayCalendar(r.Context(), date)
	if err != nil {
		app.domainError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"day": renderCalendarDay(day)})
}
