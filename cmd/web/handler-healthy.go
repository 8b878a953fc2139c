package main

import "net/http"

func (app *application) healthyGET(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, envelope{"status": "ok"})
}
