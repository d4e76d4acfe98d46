package handlers

import (
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"message":   "Server is running",
		"api":       "Gemini 2.5 Flash Image",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *App) NotFound(w http.ResponseWriter, r *http.Request) {
	a.fail(w, http.StatusNotFound, "Not found", "Endpoint does not exist", nil)
}
