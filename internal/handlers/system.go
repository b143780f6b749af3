package handlers

import (
	"net/http"

	"github.com/sarcolor/backend/internal/handlers/render"
)

func handleRoot() http.Handler {
	type response struct {
		Message string `json:"message"`
		Version string `json:"version"`
	}

	// Mounted with the "GET /{$}" pattern, so only the exact root path lands here
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, response{Message: "Welcome to the backend API", Version: "1.0.0"})
	})
}

func handleHealth() http.Handler {
	type response struct {
		Status string `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		render.JSON(w, response{Status: "healthy"})
	})
}
