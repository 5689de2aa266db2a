package server

import (
	"encoding/json"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Landing page

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, "index.html", nil)
}

// Health Check

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":   "healthy",
		"calendar": "unauthorized",
	}

	if _, err := s.calendar.Authorize(r.Context()); err == nil {
		status["calendar"] = "authorized"
	}

	respondJSON(w, http.StatusOK, status)
}
