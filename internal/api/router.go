package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Health and metrics (no auth required)
		r.Get("/health", s.handleHealth)
		r.Handle("/metrics", promhttp.Handler())

		// Auth endpoints (no auth required)
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		// Demo provisioning (no auth; creates its own account)
		r.Post("/seed/demo", s.handleSeedDemo)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/me", s.handleMe)

			r.Route("/sensors", func(r chi.Router) {
				r.Get("/", s.handleListSensors)
				r.Post("/", s.handleCreateSensor)
				r.Delete("/{id}", s.handleDeleteSensor)
			})

			r.Route("/readings", func(r chi.Router) {
				r.Get("/", s.handleListReadings)
				r.Post("/", s.handleIngestReadings)
			})

			r.Get("/anomalies", s.handleListAnomalies)
			r.Get("/alerts/recent", s.handleRecentAlerts)
			r.Get("/rooms/summary", s.handleRoomsSummary)

			r.Post("/model/train", s.handleTrainModel)

			r.Route("/diagnostics", func(r chi.Router) {
				r.Post("/safety-check", s.handleSafetyCheck)
				r.Get("/report", s.handleReport)
				r.Get("/sample", s.handleSampleSeries)
			})

			r.Post("/actions/shutdown", s.handleShutdown)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
