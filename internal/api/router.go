// Package api wires the concierge HTTP routes and middleware.
package api

import (
	"net/http"

	"github.com/agentoven/concierge/internal/api/handlers"
	"github.com/agentoven/concierge/internal/api/middleware"
	"github.com/agentoven/concierge/internal/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	auth := middleware.NewAPIKeyAuth(cfg.Auth.APIKeys)

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.AuthorExtractor)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Author", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(auth.Middleware)
	r.Use(middleware.Telemetry)

	// Health & info
	r.Get("/health", h.Health)
	r.Get("/version", h.Info)

	r.Route("/api/v1", func(r chi.Router) {
		// Agent hierarchy
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.ListAgents)
			r.Post("/", h.CreateAgent)

			// Static route wins over {agentId} in chi.
			r.Get("/master", h.GetMaster)
			r.Patch("/master", h.UpdateMaster)

			r.Route("/{agentId}", func(r chi.Router) {
				r.Get("/", h.GetAgent)
				r.Patch("/", h.UpdateAgent)
				r.Get("/training", h.AgentTraining)
				r.Get("/system-prompt", h.SystemPrompt)
				r.Post("/redact", h.RedactProfile)
			})
		})

		// Training catalog
		r.Route("/training", func(r chi.Router) {
			r.Get("/", h.ListTraining)
			r.Post("/", h.CreateTraining)
			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", h.GetTraining)
				r.Patch("/", h.UpdateTraining)
				r.Get("/versions", h.TrainingVersions)
				r.Post("/publish", h.PublishTraining)
				r.Post("/archive", h.ArchiveTraining)
				r.Post("/duplicate", h.DuplicateTraining)
			})
		})
	})

	return r
}
