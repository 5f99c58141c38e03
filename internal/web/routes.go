package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/shubhamdhabu/trace-rescue/internal/web/handlers"
	"github.com/shubhamdhabu/trace-rescue/internal/web/middleware"
)

func (s *Server) setupRoutes() {
	authCfg := &s.deps.Config.Auth
	secret := []byte(authCfg.JWTSecret)

	authHandler := handlers.NewAuthHandler(s.deps.UserRepo, authCfg)
	casesHandler := handlers.NewCasesHandler(s.deps.CaseStore)
	statsHandler := handlers.NewStatsHandler(s.deps.CaseStore)
	searchHandler := handlers.NewSearchHandler(s.deps.CaseStore, s.deps.Manager, s.deps.Orchestrator)
	uploadHandler := handlers.NewUploadHandler(s.deps.BlobStore, &s.deps.Config.Blob)

	// Health check (no auth required)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// All other routes require authentication
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(secret))

			r.Get("/auth/status", authHandler.Status)

			// Cases
			r.Get("/cases", casesHandler.List)
			r.Post("/cases", casesHandler.Create)
			r.Get("/cases/{id}", casesHandler.Get)
			r.Put("/cases/{id}/status", casesHandler.UpdateStatus)
			r.Put("/cases/{id}/visibility", casesHandler.UpdateVisibility)

			// Dashboard stats
			r.Get("/stats", statsHandler.Get)

			// Recognition search (long-running)
			r.Post("/search", searchHandler.Start)
			r.Get("/search/{sessionId}", searchHandler.Status)
			r.Get("/search/{sessionId}/events", searchHandler.Events)
			r.Delete("/search/{sessionId}", searchHandler.Cancel)

			// Media uploads
			r.Post("/upload/photo", uploadHandler.UploadPhoto)
			r.Post("/upload/footage", uploadHandler.UploadFootage)
		})
	})
}
