package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{id}", s.handleGetUser)

		r.Route("/sessions", func(r chi.Router) {
			r.Use(s.userMiddleware)

			r.Post("/", s.handleCreateSession)
			r.Get("/", s.handleListSessions)
			r.Get("/streak", s.handleStreak)
			r.Get("/progress/summary", s.handleProgressSummary)
			r.Get("/progress/tracker", s.handleProgressTracker)

			r.Get("/{id}", s.handleGetSession)
			r.Patch("/{id}", s.handleUpdateSession)
			r.Delete("/{id}", s.handleDeleteSession)
			r.Post("/{id}/start", s.handleStartPractice)
			r.Post("/{id}/practice-result", s.handleSavePracticeResult)
			r.Get("/{id}/practices", s.handleListPractices)
		})
	})

	return r
}
