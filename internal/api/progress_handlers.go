package api

import (
	"net/http"
)

func (s *Server) handleProgressSummary(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	summary, err := s.ProgressService.Summary(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleProgressTracker(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	tracker, err := s.ProgressService.Tracker(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, tracker)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	streak, err := s.ProgressService.Streak(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, streak)
}
