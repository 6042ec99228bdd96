package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lucasmn/memorly/internal/errors"
	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/models"
	"github.com/lucasmn/memorly/internal/services"
)

type createSessionRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Purpose     string `json:"purpose"`
	InputMethod string `json:"input_method"`
}

type updateSessionRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Purpose     *string `json:"purpose"`
	InputMethod *string `json:"input_method"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.SessionService.Create(r.Context(), user.ID, services.CreateSessionInput{
		Title:       req.Title,
		Content:     req.Content,
		Purpose:     req.Purpose,
		InputMethod: req.InputMethod,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())

	q := r.URL.Query()
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	perPage := 25
	switch q.Get("per_page") {
	case "10":
		perPage = 10
	case "25":
		perPage = 25
	case "50":
		perPage = 50
	case "100":
		perPage = 100
	}

	filter := models.SessionFilter{
		Search: q.Get("search"),
		SortBy: q.Get("sort_by"),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}

	items, total, err := s.SessionService.List(r.Context(), user.ID, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	log.Debug("listed %d sessions (page %d of %d)", len(items), page, totalPages)
	respondJSON(w, r, http.StatusOK, map[string]any{
		"sessions":    items,
		"page":        page,
		"per_page":    perPage,
		"total_pages": totalPages,
		"total_count": total,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	detail, err := s.SessionService.Get(r.Context(), user.ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, detail)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req updateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.SessionService.Update(r.Context(), user.ID, id, services.UpdateSessionInput{
		Title:       req.Title,
		Content:     req.Content,
		Purpose:     req.Purpose,
		InputMethod: req.InputMethod,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.SessionService.Delete(r.Context(), user.ID, id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusNoContent, nil)
}

func sessionIDParam(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid session id")
	}
	return id, nil
}
