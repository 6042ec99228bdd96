package api

import (
	"net/http"
	"strconv"

	"github.com/lucasmn/memorly/internal/errors"
	"github.com/lucasmn/memorly/internal/services"
)

type practiceResultRequest struct {
	// Duration accepts a number of seconds or an "MM:SS" string.
	Duration       any      `json:"duration"`
	Accuracy       *float64 `json:"accuracy"`
	WordsRecalled  *int     `json:"words_recalled"`
	PromptsUsed    *int     `json:"prompts_used"`
	ImprovementTip *string  `json:"improvement_tip"`
}

func (s *Server) handleStartPractice(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.PracticeService.StartPractice(r.Context(), user.ID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleSavePracticeResult(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req practiceResultRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	input := services.PracticeResultInput{
		Accuracy:       req.Accuracy,
		WordsRecalled:  req.WordsRecalled,
		PromptsUsed:    req.PromptsUsed,
		ImprovementTip: req.ImprovementTip,
	}
	switch v := req.Duration.(type) {
	case nil:
	case string:
		input.Duration = &v
	case float64:
		raw := strconv.Itoa(int(v))
		input.Duration = &raw
	default:
		handleError(w, r, errors.NewBadRequestError("duration must be a number of seconds or an MM:SS string"))
		return
	}

	practice, err := s.PracticeService.SaveResult(r.Context(), user.ID, id, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, practice)
}

func (s *Server) handleListPractices(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	perPage := 25
	if pp, err := strconv.Atoi(q.Get("per_page")); err == nil && pp > 0 && pp <= 100 {
		perPage = pp
	}

	practices, total, err := s.PracticeService.ListForSession(r.Context(), user.ID, id, perPage, (page-1)*perPage)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"practices":   practices,
		"page":        page,
		"per_page":    perPage,
		"total_count": total,
	})
}
