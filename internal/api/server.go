package api

import (
	"encoding/json"
	"net/http"

	"github.com/lucasmn/memorly/internal/db"
	"github.com/lucasmn/memorly/internal/errors"
	"github.com/lucasmn/memorly/internal/logger"
	"github.com/lucasmn/memorly/internal/services"
)

type Server struct {
	DB              *db.DB
	UserService     services.UserService
	SessionService  services.SessionService
	PracticeService services.PracticeService
	ProgressService services.ProgressService
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}
