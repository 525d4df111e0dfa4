package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/isdelr/expense-tracker-be/internal/auth"
	"github.com/isdelr/expense-tracker-be/internal/models"
	"github.com/isdelr/expense-tracker-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

// Ack is the body returned by delete operations.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorBody struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Message: message})
}

// respondError maps a service error to its HTTP status. Unclassified errors are
// logged and answered with fallback, never with the underlying cause.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, services.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, services.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, services.ErrConflict):
			status = http.StatusConflict
		}
		if status != http.StatusInternalServerError {
			hlog.FromRequest(r).Debug().Err(err).Int("status", status).Msg("Request rejected")
			respondMessage(w, status, svcErr.Message)
			return
		}
	}

	hlog.FromRequest(r).Error().Err(err).Msg(fallback)
	respondMessage(w, http.StatusInternalServerError, fallback)
}

// decodeBody reads a JSON request body into v, answering 400 on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("Invalid request body")
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// currentUser returns the user placed in the context by auth.JWTMiddleware.
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Not authorized")
	}
	return user, ok
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
