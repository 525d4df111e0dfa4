package handlers

import (
	"net/http"

	"github.com/isdelr/expense-tracker-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

// UserHandler handles registration, login and profile requests.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	res, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		respondError(w, r, err, "Failed to register user")
		return
	}

	hlog.FromRequest(r).Info().Str("user_id", res.Profile.ID).Msg("User registered")
	respondJSON(w, http.StatusCreated, res)
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if !decodeBody(w, r, &payload) {
		return
	}

	res, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, r, err, "Failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, res)
}

// Profile returns the authenticated user.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	user.PasswordHash = ""
	respondJSON(w, http.StatusOK, user)
}
