package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/SravanamCharan20/Bites/internal/auth"
	"github.com/SravanamCharan20/Bites/internal/models"
	"github.com/SravanamCharan20/Bites/internal/services"
)

// AuthHandler handles signup and signin.
type AuthHandler struct {
	service services.UserServiceProvider
	tokens  *auth.Manager
	events  services.EventServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.Manager, events services.EventServiceProvider) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, events: events}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Username string           `json:"username"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Location *models.Location `json:"location,omitempty"`
}

// SigninPayload defines the structure for login requests.
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles new user registration.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.CreateUser(payload.Username, payload.Email, payload.Password, payload.Location)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"message": "username, email, and password are required",
			})
		case errors.Is(err, services.ErrConflict):
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"success": false,
				"message": "Email is already registered",
			})
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			writeMessage(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	if h.events != nil {
		h.events.CreateEvent("user.signup", "info", "Welcome to Bites, "+user.Username+"!", &user.ID)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User created successfully",
	})
}

// Signin handles user authentication and token issuance. The issued token
// embeds the user's coarse location and is valid for seven days.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var payload SigninPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			writeMessage(w, http.StatusUnauthorized, "Wrong credentials")
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Signin failed")
			writeMessage(w, http.StatusInternalServerError, "Failed to sign in")
		}
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		writeMessage(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}
