package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mventura/bookstay-be/internal/auth"
	"github.com/mventura/bookstay-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles login, logout and token validation.
type AuthHandler struct {
	users         services.UserServiceProvider
	tokens        *auth.TokenService
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenService, secureCookies bool) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, secureCookies: secureCookies}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the payload before any lookup happens.
func (p LoginPayload) Validate() []FieldError {
	var errs []FieldError
	if !validEmail(p.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	}
	if len(p.Password) < 6 {
		errs = append(errs, FieldError{Field: "password", Message: "Password should be 6 or more characters"})
	}
	return errs
}

// Login handles user authentication and sets the identity cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if errs := payload.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	user, err := h.users.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// Same response whether the email is unknown or the password
			// is wrong.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		log.Error().Err(err).Msg("Login lookup failed")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, h.secureCookies))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"userId": user.ID})
}

// ValidateToken echoes the user id resolved by the auth middleware.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user id from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"userId": userID})
}

// Logout unconditionally overwrites the identity cookie with an expired one.
// Outstanding tokens stay cryptographically valid until natural expiry;
// there is no server-side revocation list.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ExpiredCookie(h.secureCookies))
	w.WriteHeader(http.StatusOK)
}
