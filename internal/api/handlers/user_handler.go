package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mventura/bookstay-be/internal/auth"
	"github.com/mventura/bookstay-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	users         services.UserServiceProvider
	tokens        *auth.TokenService
	secureCookies bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, tokens *auth.TokenService, secureCookies bool) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, secureCookies: secureCookies}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate checks the payload before any store access.
func (p RegisterPayload) Validate() []FieldError {
	var errs []FieldError
	if p.FirstName == "" {
		errs = append(errs, FieldError{Field: "firstName", Message: "First name is required"})
	}
	if p.LastName == "" {
		errs = append(errs, FieldError{Field: "lastName", Message: "Last name is required"})
	}
	if !validEmail(p.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	}
	if len(p.Password) < 6 {
		errs = append(errs, FieldError{Field: "password", Message: "Password should be 6 or more characters"})
	}
	return errs
}

// Register creates the account and signs the new user in right away.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if errs := payload.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	user, err := h.users.CreateUser(payload.FirstName, payload.LastName, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "User already exists"})
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
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
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"userId": user.ID})
}

// GetMe retrieves the currently authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user id from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	user, err := h.users.GetUserByID(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("User from token not found in DB")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
