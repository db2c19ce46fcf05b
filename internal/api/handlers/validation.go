package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// writeFieldErrors reports validation failures as a structured list. These
// are always emitted before any external call is made.
func writeFieldErrors(w http.ResponseWriter, errs []FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{"message": errs})
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}
