package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mventura/bookstay-be/internal/auth"
	"github.com/mventura/bookstay-be/internal/models"
	"github.com/mventura/bookstay-be/internal/services"
	"github.com/rs/zerolog/log"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	service services.BookingServiceProvider
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service services.BookingServiceProvider) *BookingHandler {
	return &BookingHandler{service: service}
}

// BookingPayload defines the structure for booking requests.
type BookingPayload struct {
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	AdultCount int       `json:"adultCount"`
	ChildCount int       `json:"childCount"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
}

// Validate checks the payload before any store access.
func (p BookingPayload) Validate() []FieldError {
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
	if p.AdultCount < 1 {
		errs = append(errs, FieldError{Field: "adultCount", Message: "At least one adult is required"})
	}
	if p.ChildCount < 0 {
		errs = append(errs, FieldError{Field: "childCount", Message: "Child count must not be negative"})
	}
	if p.CheckIn.IsZero() || p.CheckOut.IsZero() {
		errs = append(errs, FieldError{Field: "checkIn", Message: "Check-in and check-out dates are required"})
	} else if !p.CheckOut.After(p.CheckIn) {
		errs = append(errs, FieldError{Field: "checkOut", Message: "Check-out must be after check-in"})
	}
	return errs
}

// Create books a stay at the hotel in the URL for the authenticated user.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	hotelID := chi.URLParam(r, "id")

	var payload BookingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if errs := payload.Validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	booking, err := h.service.CreateBooking(userID, hotelID, models.Booking{
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Email:      payload.Email,
		AdultCount: payload.AdultCount,
		ChildCount: payload.ChildCount,
		CheckIn:    payload.CheckIn,
		CheckOut:   payload.CheckOut,
	})
	if err != nil {
		if errors.Is(err, services.ErrHotelNotFound) {
			http.Error(w, "Hotel not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("hotel_id", hotelID).Msg("Error creating booking")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

// GetMine lists the caller's bookings.
func (h *BookingHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	bookings, err := h.service.GetBookingsByUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Error fetching bookings")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}
