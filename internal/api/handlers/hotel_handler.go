package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mventura/bookstay-be/internal/auth"
	"github.com/mventura/bookstay-be/internal/models"
	"github.com/mventura/bookstay-be/internal/services"
	"github.com/rs/zerolog/log"
)

// maxMultipartMemory bounds how much of a submission is buffered in memory
// before spilling to temp files.
const maxMultipartMemory = 32 << 20

// HotelHandler handles HTTP requests related to hotels.
type HotelHandler struct {
	service services.HotelServiceProvider
}

// NewHotelHandler creates a new HotelHandler.
func NewHotelHandler(service services.HotelServiceProvider) *HotelHandler {
	return &HotelHandler{service: service}
}

// HotelFormPayload is the raw multipart submission for creating or updating
// a hotel. Values stay untyped strings until Validate turns them into a
// models.Hotel or a list of field errors.
type HotelFormPayload struct {
	Name          string
	City          string
	Country       string
	Description   string
	Type          string
	PricePerNight string
	StarRating    string
	AdultCount    string
	ChildCount    string
	Facilities    []string
	ImageURLs     []string // URLs retained across an update
}

func hotelFormFromRequest(r *http.Request) HotelFormPayload {
	return HotelFormPayload{
		Name:          r.FormValue("name"),
		City:          r.FormValue("city"),
		Country:       r.FormValue("country"),
		Description:   r.FormValue("description"),
		Type:          r.FormValue("type"),
		PricePerNight: r.FormValue("pricePerNight"),
		StarRating:    r.FormValue("starRating"),
		AdultCount:    r.FormValue("adultCount"),
		ChildCount:    r.FormValue("childCount"),
		Facilities:    r.MultipartForm.Value["facilities"],
		ImageURLs:     r.MultipartForm.Value["imageUrls"],
	}
}

// Validate is a pure function from the raw form to a typed hotel or a list
// of field errors. It runs before any upload or store access.
func (p HotelFormPayload) Validate() (models.Hotel, []FieldError) {
	var errs []FieldError
	require := func(field, value, message string) {
		if value == "" {
			errs = append(errs, FieldError{Field: field, Message: message})
		}
	}
	require("name", p.Name, "Name is required")
	require("city", p.City, "City is required")
	require("country", p.Country, "Country is required")
	require("description", p.Description, "Description is required")
	require("type", p.Type, "Hotel type is required")

	price, err := strconv.ParseFloat(p.PricePerNight, 64)
	if err != nil || price <= 0 {
		errs = append(errs, FieldError{Field: "pricePerNight", Message: "Price per night is required and must be a number"})
	}
	stars, err := strconv.Atoi(p.StarRating)
	if err != nil || stars < 1 || stars > 5 {
		errs = append(errs, FieldError{Field: "starRating", Message: "Star rating must be between 1 and 5"})
	}
	adults, err := strconv.Atoi(p.AdultCount)
	if err != nil || adults < 1 {
		errs = append(errs, FieldError{Field: "adultCount", Message: "Adult count is required and must be a number"})
	}
	children := 0
	if p.ChildCount != "" {
		children, err = strconv.Atoi(p.ChildCount)
		if err != nil || children < 0 {
			errs = append(errs, FieldError{Field: "childCount", Message: "Child count must be a number"})
		}
	}
	if len(p.Facilities) == 0 {
		errs = append(errs, FieldError{Field: "facilities", Message: "Facilities are required"})
	}

	if len(errs) > 0 {
		return models.Hotel{}, errs
	}

	return models.Hotel{
		Name:          p.Name,
		City:          p.City,
		Country:       p.Country,
		Description:   p.Description,
		Type:          p.Type,
		PricePerNight: price,
		StarRating:    stars,
		AdultCount:    adults,
		ChildCount:    children,
		Facilities:    p.Facilities,
		ImageURLs:     p.ImageURLs,
	}, nil
}

// validateImageFiles checks count and size limits against the file headers,
// before a single byte is read or uploaded.
func validateImageFiles(files []*multipart.FileHeader, required bool) []FieldError {
	var errs []FieldError
	if required && len(files) == 0 {
		errs = append(errs, FieldError{Field: "imageFiles", Message: "At least one image is required"})
	}
	if len(files) > services.MaxImagesPerHotel {
		errs = append(errs, FieldError{Field: "imageFiles", Message: "At most 6 images can be uploaded"})
	}
	for _, f := range files {
		if f.Size > services.MaxImageSize {
			errs = append(errs, FieldError{Field: "imageFiles", Message: "Each image must be 5MB or smaller"})
			break
		}
	}
	return errs
}

// readImageFiles pulls the validated files into memory. They live there
// only until the uploader replaces them with durable URLs.
func readImageFiles(files []*multipart.FileHeader) ([]services.ImageUpload, error) {
	images := make([]services.ImageUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		images = append(images, services.ImageUpload{
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}

// Create handles the authenticated hotel creation workflow.
func (h *HotelHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	payload := hotelFormFromRequest(r)
	files := r.MultipartForm.File["imageFiles"]

	hotel, errs := payload.Validate()
	errs = append(errs, validateImageFiles(files, true)...)
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	images, err := readImageFiles(files)
	if err != nil {
		http.Error(w, "Unable to read uploaded files", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateHotel(r.Context(), userID, hotel, images)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Error creating hotel")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// Update handles re-saving an owned hotel, optionally with new images.
func (h *HotelHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	payload := hotelFormFromRequest(r)
	files := r.MultipartForm.File["imageFiles"]

	hotel, errs := payload.Validate()
	errs = append(errs, validateImageFiles(files, false)...)
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	images, err := readImageFiles(files)
	if err != nil {
		http.Error(w, "Unable to read uploaded files", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateHotel(r.Context(), id, userID, hotel, images)
	if err != nil {
		if errors.Is(err, services.ErrHotelNotFound) {
			http.Error(w, "Hotel not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("hotel_id", id).Msg("Error updating hotel")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// GetMine lists the hotels owned by the caller. The filter is always the
// authenticated user id, never anything from the request.
func (h *HotelHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	hotels, err := h.service.GetHotelsByOwner(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Error fetching hotels")
		http.Error(w, "Error fetching hotels", http.StatusInternalServerError)
		return
	}
	if hotels == nil {
		hotels = []models.Hotel{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hotels)
}

// GetMineByID fetches one owned hotel.
func (h *HotelHandler) GetMineByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	hotel, err := h.service.GetHotelForOwner(id, userID)
	if err != nil {
		if errors.Is(err, services.ErrHotelNotFound) {
			http.Error(w, "Hotel not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("hotel_id", id).Msg("Error fetching hotel")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hotel)
}

// Search returns a page of hotels matching the destination.
func (h *HotelHandler) Search(w http.ResponseWriter, r *http.Request) {
	destination := r.URL.Query().Get("destination")
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.service.SearchHotels(destination, page, 5)
	if err != nil {
		log.Error().Err(err).Str("destination", destination).Msg("Error searching hotels")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetPublic serves the public hotel detail page.
func (h *HotelHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	hotel, err := h.service.GetHotelByID(id)
	if err != nil {
		if errors.Is(err, services.ErrHotelNotFound) {
			http.Error(w, "Hotel not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("hotel_id", id).Msg("Error fetching hotel")
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hotel)
}
