package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mventura/bookstay-be/internal/auth"
	"github.com/mventura/bookstay-be/internal/models"
	"github.com/mventura/bookstay-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHotelService implements services.HotelServiceProvider for testing.
type fakeHotelService struct {
	createCalls   int
	createdOwner  string
	createdHotel  models.Hotel
	createdImages []services.ImageUpload
	createErr     error

	listOwner string
	hotels    []models.Hotel

	searchDest   string
	searchPage   int
	searchResult models.HotelSearchResult
}

func (f *fakeHotelService) CreateHotel(ctx context.Context, ownerID string, hotel models.Hotel, images []services.ImageUpload) (models.Hotel, error) {
	f.createCalls++
	f.createdOwner = ownerID
	f.createdHotel = hotel
	f.createdImages = images
	if f.createErr != nil {
		return models.Hotel{}, f.createErr
	}
	hotel.ID = "h-new"
	hotel.UserID = ownerID
	return hotel, nil
}

func (f *fakeHotelService) UpdateHotel(ctx context.Context, id, ownerID string, hotel models.Hotel, images []services.ImageUpload) (models.Hotel, error) {
	hotel.ID = id
	hotel.UserID = ownerID
	return hotel, nil
}

func (f *fakeHotelService) GetHotelsByOwner(ownerID string) ([]models.Hotel, error) {
	f.listOwner = ownerID
	return f.hotels, nil
}

func (f *fakeHotelService) GetHotelForOwner(id, ownerID string) (models.Hotel, error) {
	return models.Hotel{}, services.ErrHotelNotFound
}

func (f *fakeHotelService) GetHotelByID(id string) (models.Hotel, error) {
	return models.Hotel{}, services.ErrHotelNotFound
}

func (f *fakeHotelService) SearchHotels(destination string, page, pageSize int) (models.HotelSearchResult, error) {
	f.searchDest = destination
	f.searchPage = page
	return f.searchResult, nil
}

// hotelForm builds a multipart submission in the shape the frontend sends.
func hotelForm(t *testing.T, overrides map[string]string, imagePayloads ...string) (*bytes.Buffer, string) {
	t.Helper()

	fields := map[string]string{
		"name":          "Test Hotel",
		"city":          "Test City",
		"country":       "Test Country",
		"description":   "This is a description for the Test Hotel",
		"type":          "Budget",
		"pricePerNight": "100",
		"starRating":    "3",
		"adultCount":    "2",
		"childCount":    "4",
	}
	for k, v := range overrides {
		fields[k] = v
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if v != "" {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	require.NoError(t, w.WriteField("facilities", "Free Wifi"))
	require.NoError(t, w.WriteField("facilities", "Parking"))
	for i, payload := range imagePayloads {
		fw, err := w.CreateFormFile("imageFiles", "img"+string(rune('1'+i))+".png")
		require.NoError(t, err)
		_, err = fw.Write([]byte(payload))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func authedHandler(t *testing.T, tokens *auth.TokenService, userID string, fn http.HandlerFunc) (http.Handler, *http.Cookie) {
	t.Helper()
	token, err := tokens.Issue(userID)
	require.NoError(t, err)
	return tokens.Middleware()(fn), &http.Cookie{Name: auth.CookieName, Value: token}
}

func TestCreateHotel_Success(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	svc := &fakeHotelService{}
	handler, cookie := authedHandler(t, tokens, "u1", NewHotelHandler(svc).Create)

	body, contentType := hotelForm(t, nil, "payload-1", "payload-2")
	req := httptest.NewRequest(http.MethodPost, "/api/my-hotels", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "u1", svc.createdOwner, "owner must come from the token, not the body")
	assert.Len(t, svc.createdImages, 2)
	assert.Equal(t, 100.0, svc.createdHotel.PricePerNight)
	assert.Equal(t, []string{"Free Wifi", "Parking"}, svc.createdHotel.Facilities)

	var created models.Hotel
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "h-new", created.ID)
}

func TestCreateHotel_ValidationRejectsBeforeService(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		images    []string
		field     string
	}{
		{name: "missing name", overrides: map[string]string{"name": ""}, images: []string{"a"}, field: "name"},
		{name: "missing city", overrides: map[string]string{"city": ""}, images: []string{"a"}, field: "city"},
		{name: "price not numeric", overrides: map[string]string{"pricePerNight": "cheap"}, images: []string{"a"}, field: "pricePerNight"},
		{name: "no images", overrides: nil, images: nil, field: "imageFiles"},
		{name: "too many images", overrides: nil, images: []string{"a", "b", "c", "d", "e", "f", "g"}, field: "imageFiles"},
	}

	tokens := auth.NewTokenService("test-secret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeHotelService{}
			handler, cookie := authedHandler(t, tokens, "u1", NewHotelHandler(svc).Create)

			body, contentType := hotelForm(t, tt.overrides, tt.images...)
			req := httptest.NewRequest(http.MethodPost, "/api/my-hotels", body)
			req.Header.Set("Content-Type", contentType)
			req.AddCookie(cookie)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.field)
			assert.Zero(t, svc.createCalls, "no upload may be attempted on invalid input")
		})
	}
}

func TestCreateHotel_RequiresAuth(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	svc := &fakeHotelService{}
	handler := tokens.Middleware()(http.HandlerFunc(NewHotelHandler(svc).Create))

	body, contentType := hotelForm(t, nil, "a")
	req := httptest.NewRequest(http.MethodPost, "/api/my-hotels", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.createCalls)
}

func TestCreateHotel_UploadFailureIsGeneric(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	svc := &fakeHotelService{createErr: assert.AnError}
	handler, cookie := authedHandler(t, tokens, "u1", NewHotelHandler(svc).Create)

	body, contentType := hotelForm(t, nil, "a")
	req := httptest.NewRequest(http.MethodPost, "/api/my-hotels", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error(), "internals must not leak")
}

func TestGetMine_FiltersByTokenOwner(t *testing.T) {
	tokens := auth.NewTokenService("test-secret")
	svc := &fakeHotelService{hotels: []models.Hotel{{ID: "h1", UserID: "u1"}}}
	handler, cookie := authedHandler(t, tokens, "u1", NewHotelHandler(svc).GetMine)

	req := httptest.NewRequest(http.MethodGet, "/api/my-hotels", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", svc.listOwner, "listing must filter on the authenticated user id")

	var hotels []models.Hotel
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&hotels))
	require.Len(t, hotels, 1)
	assert.Equal(t, "h1", hotels[0].ID)
}

func TestSearch(t *testing.T) {
	svc := &fakeHotelService{searchResult: models.HotelSearchResult{
		Data:       []models.Hotel{{ID: "h1", City: "Dublin"}},
		Pagination: models.PaginationInfo{Total: 1, Page: 2, Pages: 1},
	}}
	h := NewHotelHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/hotels/search?destination=Dublin&page=2", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dublin", svc.searchDest)
	assert.Equal(t, 2, svc.searchPage)

	var result models.HotelSearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.Len(t, result.Data, 1)
}

func TestSearch_DefaultsPage(t *testing.T) {
	svc := &fakeHotelService{}
	h := NewHotelHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/hotels/search?destination=Dublin", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.searchPage)
}
