package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mventura/bookstay-be/internal/models"
	"github.com/mventura/bookstay-be/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	// MaxImagesPerHotel bounds the hosted image list of a single hotel.
	MaxImagesPerHotel = 6
	// MaxImageSize bounds a single uploaded file.
	MaxImageSize = 5 * 1024 * 1024
)

// ErrHotelNotFound is returned when a hotel does not exist or is not
// visible to the caller.
var ErrHotelNotFound = errors.New("hotel not found")

// ImageUpload is a raw image payload held in request memory until it is
// replaced by a durable URL.
type ImageUpload struct {
	ContentType string
	Data        []byte
}

// HotelServiceProvider defines the interface for hotel services.
type HotelServiceProvider interface {
	CreateHotel(ctx context.Context, ownerID string, hotel models.Hotel, images []ImageUpload) (models.Hotel, error)
	UpdateHotel(ctx context.Context, id, ownerID string, hotel models.Hotel, images []ImageUpload) (models.Hotel, error)
	GetHotelsByOwner(ownerID string) ([]models.Hotel, error)
	GetHotelForOwner(id, ownerID string) (models.Hotel, error)
	GetHotelByID(id string) (models.Hotel, error)
	SearchHotels(destination string, page, pageSize int) (models.HotelSearchResult, error)
}

// HotelService coordinates image upload with hotel record persistence.
type HotelService struct {
	db       *sql.DB
	uploader storage.Uploader
	events   EventServiceProvider
}

// NewHotelService creates a new HotelService.
func NewHotelService(db *sql.DB, uploader storage.Uploader, events EventServiceProvider) *HotelService {
	return &HotelService{db: db, uploader: uploader, events: events}
}

type uploadResult struct {
	index int
	url   string
	err   error
}

// uploadImages submits every image to object storage concurrently and waits
// for the full set. The returned URLs keep submission order. On the first
// failure the remaining in-flight uploads are abandoned, not cancelled, and
// nothing is compensated; already-stored objects are leaked by design and
// logged so operators can see them.
func (s *HotelService) uploadImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	results := make(chan uploadResult, len(images))
	for i, img := range images {
		go func(index int, img ImageUpload) {
			url, err := s.uploader.Upload(ctx, img.ContentType, img.Data)
			results <- uploadResult{index: index, url: url, err: err}
		}(i, img)
	}

	urls := make([]string, len(images))
	for range images {
		res := <-results
		if res.err != nil {
			log.Warn().Err(res.err).Int("image", res.index).
				Msg("Image upload failed; uploads already completed for this request are orphaned")
			return nil, fmt.Errorf("image upload: %w", res.err)
		}
		urls[res.index] = res.url
	}
	return urls, nil
}

// CreateHotel uploads the images, assembles the record and persists it as a
// single insert. If any upload fails no record is written.
func (s *HotelService) CreateHotel(ctx context.Context, ownerID string, hotel models.Hotel, images []ImageUpload) (models.Hotel, error) {
	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		return models.Hotel{}, err
	}

	hotel.ID = uuid.New().String()
	hotel.UserID = ownerID
	hotel.ImageURLs = urls
	hotel.LastUpdated = time.Now().UTC()

	if err := s.insertHotel(hotel); err != nil {
		return models.Hotel{}, fmt.Errorf("persist hotel: %w", err)
	}

	if err := s.events.RecordEvent(ownerID, "hotel.created", "info", fmt.Sprintf("Hotel %q created", hotel.Name)); err != nil {
		log.Warn().Err(err).Str("hotel_id", hotel.ID).Msg("Failed to record hotel creation event")
	}

	return hotel, nil
}

// UpdateHotel re-uploads any newly attached images, merges them with the
// retained URLs carried in hotel.ImageURLs and updates the record.
func (s *HotelService) UpdateHotel(ctx context.Context, id, ownerID string, hotel models.Hotel, images []ImageUpload) (models.Hotel, error) {
	existing, err := s.GetHotelForOwner(id, ownerID)
	if err != nil {
		return models.Hotel{}, err
	}

	if len(hotel.ImageURLs)+len(images) > MaxImagesPerHotel {
		return models.Hotel{}, fmt.Errorf("a hotel can have at most %d images", MaxImagesPerHotel)
	}

	var urls []string
	if len(images) > 0 {
		urls, err = s.uploadImages(ctx, images)
		if err != nil {
			return models.Hotel{}, err
		}
	}

	hotel.ID = existing.ID
	hotel.UserID = ownerID
	hotel.ImageURLs = append(hotel.ImageURLs, urls...)
	hotel.LastUpdated = time.Now().UTC()

	facilities, imageURLs, err := marshalListColumns(hotel)
	if err != nil {
		return models.Hotel{}, err
	}

	_, err = s.db.Exec(
		`UPDATE hotels SET name = ?, city = ?, country = ?, description = ?, type = ?,
		 adult_count = ?, child_count = ?, price_per_night = ?, star_rating = ?,
		 facilities_json = ?, image_urls_json = ?, last_updated = ? WHERE id = ?`,
		hotel.Name, hotel.City, hotel.Country, hotel.Description, hotel.Type,
		hotel.AdultCount, hotel.ChildCount, hotel.PricePerNight, hotel.StarRating,
		facilities, imageURLs, hotel.LastUpdated, hotel.ID,
	)
	if err != nil {
		return models.Hotel{}, fmt.Errorf("persist hotel: %w", err)
	}
	return hotel, nil
}

func (s *HotelService) insertHotel(hotel models.Hotel) error {
	facilities, imageURLs, err := marshalListColumns(hotel)
	if err != nil {
		return err
	}

	stmt, err := s.db.Prepare(
		`INSERT INTO hotels(id, user_id, name, city, country, description, type,
		 adult_count, child_count, price_per_night, star_rating,
		 facilities_json, image_urls_json, last_updated)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		hotel.ID, hotel.UserID, hotel.Name, hotel.City, hotel.Country, hotel.Description,
		hotel.Type, hotel.AdultCount, hotel.ChildCount, hotel.PricePerNight, hotel.StarRating,
		facilities, imageURLs, hotel.LastUpdated,
	)
	return err
}

func marshalListColumns(hotel models.Hotel) (facilities string, imageURLs string, err error) {
	f, err := json.Marshal(hotel.Facilities)
	if err != nil {
		return "", "", err
	}
	u, err := json.Marshal(hotel.ImageURLs)
	if err != nil {
		return "", "", err
	}
	return string(f), string(u), nil
}

const hotelColumns = `id, user_id, name, city, country, description, type,
	adult_count, child_count, price_per_night, star_rating,
	facilities_json, image_urls_json, last_updated`

func scanHotel(row interface{ Scan(...any) error }) (models.Hotel, error) {
	var hotel models.Hotel
	var facilities, imageURLs string
	err := row.Scan(
		&hotel.ID, &hotel.UserID, &hotel.Name, &hotel.City, &hotel.Country,
		&hotel.Description, &hotel.Type, &hotel.AdultCount, &hotel.ChildCount,
		&hotel.PricePerNight, &hotel.StarRating, &facilities, &imageURLs, &hotel.LastUpdated,
	)
	if err != nil {
		return models.Hotel{}, err
	}
	if err := json.Unmarshal([]byte(facilities), &hotel.Facilities); err != nil {
		return models.Hotel{}, err
	}
	if err := json.Unmarshal([]byte(imageURLs), &hotel.ImageURLs); err != nil {
		return models.Hotel{}, err
	}
	return hotel, nil
}

// GetHotelsByOwner returns the hotels owned by the given user only.
func (s *HotelService) GetHotelsByOwner(ownerID string) ([]models.Hotel, error) {
	rows, err := s.db.Query("SELECT "+hotelColumns+" FROM hotels WHERE user_id = ?", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []models.Hotel
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, hotel)
	}
	return hotels, rows.Err()
}

// GetHotelForOwner returns a single hotel when it belongs to the given user.
func (s *HotelService) GetHotelForOwner(id, ownerID string) (models.Hotel, error) {
	row := s.db.QueryRow("SELECT "+hotelColumns+" FROM hotels WHERE id = ? AND user_id = ?", id, ownerID)
	hotel, err := scanHotel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Hotel{}, ErrHotelNotFound
		}
		return models.Hotel{}, err
	}
	return hotel, nil
}

// GetHotelByID returns a single hotel for the public detail page.
func (s *HotelService) GetHotelByID(id string) (models.Hotel, error) {
	row := s.db.QueryRow("SELECT "+hotelColumns+" FROM hotels WHERE id = ?", id)
	hotel, err := scanHotel(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Hotel{}, ErrHotelNotFound
		}
		return models.Hotel{}, err
	}
	return hotel, nil
}

// SearchHotels returns a page of hotels whose city or country matches the
// destination, case-insensitively. An empty destination matches everything.
func (s *HotelService) SearchHotels(destination string, page, pageSize int) (models.HotelSearchResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 5
	}

	pattern := "%" + destination + "%"

	var total int
	err := s.db.QueryRow(
		"SELECT COUNT(1) FROM hotels WHERE city LIKE ? OR country LIKE ?",
		pattern, pattern,
	).Scan(&total)
	if err != nil {
		return models.HotelSearchResult{}, err
	}

	rows, err := s.db.Query(
		"SELECT "+hotelColumns+" FROM hotels WHERE city LIKE ? OR country LIKE ? LIMIT ? OFFSET ?",
		pattern, pattern, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return models.HotelSearchResult{}, err
	}
	defer rows.Close()

	hotels := []models.Hotel{}
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return models.HotelSearchResult{}, err
		}
		hotels = append(hotels, hotel)
	}
	if err := rows.Err(); err != nil {
		return models.HotelSearchResult{}, err
	}

	pages := (total + pageSize - 1) / pageSize
	return models.HotelSearchResult{
		Data:       hotels,
		Pagination: models.PaginationInfo{Total: total, Page: page, Pages: pages},
	}, nil
}
