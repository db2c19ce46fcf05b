package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mventura/bookstay-be/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrInvalidStayDates is returned when checkout is not after checkin.
var ErrInvalidStayDates = errors.New("check-out must be after check-in")

// BookingServiceProvider defines the interface for booking services.
type BookingServiceProvider interface {
	CreateBooking(userID, hotelID string, booking models.Booking) (models.Booking, error)
	GetBookingsByUser(userID string) ([]models.Booking, error)
	CompleteElapsedBookings(now time.Time) (int, error)
}

// BookingService provides business logic for hotel bookings.
type BookingService struct {
	db     *sql.DB
	hotels HotelServiceProvider
	events EventServiceProvider
}

// NewBookingService creates a new BookingService.
func NewBookingService(db *sql.DB, hotels HotelServiceProvider, events EventServiceProvider) *BookingService {
	return &BookingService{db: db, hotels: hotels, events: events}
}

// nights rounds a stay up to whole nights, minimum one.
func nights(checkIn, checkOut time.Time) int {
	n := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if n < 1 {
		n = 1
	}
	return n
}

// CreateBooking reserves a stay. The total cost is computed server-side from
// the hotel's current price per night, never taken from the request.
func (s *BookingService) CreateBooking(userID, hotelID string, booking models.Booking) (models.Booking, error) {
	if !booking.CheckOut.After(booking.CheckIn) {
		return models.Booking{}, ErrInvalidStayDates
	}

	hotel, err := s.hotels.GetHotelByID(hotelID)
	if err != nil {
		return models.Booking{}, err
	}

	booking.ID = uuid.New().String()
	booking.HotelID = hotel.ID
	booking.UserID = userID
	booking.TotalCost = float64(nights(booking.CheckIn, booking.CheckOut)) * hotel.PricePerNight
	booking.Status = models.BookingStatusConfirmed

	stmt, err := s.db.Prepare(
		`INSERT INTO bookings(id, hotel_id, user_id, first_name, last_name, email,
		 adult_count, child_count, check_in, check_out, total_cost, status)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Booking{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		booking.ID, booking.HotelID, booking.UserID, booking.FirstName, booking.LastName,
		booking.Email, booking.AdultCount, booking.ChildCount, booking.CheckIn,
		booking.CheckOut, booking.TotalCost, booking.Status,
	)
	if err != nil {
		return models.Booking{}, err
	}

	if err := s.events.RecordEvent(userID, "booking.created", "info",
		fmt.Sprintf("Booked %q for %s to %s", hotel.Name,
			booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02"))); err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("Failed to record booking event")
	}

	return booking, nil
}

// GetBookingsByUser returns the caller's bookings joined with the hotel's
// display fields.
func (s *BookingService) GetBookingsByUser(userID string) ([]models.Booking, error) {
	rows, err := s.db.Query(
		`SELECT b.id, b.hotel_id, b.user_id, b.first_name, b.last_name, b.email,
		 b.adult_count, b.child_count, b.check_in, b.check_out, b.total_cost, b.status,
		 b.created_at, h.name, h.city, h.country
		 FROM bookings b JOIN hotels h ON h.id = b.hotel_id
		 WHERE b.user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID, &b.HotelID, &b.UserID, &b.FirstName, &b.LastName, &b.Email,
			&b.AdultCount, &b.ChildCount, &b.CheckIn, &b.CheckOut, &b.TotalCost,
			&b.Status, &b.CreatedAt, &b.HotelName, &b.HotelCity, &b.HotelCountry,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CompleteElapsedBookings marks confirmed bookings whose checkout has passed
// as completed and records an event per transition. Returns how many
// bookings were transitioned.
func (s *BookingService) CompleteElapsedBookings(now time.Time) (int, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id FROM bookings WHERE status = ? AND check_out < ?",
		models.BookingStatusConfirmed, now)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type elapsed struct{ id, userID string }
	var due []elapsed
	for rows.Next() {
		var e elapsed
		if err := rows.Scan(&e.id, &e.userID); err != nil {
			return 0, err
		}
		due = append(due, e)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, e := range due {
		_, err := s.db.Exec("UPDATE bookings SET status = ? WHERE id = ?",
			models.BookingStatusCompleted, e.id)
		if err != nil {
			return 0, err
		}
		if err := s.events.RecordEvent(e.userID, "booking.completed", "info",
			fmt.Sprintf("Stay completed for booking %s", e.id)); err != nil {
			log.Warn().Err(err).Str("booking_id", e.id).Msg("Failed to record completion event")
		}
	}
	return len(due), nil
}
