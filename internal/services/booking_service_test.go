package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mventura/bookstay-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHotels serves a single hotel by id.
type fakeHotels struct {
	hotel models.Hotel
}

func (f *fakeHotels) GetHotelByID(id string) (models.Hotel, error) {
	if id != f.hotel.ID {
		return models.Hotel{}, ErrHotelNotFound
	}
	return f.hotel, nil
}

func (f *fakeHotels) CreateHotel(ctx context.Context, ownerID string, hotel models.Hotel, images []ImageUpload) (models.Hotel, error) {
	return models.Hotel{}, nil
}

func (f *fakeHotels) UpdateHotel(ctx context.Context, id, ownerID string, hotel models.Hotel, images []ImageUpload) (models.Hotel, error) {
	return models.Hotel{}, nil
}

func (f *fakeHotels) GetHotelsByOwner(ownerID string) ([]models.Hotel, error) { return nil, nil }

func (f *fakeHotels) GetHotelForOwner(id, ownerID string) (models.Hotel, error) {
	return models.Hotel{}, nil
}

func (f *fakeHotels) SearchHotels(destination string, page, pageSize int) (models.HotelSearchResult, error) {
	return models.HotelSearchResult{}, nil
}

func setupBookingMock(t *testing.T) (*BookingService, sqlmock.Sqlmock, *fakeEvents, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	events := &fakeEvents{}
	hotels := &fakeHotels{hotel: models.Hotel{ID: "h1", Name: "Dublin Getaways", PricePerNight: 100}}
	service := NewBookingService(db, hotels, events)
	cleanup := func() { db.Close() }
	return service, mock, events, cleanup
}

func stay(nights int) (time.Time, time.Time) {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return checkIn, checkIn.AddDate(0, 0, nights)
}

func TestCreateBooking_CostIsNightsTimesPrice(t *testing.T) {
	service, mock, events, cleanup := setupBookingMock(t)
	defer cleanup()

	checkIn, checkOut := stay(3)

	mock.ExpectPrepare("INSERT INTO bookings").
		ExpectExec().
		WithArgs(
			sqlmock.AnyArg(), "h1", "u1", "Alice", "Smith", "alice@test.com",
			2, 0, checkIn, checkOut, 300.0, models.BookingStatusConfirmed,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	booking, err := service.CreateBooking("u1", "h1", models.Booking{
		FirstName:  "Alice",
		LastName:   "Smith",
		Email:      "alice@test.com",
		AdultCount: 2,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, booking.TotalCost)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, []string{"booking.created"}, events.recorded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_InvalidDates(t *testing.T) {
	service, _, _, cleanup := setupBookingMock(t)
	defer cleanup()

	checkIn, _ := stay(1)

	_, err := service.CreateBooking("u1", "h1", models.Booking{
		CheckIn:  checkIn,
		CheckOut: checkIn,
	})
	assert.ErrorIs(t, err, ErrInvalidStayDates)
}

func TestCreateBooking_UnknownHotel(t *testing.T) {
	service, _, _, cleanup := setupBookingMock(t)
	defer cleanup()

	checkIn, checkOut := stay(2)

	_, err := service.CreateBooking("u1", "missing", models.Booking{
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	assert.ErrorIs(t, err, ErrHotelNotFound)
}

func TestCompleteElapsedBookings(t *testing.T) {
	service, mock, events, cleanup := setupBookingMock(t)
	defer cleanup()

	now := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id FROM bookings WHERE status = ? AND check_out < ?")).
		WithArgs(models.BookingStatusConfirmed, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).
			AddRow("b1", "u1").
			AddRow("b2", "u2"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ? WHERE id = ?")).
		WithArgs(models.BookingStatusCompleted, "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ? WHERE id = ?")).
		WithArgs(models.BookingStatusCompleted, "b2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := service.CompleteElapsedBookings(now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"booking.completed", "booking.completed"}, events.recorded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteElapsedBookings_NothingDue(t *testing.T) {
	service, mock, events, cleanup := setupBookingMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id FROM bookings WHERE status = ? AND check_out < ?")).
		WithArgs(models.BookingStatusConfirmed, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

	n, err := service.CompleteElapsedBookings(now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, events.recorded)
}
