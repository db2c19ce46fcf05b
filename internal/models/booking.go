package models

import "time"

// Booking status values.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a stay reserved by a user at a hotel.
type Booking struct {
	ID         string    `json:"id"`
	HotelID    string    `json:"hotelId"`
	UserID     string    `json:"userId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	AdultCount int       `json:"adultCount"`
	ChildCount int       `json:"childCount"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	TotalCost  float64   `json:"totalCost"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`

	// Denormalized hotel fields attached when listing a user's bookings.
	HotelName    string `json:"hotelName,omitempty"`
	HotelCity    string `json:"hotelCity,omitempty"`
	HotelCountry string `json:"hotelCountry,omitempty"`
}
