package models

import "time"

// Event represents a recorded action in a user's activity feed.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`  // e.g. "hotel.created", "booking.completed"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
