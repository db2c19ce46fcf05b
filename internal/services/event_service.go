package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/mventura/bookstay-be/internal/models"
)

// EventServiceProvider defines the interface for activity event services.
type EventServiceProvider interface {
	RecordEvent(userID, eventType, level, message string) error
	GetRecentEvents(userID string, limit int) ([]models.Event, error)
}

// EventService records notable actions to a per-user activity feed.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// RecordEvent logs a new event to the database.
func (s *EventService) RecordEvent(userID, eventType, level, message string) error {
	event := models.Event{
		ID:      uuid.New().String(),
		UserID:  userID,
		Type:    eventType,
		Level:   level,
		Message: message,
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, user_id, type, level, message) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(event.ID, event.UserID, event.Type, event.Level, event.Message)
	return err
}

// GetRecentEvents retrieves a user's most recent events.
func (s *EventService) GetRecentEvents(userID string, limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, user_id, type, level, message, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC LIMIT ?", userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.UserID, &event.Type, &event.Level, &event.Message, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
