package services

import (
	"encoding/json"
	"log/slog"
	"time"
)

// Routing keys of the diet events.
const (
	EventMealCreated = "meal.created"
	EventMealUpdated = "meal.updated"
	EventMealDeleted = "meal.deleted"
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
)

// EventPublisher ships a serialized event under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// Event is the message body published for every mutation.
type Event struct {
	Type       string    `json:"event"`
	MealID     string    `json:"meal_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publishEvent never fails the calling operation; problems are logged.
func publishEvent(logger *slog.Logger, publisher EventPublisher, event Event) {
	if publisher == nil {
		logger.Debug("event publisher not configured, skipping", "event", event.Type)
		return
	}
	event.OccurredAt = time.Now().UTC()
	body, err := json.Marshal(event)
	if err != nil {
		logger.Warn("failed to marshal event", "event", event.Type, "error", err)
		return
	}
	if err := publisher.Publish(event.Type, body); err != nil {
		logger.Warn("failed to publish event", "event", event.Type, "error", err)
		return
	}
	logger.Debug("published event", "event", event.Type, "meal_id", event.MealID, "user_id", event.UserID)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
