package repositories

import (
	"context"

	"dailydiet/internal/models"
)

// MealFields are the columns replaced together by a full meal update.
type MealFields struct {
	Name        string
	Description string
	DateDiet    string
	IsOnTheDiet bool
}

// MealCounts is the aggregate row behind a user's metrics report.
type MealCounts struct {
	Count  int64
	InDiet int64
}

// MealRepository defines the interface for meal data access.
type MealRepository interface {
	Create(ctx context.Context, meal *models.Meal) error
	GetByID(ctx context.Context, id string) (*models.Meal, error)
	Delete(ctx context.Context, id string) error
	// ListBySession returns the session's meals in storage order.
	ListBySession(ctx context.Context, sessionID string) ([]models.Meal, error)
	// UpdateScoped replaces fields on the row matching both id and sessionID
	// and re-stamps its session token.
	UpdateScoped(ctx context.Context, id, sessionID string, fields MealFields) error
	// ListByUserChronological returns the user's meals ordered by diet date.
	ListByUserChronological(ctx context.Context, userID string) ([]models.Meal, error)
	CountByUser(ctx context.Context, userID string) (MealCounts, error)
}
