package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dailydiet/internal/models"
	"dailydiet/internal/repositories"
	"dailydiet/internal/telemetry"
)

// MealInput is the full set of caller supplied meal fields.
type MealInput struct {
	Name        string
	Description string
	DietDate    time.Time
	IsOnTheDiet bool
}

// MealService is the meal registry: CRUD over meals scoped by session token.
type MealService struct {
	mealRepo  repositories.MealRepository
	sessions  *SessionService
	metrics   *MetricsService
	publisher EventPublisher
	logger    *slog.Logger
}

// NewMealService creates a new MealService. metrics and publisher may be nil.
func NewMealService(mealRepo repositories.MealRepository, sessions *SessionService, metrics *MetricsService, publisher EventPublisher, logger *slog.Logger) *MealService {
	return &MealService{
		mealRepo:  mealRepo,
		sessions:  sessions,
		metrics:   metrics,
		publisher: publisher,
		logger:    orDefault(logger),
	}
}

// Create stores a meal owned by sessionID. The user id is attached only if
// the session is linked to a user right now.
func (s *MealService) Create(ctx context.Context, sessionID string, in MealInput) (*models.Meal, error) {
	meal := &models.Meal{
		SessionID:   sessionID,
		Name:        in.Name,
		Description: in.Description,
		IsOnTheDiet: in.IsOnTheDiet,
		DateDiet:    models.FormatDietDate(in.DietDate),
	}

	userID, linked, err := s.sessions.LookupUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if linked {
		meal.UserID = &userID
	}

	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}

	s.afterMutation(ctx, EventMealCreated, meal)
	return meal, nil
}

// Delete removes the meal with the given id regardless of its session.
func (s *MealService) Delete(ctx context.Context, id string) error {
	meal, err := s.Show(ctx, id)
	if err != nil {
		return err
	}
	if err := s.mealRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMealNotFound
		}
		return fmt.Errorf("failed to delete meal %s: %w", id, err)
	}

	s.afterMutation(ctx, EventMealDeleted, meal)
	return nil
}

// Show returns the meal with the given id.
func (s *MealService) Show(ctx context.Context, id string) (*models.Meal, error) {
	meal, err := s.mealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return meal, nil
}

// Summary lists the meals owned by sessionID in storage order.
func (s *MealService) Summary(ctx context.Context, sessionID string) ([]models.MealSummary, error) {
	meals, err := s.mealRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	summary := make([]models.MealSummary, 0, len(meals))
	for _, meal := range meals {
		summary = append(summary, meal.Summary())
	}
	return summary, nil
}

// UpdateAll replaces every mutable field of the meal matching both id and
// sessionID and re-stamps the session token. No match is ErrMealNotFound.
func (s *MealService) UpdateAll(ctx context.Context, id, sessionID string, in MealInput) error {
	fields := repositories.MealFields{
		Name:        in.Name,
		Description: in.Description,
		DateDiet:    models.FormatDietDate(in.DietDate),
		IsOnTheDiet: in.IsOnTheDiet,
	}
	if err := s.mealRepo.UpdateScoped(ctx, id, sessionID, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMealNotFound
		}
		return fmt.Errorf("failed to update meal %s: %w", id, err)
	}

	meal, err := s.mealRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("failed to reload updated meal", "meal_id", id, "error", err)
		meal = &models.Meal{ID: id, SessionID: sessionID}
	}
	s.afterMutation(ctx, EventMealUpdated, meal)
	return nil
}

func (s *MealService) afterMutation(ctx context.Context, event string, meal *models.Meal) {
	userID := derefString(meal.UserID)
	if s.metrics != nil {
		s.metrics.Invalidate(ctx, userID)
	}
	telemetry.RecordMealOperation(event)
	publishEvent(s.logger, s.publisher, Event{
		Type:      event,
		MealID:    meal.ID,
		UserID:    userID,
		SessionID: meal.SessionID,
	})
}
