package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailydiet/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMealRepository is a GORM implementation of MealRepository.
type GORMMealRepository struct {
	db *gorm.DB
}

// NewGORMMealRepository creates a new instance of GORMMealRepository.
func NewGORMMealRepository(db *gorm.DB) *GORMMealRepository {
	return &GORMMealRepository{
		db: db,
	}
}

// Create inserts a new meal, assigning an ID when none is set.
func (r *GORMMealRepository) Create(ctx context.Context, meal *models.Meal) error {
	if meal.ID == "" {
		meal.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(meal).Error; err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	return nil
}

// GetByID retrieves a single meal by its ID.
func (r *GORMMealRepository) GetByID(ctx context.Context, id string) (*models.Meal, error) {
	var meal models.Meal
	if err := r.db.WithContext(ctx).First(&meal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("meal with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get meal by ID %s: %w", id, err)
	}
	return &meal, nil
}

// Delete removes a meal by its ID.
func (r *GORMMealRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Meal{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete meal %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("meal with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// ListBySession returns every meal owned by sessionID.
func (r *GORMMealRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Meal, error) {
	meals := []models.Meal{}
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("failed to list meals for session: %w", err)
	}
	return meals, nil
}

// UpdateScoped replaces the meal's fields when both id and sessionID match.
func (r *GORMMealRepository) UpdateScoped(ctx context.Context, id, sessionID string, fields MealFields) error {
	res := r.db.WithContext(ctx).Model(&models.Meal{}).
		Where("id = ? AND session_id = ?", id, sessionID).
		Updates(map[string]any{
			"name":           fields.Name,
			"description":    fields.Description,
			"date_diet":      fields.DateDiet,
			"is_on_the_diet": fields.IsOnTheDiet,
			"session_id":     sessionID,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update meal %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("meal with ID %s for session update: %w", id, ErrNotFound)
	}
	return nil
}

// ListByUserChronological returns the user's meals ascending by diet date.
// Ties keep insertion order.
func (r *GORMMealRepository) ListByUserChronological(ctx context.Context, userID string) ([]models.Meal, error) {
	meals := []models.Meal{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date_diet ASC").
		Order("created_at ASC").
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meals for user %s: %w", userID, err)
	}
	return meals, nil
}

// CountByUser counts the user's meals and how many of them were in the diet.
func (r *GORMMealRepository) CountByUser(ctx context.Context, userID string) (MealCounts, error) {
	var counts MealCounts
	err := r.db.WithContext(ctx).Model(&models.Meal{}).
		Select("COUNT(*) AS count, COALESCE(SUM(CASE WHEN is_on_the_diet THEN 1 ELSE 0 END), 0) AS in_diet").
		Where("user_id = ?", userID).
		Scan(&counts).Error
	if err != nil {
		return MealCounts{}, fmt.Errorf("failed to count meals for user %s: %w", userID, err)
	}
	return counts, nil
}
