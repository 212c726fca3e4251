package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dailydiet/internal/models"

	"github.com/google/uuid"
)

// MockMealRepository is an in-memory implementation of MealRepository that
// keeps insertion order.
type MockMealRepository struct {
	meals []models.Meal
	mu    sync.RWMutex
}

// NewMockMealRepository creates a new instance of MockMealRepository.
func NewMockMealRepository() *MockMealRepository {
	return &MockMealRepository{}
}

// Create adds a new meal.
func (r *MockMealRepository) Create(_ context.Context, meal *models.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if meal.ID == "" {
		meal.ID = uuid.New().String()
	}
	meal.CreatedAt = time.Now()
	meal.UpdatedAt = meal.CreatedAt
	r.meals = append(r.meals, *meal)
	return nil
}

// GetByID returns a meal by its ID.
func (r *MockMealRepository) GetByID(_ context.Context, id string) (*models.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(id); i >= 0 {
		meal := r.meals[i]
		return &meal, nil
	}
	return nil, fmt.Errorf("meal with ID %s: %w", id, ErrNotFound)
}

// Delete removes a meal by its ID.
func (r *MockMealRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("meal with ID %s: %w", id, ErrNotFound)
	}
	r.meals = append(r.meals[:i], r.meals[i+1:]...)
	return nil
}

// ListBySession returns the session's meals in insertion order.
func (r *MockMealRepository) ListBySession(_ context.Context, sessionID string) ([]models.Meal, error) {
	return r.filter(func(m models.Meal) bool { return m.SessionID == sessionID }), nil
}

// UpdateScoped replaces the fields of the meal matching id and sessionID.
func (r *MockMealRepository) UpdateScoped(_ context.Context, id, sessionID string, fields MealFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 || r.meals[i].SessionID != sessionID {
		return fmt.Errorf("meal with ID %s in session %s: %w", id, sessionID, ErrNotFound)
	}
	m := &r.meals[i]
	m.Name = fields.Name
	m.Description = fields.Description
	m.DateDiet = fields.DateDiet
	m.IsOnTheDiet = fields.IsOnTheDiet
	m.SessionID = sessionID
	m.UpdatedAt = time.Now()
	return nil
}

// ListByUserChronological returns the user's meals sorted by diet date.
func (r *MockMealRepository) ListByUserChronological(_ context.Context, userID string) ([]models.Meal, error) {
	meals := r.filter(func(m models.Meal) bool { return m.UserID != nil && *m.UserID == userID })
	sort.SliceStable(meals, func(i, j int) bool { return meals[i].DateDiet < meals[j].DateDiet })
	return meals, nil
}

// CountByUser returns the total and in-diet meal counts of userID.
func (r *MockMealRepository) CountByUser(ctx context.Context, userID string) (MealCounts, error) {
	meals, _ := r.ListByUserChronological(ctx, userID)
	var counts MealCounts
	for _, m := range meals {
		counts.Count++
		if m.IsOnTheDiet {
			counts.InDiet++
		}
	}
	return counts, nil
}

func (r *MockMealRepository) index(id string) int {
	for i, m := range r.meals {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (r *MockMealRepository) filter(keep func(models.Meal) bool) []models.Meal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meals := make([]models.Meal, 0)
	for _, m := range r.meals {
		if keep(m) {
			meals = append(meals, m)
		}
	}
	return meals
}
