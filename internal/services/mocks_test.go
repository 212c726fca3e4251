package services_test

import (
	"context"

	"dailydiet/internal/models"
	"dailydiet/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// MockMetricsCache is a mock implementation of services.MetricsCache
type MockMetricsCache struct {
	mock.Mock
}

func (m *MockMetricsCache) Get(ctx context.Context, userID string) (*models.DietMetrics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DietMetrics), args.Error(1)
}

func (m *MockMetricsCache) Set(ctx context.Context, userID string, metrics *models.DietMetrics) error {
	args := m.Called(ctx, userID, metrics)
	return args.Error(0)
}

func (m *MockMetricsCache) Invalidate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockMealRepository is a mock implementation of repositories.MealRepository
type MockMealRepository struct {
	mock.Mock
}

func (m *MockMealRepository) Create(ctx context.Context, meal *models.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockMealRepository) GetByID(ctx context.Context, id string) (*models.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockMealRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMealRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Meal, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealRepository) UpdateScoped(ctx context.Context, id, sessionID string, fields repositories.MealFields) error {
	args := m.Called(ctx, id, sessionID, fields)
	return args.Error(0)
}

func (m *MockMealRepository) ListByUserChronological(ctx context.Context, userID string) ([]models.Meal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealRepository) CountByUser(ctx context.Context, userID string) (repositories.MealCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(repositories.MealCounts), args.Error(1)
}
