package services_test

import (
	"context"
	"testing"
	"time"

	"dailydiet/internal/models"
	"dailydiet/internal/repositories"
	"dailydiet/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flags(values ...bool) []models.Meal {
	meals := make([]models.Meal, len(values))
	for i, v := range values {
		meals[i] = models.Meal{IsOnTheDiet: v}
	}
	return meals
}

func TestLongestInDietRun(t *testing.T) {
	tests := []struct {
		name  string
		meals []models.Meal
		want  int
	}{
		{"mixed", flags(true, true, false, true, true, true), 3},
		{"empty", nil, 0},
		{"all in diet", flags(true, true, true, true, true), 5},
		{"all off diet", flags(false, false, false), 0},
		{"streak at start", flags(true, true, true, false, true), 3},
		{"single", flags(true), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.LongestInDietRun(tt.meals))
		})
	}
}

func TestStreakAnalyzer_UsesDietDateOrder(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockMealRepository()
	userID := "user-1"
	base := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	// Insertion order is T,F,T,T; by diet date it is T,T,T,F.
	inserts := []struct {
		day    int
		inDiet bool
	}{
		{0, true},
		{3, false},
		{1, true},
		{2, true},
	}
	for _, in := range inserts {
		require.NoError(t, repo.Create(ctx, &models.Meal{
			SessionID:   "s",
			UserID:      &userID,
			Name:        "meal",
			IsOnTheDiet: in.inDiet,
			DateDiet:    models.FormatDietDate(base.AddDate(0, 0, in.day*9)),
		}))
	}

	best, err := services.NewStreakAnalyzer(repo).LongestInDietStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, best)
}

func TestStreakAnalyzer_NoMeals(t *testing.T) {
	best, err := services.NewStreakAnalyzer(repositories.NewMockMealRepository()).LongestInDietStreak(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, best)
}
