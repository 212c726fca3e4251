package services

import (
	"context"
	"fmt"

	"dailydiet/internal/models"
	"dailydiet/internal/repositories"
)

// LongestInDietRun scans meals once, in the given order, and returns the
// length of the longest run of consecutive in-diet meals.
func LongestInDietRun(meals []models.Meal) int {
	best, current := 0, 0
	for _, meal := range meals {
		if !meal.IsOnTheDiet {
			current = 0
			continue
		}
		current++
		if current > best {
			best = current
		}
	}
	return best
}

// StreakAnalyzer computes a user's best in-diet streak over their meal
// history ordered by diet date.
type StreakAnalyzer struct {
	mealRepo repositories.MealRepository
}

// NewStreakAnalyzer creates a new StreakAnalyzer.
func NewStreakAnalyzer(mealRepo repositories.MealRepository) *StreakAnalyzer {
	return &StreakAnalyzer{mealRepo: mealRepo}
}

// LongestInDietStreak returns the best streak for userID, 0 without meals.
func (a *StreakAnalyzer) LongestInDietStreak(ctx context.Context, userID string) (int, error) {
	meals, err := a.mealRepo.ListByUserChronological(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load meal history: %w", err)
	}
	return LongestInDietRun(meals), nil
}
