package models

// DietMetrics is the per-user report built by the metrics aggregator.
type DietMetrics struct {
	CountMeals       int64 `json:"count_meals"`
	MealsInDiet      int64 `json:"meals_in_diet"`
	OffDietMeals     int64 `json:"off_diet_meal"`
	BestSequenceDiet int   `json:"best_sequence_diet"`
}
