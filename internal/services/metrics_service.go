package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dailydiet/internal/models"
	"dailydiet/internal/repositories"
	"dailydiet/internal/telemetry"

	"golang.org/x/sync/singleflight"
)

// MetricsCache stores computed reports per user. Get returns nil, nil on a
// miss.
type MetricsCache interface {
	Get(ctx context.Context, userID string) (*models.DietMetrics, error)
	Set(ctx context.Context, userID string, metrics *models.DietMetrics) error
	Invalidate(ctx context.Context, userID string) error
}

// MetricsService aggregates a user's meal counts and best streak.
type MetricsService struct {
	userRepo repositories.UserRepository
	mealRepo repositories.MealRepository
	streaks  *StreakAnalyzer
	cache    MetricsCache
	logger   *slog.Logger
	group    singleflight.Group

	// gens counts invalidations per user. A report whose computation
	// overlapped an invalidation is returned but not cached.
	mu   sync.Mutex
	gens map[string]uint64
}

// NewMetricsService creates a new MetricsService. cache may be nil.
func NewMetricsService(userRepo repositories.UserRepository, mealRepo repositories.MealRepository, cache MetricsCache, logger *slog.Logger) *MetricsService {
	return &MetricsService{
		userRepo: userRepo,
		mealRepo: mealRepo,
		streaks:  NewStreakAnalyzer(mealRepo),
		cache:    cache,
		logger:   orDefault(logger),
		gens:     make(map[string]uint64),
	}
}

// Metrics returns the report for userID or ErrUserNotFound. A user without
// meals gets an all-zero report.
func (s *MetricsService) Metrics(ctx context.Context, userID string) (*models.DietMetrics, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("metrics cache lookup failed", "user_id", userID, "error", err)
		} else if cached != nil {
			telemetry.RecordCacheLookup(true)
			return cached, nil
		}
		telemetry.RecordCacheLookup(false)
	}

	gen := s.generation(userID)
	v, err, _ := s.group.Do(userID, func() (interface{}, error) {
		return s.compute(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	report := *v.(*models.DietMetrics)

	if s.cache != nil && s.generation(userID) == gen {
		if err := s.cache.Set(ctx, userID, &report); err != nil {
			s.logger.Warn("failed to cache metrics", "user_id", userID, "error", err)
		}
	}
	return &report, nil
}

// Invalidate drops the cached report of userID and detaches any
// computation in flight. Empty ids are ignored.
func (s *MetricsService) Invalidate(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	s.mu.Lock()
	s.gens[userID]++
	s.mu.Unlock()
	s.group.Forget(userID)

	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate cached metrics", "user_id", userID, "error", err)
	}
}

func (s *MetricsService) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[userID]
}

func (s *MetricsService) compute(ctx context.Context, userID string) (*models.DietMetrics, error) {
	start := time.Now()
	defer func() { telemetry.ObserveMetricsComputation(time.Since(start)) }()

	counts, err := s.mealRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count meals: %w", err)
	}
	best, err := s.streaks.LongestInDietStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.DietMetrics{
		CountMeals:       counts.Count,
		MealsInDiet:      counts.InDiet,
		OffDietMeals:     counts.Count - counts.InDiet,
		BestSequenceDiet: best,
	}, nil
}
