// Package cache provides the Redis-backed metrics report cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dailydiet/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyMetrics = "dailydiet:metrics:"

// MetricsCache caches per-user metrics reports in Redis.
type MetricsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redisURL and verifies the connection.
func New(ctx context.Context, redisURL string, ttl time.Duration) (*MetricsCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return NewMetricsCache(rdb, ttl), nil
}

// NewMetricsCache wraps an existing client.
func NewMetricsCache(rdb *redis.Client, ttl time.Duration) *MetricsCache {
	return &MetricsCache{rdb: rdb, ttl: ttl}
}

// Key returns the Redis key holding userID's report.
func Key(userID string) string {
	return keyMetrics + userID
}

// Get returns the cached report or nil if miss.
func (c *MetricsCache) Get(ctx context.Context, userID string) (*models.DietMetrics, error) {
	b, err := c.rdb.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var metrics models.DietMetrics
	if err := json.Unmarshal(b, &metrics); err != nil {
		return nil, fmt.Errorf("corrupt cached metrics for %s: %w", userID, err)
	}
	return &metrics, nil
}

// Set stores the report for the configured TTL.
func (c *MetricsCache) Set(ctx context.Context, userID string, metrics *models.DietMetrics) error {
	b, err := json.Marshal(metrics)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key(userID), b, c.ttl).Err()
}

// Invalidate removes userID's report.
func (c *MetricsCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, Key(userID)).Err()
}

// Ping checks Redis connectivity.
func (c *MetricsCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *MetricsCache) Close() error {
	return c.rdb.Close()
}
