// Package cache holds the redis-backed read-through cache for derived
// title ratings.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{client: client, ttl: ttl}
}

func ratingKey(titleID int64) string {
	return fmt.Sprintf("title:%d:rating", titleID)
}

// Get returns the cached rating and whether the key was present.
func (c *RatingCache) Get(ctx context.Context, titleID int64) (float64, bool, error) {
	val, err := c.client.Get(ctx, ratingKey(titleID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get rating: %w", err)
	}

	rating, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse cached rating: %w", err)
	}
	return rating, true, nil
}

func (c *RatingCache) Set(ctx context.Context, titleID int64, rating float64) error {
	val := strconv.FormatFloat(rating, 'f', -1, 64)
	if err := c.client.Set(ctx, ratingKey(titleID), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("set rating: %w", err)
	}
	return nil
}

// Invalidate drops the cached rating after any review write on the
// title.
func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) error {
	if err := c.client.Del(ctx, ratingKey(titleID)).Err(); err != nil {
		return fmt.Errorf("invalidate rating: %w", err)
	}
	return nil
}
