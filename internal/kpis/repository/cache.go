package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/metrically/metrically-backend/internal/kpis/domain"
)

const (
	latestKeyPrefix = "kpi:latest:"  // Latest set per user: kpi:latest:{user_id}
	latestTTL       = 24 * time.Hour // TTL for the cached latest set
)

// SetCache keeps each user's most recent generated KPI set in Redis so
// dashboard reads skip Postgres. The cache is advisory: misses and
// redis failures fall through to the repository.
type SetCache struct {
	client *redis.Client
}

func NewSetCache(client *redis.Client) *SetCache {
	return &SetCache{client: client}
}

// PutLatest stores the set as the user's latest.
func (c *SetCache) PutLatest(ctx context.Context, set *domain.GeneratedKPISet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal set: %w", err)
	}
	if err := c.client.Set(ctx, c.latestKey(set.UserID), data, latestTTL).Err(); err != nil {
		return fmt.Errorf("cache latest set: %w", err)
	}
	return nil
}

// GetLatest returns the cached latest set, or ErrSetNotFound on a miss.
func (c *SetCache) GetLatest(ctx context.Context, userID string) (*domain.GeneratedKPISet, error) {
	data, err := c.client.Get(ctx, c.latestKey(userID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest set: %w", err)
	}

	var set domain.GeneratedKPISet
	if err := json.Unmarshal([]byte(data), &set); err != nil {
		return nil, fmt.Errorf("unmarshal cached set: %w", err)
	}
	return &set, nil
}

// Invalidate drops the user's cached latest set.
func (c *SetCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.latestKey(userID)).Err()
}

func (c *SetCache) latestKey(userID string) string {
	return latestKeyPrefix + userID
}
