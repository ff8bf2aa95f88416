package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lalaji/replenish/internal/config"
	"github.com/lalaji/replenish/internal/domain"
)

const statsKey = "inventory:stats"

// StatsCache caches the store-wide inventory statistics. Mutating operations
// (orders, applied simulations) invalidate it.
type StatsCache interface {
	Get(ctx context.Context) (*domain.InventoryStats, bool, error)
	Set(ctx context.Context, stats *domain.InventoryStats) error
	Invalidate(ctx context.Context) error
}

type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopStatsCache struct{}

func NewStatsCache(cfg config.CacheConfig) (StatsCache, error) {
	if !cfg.Enabled {
		return &noopStatsCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisStatsCache{client: client, ttl: ttl}, nil
}

func NewNoopStatsCache() StatsCache {
	return &noopStatsCache{}
}

func (c *redisStatsCache) Get(ctx context.Context) (*domain.InventoryStats, bool, error) {
	payload, err := c.client.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var stats domain.InventoryStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil, false, fmt.Errorf("decode inventory stats cache: %w", err)
	}

	return &stats, true, nil
}

func (c *redisStatsCache) Set(ctx context.Context, stats *domain.InventoryStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode inventory stats cache: %w", err)
	}

	if err := c.client.Set(ctx, statsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsKey).Err()
}

func (n *noopStatsCache) Get(ctx context.Context) (*domain.InventoryStats, bool, error) {
	return nil, false, nil
}

func (n *noopStatsCache) Set(ctx context.Context, stats *domain.InventoryStats) error {
	return nil
}

func (n *noopStatsCache) Invalidate(ctx context.Context) error {
	return nil
}
