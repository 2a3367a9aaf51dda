package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

type RedisReportCache struct {
	client *redis.Client
}

func NewRedisReportCache(cfg config.Redis) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisReportCache{client: client}
}

func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisReportCache) Get(ctx context.Context, key string) (*domain.AggregationResult, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var result domain.AggregationResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false, err
	}

	return &result, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value *domain.AggregationResult, ttl time.Duration) error {
	if value == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, payload, ttl).Err()
}
