package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zvrva/flightledger/config"
	"github.com/zvrva/flightledger/internal/domain"
)

// RedisCache holds read-side flight projections. Keys are dropped on
// every mutation of a flight on the keyed route, so a cached listing is
// never older than the last write plus the configured TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (c *RedisCache) GetRoute(ctx context.Context, src, dest string) ([]domain.Flight, error) {
	return c.get(ctx, routeKey(src, dest))
}

func (c *RedisCache) SetRoute(ctx context.Context, src, dest string, flights []domain.Flight) error {
	return c.set(ctx, routeKey(src, dest), flights)
}

func (c *RedisCache) GetAll(ctx context.Context) ([]domain.Flight, error) {
	return c.get(ctx, allKey())
}

func (c *RedisCache) SetAll(ctx context.Context, flights []domain.Flight) error {
	return c.set(ctx, allKey(), flights)
}

func (c *RedisCache) InvalidateRoute(ctx context.Context, src, dest string) error {
	return c.client.Del(ctx, routeKey(src, dest), allKey()).Err()
}

func (c *RedisCache) get(ctx context.Context, key string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) set(ctx context.Context, key string, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func routeKey(src, dest string) string {
	return fmt.Sprintf("cache:route:%s:%s", src, dest)
}

func allKey() string {
	return "cache:flights:all"
}
