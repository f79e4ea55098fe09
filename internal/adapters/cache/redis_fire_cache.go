package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"wildfire-evac-service/internal/domain"
	"wildfire-evac-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const fireKeyPrefix = "evac:fires:"

// RedisFireCache stores the latest fire snapshot per query window.
// Each Put overwrites the previous snapshot and resets its TTL.
type RedisFireCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisFireCache(client *redis.Client, ttl time.Duration) *RedisFireCache {
	return &RedisFireCache{Client: client, TTL: ttl}
}

// fireKey rounds bounds so nearby requests share a snapshot key.
func fireKey(b domain.Bounds) string {
	parts := []float64{b.North, b.South, b.East, b.West}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strconv.FormatFloat(p, 'f', 3, 64))
	}
	return fireKeyPrefix + strings.Join(out, ":")
}

// Fetch the cached snapshot for bounds; ok is false on a miss.
func (c *RedisFireCache) Get(
	ctx context.Context,
	bounds domain.Bounds,
) (_ []domain.FireDetection, _ bool, err error) {
	defer obs.Time(ctx, "fires.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("fire cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, fireKey(bounds)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get fire cache: %w", err)
	}

	var fires []domain.FireDetection
	if err := json.Unmarshal(raw, &fires); err != nil {
		return nil, false, fmt.Errorf("get fire cache: decode snapshot: %w", err)
	}
	if fires == nil {
		fires = []domain.FireDetection{}
	}

	return fires, true, nil
}

// Store the snapshot for bounds, replacing any previous one.
func (c *RedisFireCache) Put(ctx context.Context, bounds domain.Bounds, fires []domain.FireDetection) error {
	if c.Client == nil {
		return errors.New("fire cache: redis client is nil")
	}
	if fires == nil {
		fires = []domain.FireDetection{}
	}

	payload, err := json.Marshal(fires)
	if err != nil {
		return fmt.Errorf("put fire cache: encode snapshot: %w", err)
	}

	if err := c.Client.Set(ctx, fireKey(bounds), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("put fire cache: %w", err)
	}

	return nil
}
