// Package cache provides a Redis read-through layer over the profile
// directory. Profiles change rarely relative to how often the engine reads
// them (every authorization check and intro generation), so a short TTL
// keeps directory load flat without meaningful staleness risk.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"carelink/internal/profile"
	id "carelink/pkg/domain"
)

// RedisCache wraps an inner profile.Store. Cache failures degrade to the
// inner store; they are logged, never surfaced.
type RedisCache struct {
	inner  profile.Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(inner profile.Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(profileID id.ProfileID) string {
	return "profile:" + profileID.String()
}

func (c *RedisCache) Get(ctx context.Context, profileID id.ProfileID) (*profile.Profile, error) {
	key := cacheKey(profileID)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var p profile.Profile
		if jsonErr := json.Unmarshal(raw, &p); jsonErr == nil {
			return &p, nil
		}
		// Corrupt entry: fall through to the directory and overwrite.
		c.logger.WarnContext(ctx, "corrupt profile cache entry", "key", key)
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "profile cache read failed", "key", key, "error", err)
	}

	p, err := c.inner.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if raw, jsonErr := json.Marshal(p); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, raw, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "profile cache write failed", "key", key, "error", setErr)
		}
	}
	return p, nil
}

// Invalidate drops a cached entry, for callers that learn a profile changed.
func (c *RedisCache) Invalidate(ctx context.Context, profileID id.ProfileID) error {
	if err := c.client.Del(ctx, cacheKey(profileID)).Err(); err != nil {
		return fmt.Errorf("invalidate profile cache: %w", err)
	}
	return nil
}
