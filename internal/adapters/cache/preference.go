// Package cache holds Redis-backed read-through decorators.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"coffeemeet/internal/domain"

	"github.com/redis/go-redis/v9"
)

const preferenceKeyPrefix = "pref:"

// kv is the subset of the Redis client the decorator needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// NewClient opens a Redis client for addr.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

type preferenceCache struct {
	client kv
	next   domain.PreferenceLookup
	ttl    time.Duration
	logger *slog.Logger
}

// NewPreferenceCache wraps next with a Redis read-through cache. Redis
// failures fall through to next.
func NewPreferenceCache(client kv, next domain.PreferenceLookup, ttl time.Duration, logger *slog.Logger) domain.PreferenceLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &preferenceCache{client: client, next: next, ttl: ttl, logger: logger}
}

func (c *preferenceCache) WantsReminders(ctx context.Context, contact string) (bool, error) {
	key := preferenceKeyPrefix + strings.ToLower(contact)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return val == "1", nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("preference cache read failed", "err", err)
	}

	wants, err := c.next.WantsReminders(ctx, contact)
	if err != nil {
		return false, err
	}
	stored := "0"
	if wants {
		stored = "1"
	}
	if err := c.client.Set(ctx, key, stored, c.ttl).Err(); err != nil {
		c.logger.Warn("preference cache write failed", "err", err)
	}
	return wants, nil
}
