// Package cache keeps computed insight views in Redis. A nil client turns
// every operation into a no-op so the service runs without Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	ViewDeviceInsights = "device_insights"
	ViewDashboard      = "dashboard"

	keyView = "energy-insights:%s:%s"
)

// Views lists every cached view, used for invalidation.
var Views = []string{ViewDeviceInsights, ViewDashboard}

// ViewCache is a read-through cache of JSON encoded views keyed by user.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient builds a Redis client, or returns nil when addr is empty
func NewClient(lc fx.Lifecycle, logger *zap.Logger, addr, password string, db int) *redis.Client {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		logger.Info("redis address not set, view caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(password),
		DB:       db,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// cache is optional; an unreachable Redis only degrades reads
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("[REDIS] ping failed, views will be computed on every request", zap.Error(err))
				return nil
			}
			logger.Info("redis connection established successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}

// New creates a view cache. ttl <= 0 disables expiry.
func New(client *redis.Client, ttl time.Duration) *ViewCache {
	if ttl < 0 {
		ttl = 0
	}
	return &ViewCache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is configured
func (c *ViewCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key returns the Redis key of a user's view.
func Key(view string, userID uuid.UUID) string {
	return fmt.Sprintf(keyView, userID.String(), view)
}

// Get decodes a cached view into dst. It reports false on a miss.
func (c *ViewCache) Get(ctx context.Context, view string, userID uuid.UUID, dst any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	raw, err := c.client.Get(ctx, Key(view, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("[REDIS] failed to get %s: %w", view, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("[REDIS] failed to decode cached %s: %w", view, err)
	}
	return true, nil
}

// Set stores a view for the configured TTL
func (c *ViewCache) Set(ctx context.Context, view string, userID uuid.UUID, value any) error {
	if !c.Enabled() {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", view, err)
	}

	if err := c.client.Set(ctx, Key(view, userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("[REDIS] failed to set %s: %w", view, err)
	}
	return nil
}

// Invalidate drops every cached view of the user
func (c *ViewCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if !c.Enabled() {
		return nil
	}

	keys := make([]string, 0, len(Views))
	for _, view := range Views {
		keys = append(keys, Key(view, userID))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("[REDIS] failed to invalidate views: %w", err)
	}
	return nil
}
