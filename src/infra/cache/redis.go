// Package cache holds read-model caches for query handlers.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace/src/core/domain"
	"marketplace/src/core/ports"
	"marketplace/src/infra/config"
)

const keyPrefix = "marketplace:ad:"

// setIfNewer writes ARGV[1] unless the stored view has a version >= ARGV[2].
// ARGV[3] is the TTL in milliseconds, 0 for none. Undecodable entries are overwritten.
var setIfNewer = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if current then
	local ok, cached = pcall(cjson.decode, current)
	if ok and type(cached) == 'table' then
		local version = tonumber(cached['version'])
		if version and version >= tonumber(ARGV[2]) then
			return 0
		end
	end
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

var _ ports.ClassifiedAdCache = (*RedisCache)(nil)

// RedisCache stores ClassifiedAdView values as JSON with a fixed TTL.
// Writes are compare-and-set on the view version, so a slow reader cannot
// replace a view written by a later commit.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *slog.Logger
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	log.Info("redis connection established", "addr", cfg.Addr)
	return rdb, nil
}

// NewRedisCache wraps a connected client. A zero ttl keeps entries until invalidated.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, log *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func key(id domain.ClassifiedAdID) string {
	return keyPrefix + id.String()
}

func (c *RedisCache) Get(ctx context.Context, id domain.ClassifiedAdID) (*ports.ClassifiedAdView, error) {
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key(id), err)
	}
	var view ports.ClassifiedAdView
	if err := json.Unmarshal(data, &view); err != nil {
		// A stale or foreign value; treat it as a miss and drop it.
		c.log.Warn("discarding undecodable cache entry", "key", key(id), "error", err)
		_ = c.client.Del(ctx, key(id)).Err()
		return nil, nil
	}
	return &view, nil
}

func (c *RedisCache) Set(ctx context.Context, view *ports.ClassifiedAdView) error {
	id, err := domain.ParseClassifiedAdID(view.ID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode ad view: %w", err)
	}
	written, err := setIfNewer.Run(ctx, c.client, []string{key(id)}, data, view.Version, c.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key(id), err)
	}
	if written == 0 {
		c.log.Debug("kept newer cached view", "key", key(id), "version", view.Version)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, id domain.ClassifiedAdID) error {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key(id), err)
	}
	return nil
}

func (c *RedisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
