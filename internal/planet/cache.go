package planet

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	sharedredis "mission-control-server/internal/shared/redis"
)

const cacheKey = "planets:habitable"

// Cache is a Redis-backed copy of the planet list. Ingestion is the only
// writer of the planet set, so the cache only needs refreshing after a
// successful ingestion run. A nil client disables the cache entirely.
type Cache struct {
	client *sharedredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(client *sharedredis.Client, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    24 * time.Hour,
		logger: logger,
	}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached planet list and whether the cache was warm.
func (c *Cache) Get(ctx context.Context) ([]Planet, bool) {
	if !c.enabled() {
		return nil, false
	}

	payload, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return nil, false
	}

	var planets []Planet
	if err := json.Unmarshal(payload, &planets); err != nil {
		c.logger.Warn("Discarding unreadable planet cache entry", "error", err)
		return nil, false
	}

	return planets, true
}

// Set stores the planet list. Failures are logged and swallowed; the cache is
// an optimization, not a source of truth.
func (c *Cache) Set(ctx context.Context, planets []Planet) {
	if !c.enabled() {
		return
	}

	payload, err := json.Marshal(planets)
	if err != nil {
		c.logger.Warn("Failed to encode planet cache entry", "error", err)
		return
	}

	if err := c.client.Set(ctx, cacheKey, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write planet cache entry", "error", err)
	}
}
