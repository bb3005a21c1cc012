package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is the default lifetime of a cached recommendation page.
// Staleness inside this window is acceptable: the read path tolerates skew
// against concurrent profile writes anyway.
const DefaultCacheTTL = 30 * time.Second

// PageCache caches computed recommendation pages in Redis. Cache failures
// degrade to recomputation and are never surfaced to the caller.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewPageCache creates a new PageCache. A non-positive TTL falls back to
// DefaultCacheTTL.
func NewPageCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *PageCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PageCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(userID string, page, pageSize int) string {
	return fmt.Sprintf("recommend:%s:%d:%d", userID, page, pageSize)
}

// Get retrieves a cached page, reporting whether one was found.
func (c *PageCache) Get(ctx context.Context, userID string, page, pageSize int) (*Page, bool) {
	data, err := c.client.Get(ctx, cacheKey(userID, page, pageSize)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("recommendation cache read failed",
			"user_id", userID,
			"error", err)
		return nil, false
	}
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("recommendation cache entry corrupt",
			"user_id", userID,
			"error", err)
		return nil, false
	}
	return &p, true
}

// Set stores a computed page with the cache TTL.
func (c *PageCache) Set(ctx context.Context, userID string, page, pageSize int, p *Page) {
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn("failed to encode recommendation page for cache", "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(userID, page, pageSize), data, c.ttl).Err(); err != nil {
		c.logger.Warn("recommendation cache write failed",
			"user_id", userID,
			"error", err)
	}
}
