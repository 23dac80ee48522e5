package directory

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	platformredis "vatour/internal/platform/redis"
)

const liveCacheKey = "directory:live-flights"

// LiveCache keeps the live-activity snapshot in Redis for a short TTL so a
// burst of submissions does not hammer the live endpoint. Cache failures are
// logged and treated as misses; the cache never decides correctness.
type LiveCache struct {
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewLiveCache returns nil when no Redis client is configured, which the
// directory client treats as "no caching".
func NewLiveCache(client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *LiveCache {
	if client == nil {
		return nil
	}
	return &LiveCache{client: client, ttl: ttl, logger: logger}
}

func (c *LiveCache) Get(ctx context.Context) ([]LiveFlight, bool) {
	raw, err := c.client.Get(ctx, liveCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var flights []LiveFlight
	if err := json.Unmarshal(raw, &flights); err != nil {
		c.logger.WarnContext(ctx, "live cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	return flights, true
}

func (c *LiveCache) Put(ctx context.Context, flights []LiveFlight) {
	raw, err := json.Marshal(flights)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, liveCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "live cache write failed", "error", err)
	}
}
