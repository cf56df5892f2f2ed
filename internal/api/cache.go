// internal/api/cache.go
package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"mortgage-risk-workers/internal/common/config"
	"mortgage-risk-workers/internal/common/logger"

	"github.com/go-redis/redis/v8"
)

const (
	responseCachePrefix = "api:response:"
	responseCacheTTL    = 5 * time.Minute
)

// responseCache memoizes assessment envelopes for byte-identical request
// bodies. It still runs on the legacy v8 client and keeps its own key family;
// the workers' verdict cache is a separate keyspace on the v9 client.
type responseCache struct {
	client *redis.Client
	logger logger.Logger
}

func newResponseCache(cfg config.RedisConfig, log logger.Logger) *responseCache {
	var client *redis.Client
	if cfg.Address != "" {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	return &responseCache{
		client: client,
		logger: log,
	}
}

func responseCacheKey(body []byte) string {
	sum := sha256.Sum256(body)
	return responseCachePrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached envelope bytes. Any redis trouble degrades to a
// miss; the caller just assesses again.
func (c *responseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("response cache lookup failed", map[string]interface{}{
				"error": err,
			})
		}
		return nil, false
	}
	return val, true
}

func (c *responseCache) Set(ctx context.Context, key string, envelope []byte) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, envelope, responseCacheTTL).Err(); err != nil {
		c.logger.Warn("response cache write failed", map[string]interface{}{
			"error": err,
		})
	}
}
