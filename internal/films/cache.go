package films

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"filmcatalog/pkg/models"
)

const generationKey = "films:pages:gen"

// PageCache keeps rendered listing pages in Redis. Bumping the generation
// counter orphans every cached page at once; orphans expire through their TTL.
// A nil *PageCache, or one whose Redis was unreachable, does nothing.
type PageCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewPageCache(addr string, ttl time.Duration, logger *zap.Logger) *PageCache {
	if addr == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	l := logger.Named("page-cache")

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Redis is optional, continue without it
		l.Warn("redis unavailable, page cache disabled", zap.String("addr", addr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}

	l.Info("redis connected", zap.String("addr", addr))
	return &PageCache{rdb: rdb, ttl: ttl, log: l}
}

// Key names a page under the current generation. ok is false when the cache
// is disabled or the generation cannot be read. A read must Get and Set with
// the one key: a page read before an Invalidate belongs to the old generation.
func (c *PageCache) Key(ctx context.Context, page, size int) (key string, ok bool) {
	if c == nil {
		return "", false
	}
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Debug("cache generation unavailable", zap.Error(err))
		return "", false
	}
	return fmt.Sprintf("films:page:%d:%d:%d", gen, size, page), true
}

func (c *PageCache) Get(ctx context.Context, key string) ([]models.Document, bool) {
	if c == nil {
		return nil, false
	}
	cached, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var docs []models.Document
	if err := json.Unmarshal(cached, &docs); err != nil {
		return nil, false
	}
	c.log.Debug("cache hit", zap.String("key", key))
	return docs, true
}

func (c *PageCache) Set(ctx context.Context, key string, docs []models.Document) {
	if c == nil {
		return
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.Error(err))
	}
}

func (c *PageCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, generationKey).Err(); err != nil {
		c.log.Warn("cache invalidation failed", zap.Error(err))
	}
}

func (c *PageCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
