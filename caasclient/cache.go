package caasclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maidi29/fsxa-api/resolver"
)

// CacheOptions configures the Redis response cache.
type CacheOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// TTL is how long a cached response stays valid. Defaults to 5 minutes.
	TTL time.Duration

	// ConnectTimeout is the maximum time to wait for connection
	// establishment. Defaults to 5s.
	ConnectTimeout time.Duration
}

// responseCache caches raw fetch responses in Redis, keyed by project,
// locale and the sorted identifier batch. Failures are soft: a cache that
// cannot be read falls back to the store, a cache that cannot be written is
// skipped.
type responseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func newResponseCache(opts CacheOptions) (*responseCache, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.TTL == 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &responseCache{client: client, ttl: opts.TTL}, nil
}

// key derives the cache key of one fetch. Identifier batches arrive sorted
// from the scheduler, so equal batches hash equally.
func (c *responseCache) key(project string, req resolver.FetchRequest) string {
	sum := sha256.Sum256([]byte(strings.Join(req.IDs, ",")))
	return fmt.Sprintf("caas:fetch:%s:%s:%s", project, req.Locale, hex.EncodeToString(sum[:]))
}

func (c *responseCache) get(ctx context.Context, project string, req resolver.FetchRequest) ([]map[string]any, bool) {
	data, err := c.client.Get(ctx, c.key(project, req)).Bytes()
	if err != nil {
		return nil, false
	}

	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *responseCache) put(ctx context.Context, project string, req resolver.FetchRequest, items []map[string]any) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(project, req), data, c.ttl)
}

// Close closes the Redis connection.
func (c *responseCache) Close() error {
	return c.client.Close()
}
