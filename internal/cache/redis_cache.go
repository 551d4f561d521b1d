package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/evyataryagoni/geosearch/internal/models"
)

// RedisCache implements Cache using Redis
// Suitable for multi-server deployments where all instances should share
// one query cache; Redis enforces the TTL itself, so there is no sweep
// goroutine on our side
//
// Key format: the canonical "search:..." key from Key()
// Value: JSON-encoded SearchResponse
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number
//   - ttl: per-entry time-to-live (DefaultTTL if <= 0)
//
// Returns an error if the initial ping fails
func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for caching: %w", err)
	}

	return &RedisCache{
		client: client,
		ctx:    ctx,
		ttl:    ttl,
	}, nil
}

// Get implements Cache
// Any Redis error or decode failure is treated as a miss; the caller
// simply recomputes and overwrites the entry
func (c *RedisCache) Get(key string) (*models.SearchResponse, bool) {
	val, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		return nil, false
	}

	var response models.SearchResponse
	if err := json.Unmarshal([]byte(val), &response); err != nil {
		return nil, false
	}

	return &response, true
}

// Set implements Cache
// Encode or write failures are swallowed: a cache write is best-effort
// and the response has already been computed
func (c *RedisCache) Set(key string, response *models.SearchResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		return
	}

	c.client.Set(c.ctx, key, data, c.ttl)
}

// FlushAll implements Cache by flushing the configured Redis database
// The cache gets a dedicated DB number, so this does not clobber other data
func (c *RedisCache) FlushAll() error {
	if err := c.client.FlushDB(c.ctx).Err(); err != nil {
		return fmt.Errorf("failed to flush Redis cache: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
