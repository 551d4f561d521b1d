package cache

import (
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for creating a query cache
type Config struct {
	Type          string        // "memory" or "redis"
	TTL           time.Duration // Per-entry time-to-live
	SweepInterval time.Duration // Memory cache eviction period

	// Redis-specific config
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New creates a query cache based on the configuration (factory pattern)
func New(cfg Config) (Cache, error) {
	cacheType := strings.ToLower(strings.TrimSpace(cfg.Type))

	switch cacheType {
	case "memory", "":
		// In-process cache (good for single-server deployments)
		return NewMemoryCache(cfg.TTL, cfg.SweepInterval), nil

	case "redis":
		// Shared cache for multi-server deployments
		c, err := NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis cache: %w", err)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown cache type: %s (supported: 'memory', 'redis')", cfg.Type)
	}
}
