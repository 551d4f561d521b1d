package limiter

import (
	"fmt"
	"strings"
)

// LimiterConfig selects and parameterizes a rate limiter implementation
type LimiterConfig struct {
	Type              string  // "memory" or "redis"
	RequestsPerSecond float64 // May be fractional: 0.2 means one request per 5 seconds

	// Only read when Type is "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewLimiter builds the configured rate limiter
// An empty type falls back to the in-memory implementation
func NewLimiter(cfg LimiterConfig) (Limiter, error) {
	limiterType := strings.ToLower(strings.TrimSpace(cfg.Type))

	switch limiterType {
	case "memory", "":
		return NewMemoryLimiter(cfg.RequestsPerSecond), nil

	case "redis":
		// Shared counters across instances
		lim, err := NewRedisLimiter(
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			cfg.RequestsPerSecond,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis limiter: %w", err)
		}
		return lim, nil

	default:
		return nil, fmt.Errorf("unknown rate limiter type: %s (supported: 'memory', 'redis')", cfg.Type)
	}
}
