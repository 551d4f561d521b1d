package limiter

import (
	"math"
	"sync"
	"time"
)

// Limiter is the interface that all rate limiters must implement
// Allows swapping the in-memory and Redis implementations
type Limiter interface {
	// Allow checks if a request from the given IP should be allowed
	Allow(ip string) bool

	// Close cleans up any resources (Redis connections, goroutines, etc.)
	Close() error
}

// TokenBucket implements the token bucket algorithm for a single client:
// tokens refill at a fixed rate, each request consumes one, and an empty
// bucket means the request is rejected. Bursts up to the capacity are fine
type TokenBucket struct {
	tokens         float64
	capacity       float64
	refillRate     float64 // Tokens added per second
	lastRefillTime time.Time
	mu             sync.Mutex
}

// NewTokenBucket creates a token bucket that starts full
// Capacity is floored at 1 so fractional rates still allow a first request
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	return &TokenBucket{
		tokens:         math.Max(capacity, 1.0),
		capacity:       math.Max(capacity, 1.0),
		refillRate:     rate,
		lastRefillTime: time.Now(),
	}
}

// Allow consumes a token if one is available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// refill adds tokens for the elapsed time; must be called with mu held
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefillTime).Seconds()

	tb.tokens = math.Min(tb.tokens+elapsed*tb.refillRate, tb.capacity)
	tb.lastRefillTime = now
}

// MemoryLimiter manages per-IP token buckets
// In-process implementation suitable for single-server deployments
type MemoryLimiter struct {
	buckets     sync.Map // map[string]*TokenBucket keyed by IP
	rate        float64
	capacity    float64
	cleanupMu   sync.Mutex
	lastCleanup time.Time
}

// NewMemoryLimiter creates a new in-memory rate limiter
// The rate can be fractional (0.2 = one request per five seconds)
func NewMemoryLimiter(requestsPerSecond float64) *MemoryLimiter {
	return &MemoryLimiter{
		rate:        requestsPerSecond,
		capacity:    requestsPerSecond, // Burst up to one second's worth
		lastCleanup: time.Now(),
	}
}

// Allow implements Limiter
func (rl *MemoryLimiter) Allow(ip string) bool {
	bucket := rl.getBucket(ip)
	allowed := bucket.Allow()

	// Drop stale buckets occasionally so idle IPs don't accumulate
	rl.maybeCleanup()

	return allowed
}

// getBucket gets or creates the token bucket for an IP
func (rl *MemoryLimiter) getBucket(ip string) *TokenBucket {
	if value, ok := rl.buckets.Load(ip); ok {
		return value.(*TokenBucket)
	}

	bucket := NewTokenBucket(rl.rate, rl.capacity)
	actual, _ := rl.buckets.LoadOrStore(ip, bucket)
	return actual.(*TokenBucket)
}

// maybeCleanup removes buckets inactive for 5+ minutes, at most every 5 minutes
func (rl *MemoryLimiter) maybeCleanup() {
	rl.cleanupMu.Lock()
	defer rl.cleanupMu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}

	threshold := time.Now().Add(-5 * time.Minute)

	rl.buckets.Range(func(key, value interface{}) bool {
		bucket := value.(*TokenBucket)
		bucket.mu.Lock()
		lastAccess := bucket.lastRefillTime
		bucket.mu.Unlock()

		if lastAccess.Before(threshold) {
			rl.buckets.Delete(key)
		}
		return true
	})

	rl.lastCleanup = time.Now()
}

// Close implements Limiter; nothing to clean up in-memory
func (rl *MemoryLimiter) Close() error {
	return nil
}
