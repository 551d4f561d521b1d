package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// TestRedisCache_Connection tests Redis connection
func TestRedisCache_Connection(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	c, err := NewRedisCache(mr.Addr(), "", 0, time.Minute)
	if err != nil {
		t.Fatalf("failed to connect to Redis: %v", err)
	}
	defer c.Close()

	if c.client == nil {
		t.Error("expected client to be initialized")
	}
}

// TestRedisCache_ConnectionFailure tests connection errors
func TestRedisCache_ConnectionFailure(t *testing.T) {
	_, err := NewRedisCache("invalid:9999", "", 0, time.Minute)

	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

// TestRedisCache_SetGet tests a store and retrieve roundtrip
func TestRedisCache_SetGet(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0, time.Minute)
	defer c.Close()

	response := testResponse()
	c.Set("search:usa:::1:10", response)

	got, ok := c.Get("search:usa:::1:10")
	if !ok {
		t.Fatal("expected cache hit, got miss")
	}
	if !got.Success {
		t.Error("expected success flag to survive the roundtrip")
	}
	if len(got.Results) != 1 || got.Results[0].City != "New York" {
		t.Errorf("unexpected results: %+v", got.Results)
	}
	if got.Meta == nil || got.Meta.Total != 1 {
		t.Errorf("unexpected meta: %+v", got.Meta)
	}
}

// TestRedisCache_Miss tests lookups for unknown keys
func TestRedisCache_Miss(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0, time.Minute)
	defer c.Close()

	if _, ok := c.Get("search:unknown:::1:10"); ok {
		t.Error("expected miss for unknown key")
	}
}

// TestRedisCache_TTLExpiry tests that entries expire after the TTL
func TestRedisCache_TTLExpiry(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0, time.Minute)
	defer c.Close()

	c.Set("key", testResponse())

	// miniredis lets tests advance the clock instead of sleeping
	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get("key"); ok {
		t.Error("expected miss after TTL expiry")
	}
}

// TestRedisCache_FlushAll tests the immediate full flush
func TestRedisCache_FlushAll(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0, time.Minute)
	defer c.Close()

	c.Set("a", testResponse())
	c.Set("b", testResponse())

	if err := c.FlushAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after flush")
	}
}

// TestCacheFactory tests the type switch
func TestCacheFactory(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	tests := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{"memory", Config{Type: "memory"}, false},
		{"empty defaults to memory", Config{Type: ""}, false},
		{"redis", Config{Type: "redis", RedisAddr: mr.Addr()}, false},
		{"unknown", Config{Type: "memcached"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			c.Close()
		})
	}
}
