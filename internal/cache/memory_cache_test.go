package cache

import (
	"testing"
	"time"

	"github.com/evyataryagoni/geosearch/internal/models"
)

func testResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Success: true,
		Results: []models.ScoredResult{
			{Location: models.Location{ID: 1, City: "New York"}, Score: 0.25},
		},
		Meta: &models.Meta{Page: 1, Limit: 10, Total: 1},
	}
}

// TestMemoryCache_SetGet tests a basic store and retrieve
func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()

	response := testResponse()
	c.Set("search:usa:::1:10", response)

	got, ok := c.Get("search:usa:::1:10")
	if !ok {
		t.Fatal("expected cache hit, got miss")
	}

	// Values are shared by reference, not copied
	if got != response {
		t.Error("expected the same response pointer back")
	}
}

// TestMemoryCache_Miss tests lookups for unknown keys
func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()

	if _, ok := c.Get("search:unknown:::1:10"); ok {
		t.Error("expected miss for unknown key")
	}
}

// TestMemoryCache_LazyExpiry tests that expired entries miss on read
// even before the sweep runs
func TestMemoryCache_LazyExpiry(t *testing.T) {
	// Sweep interval far in the future so only lazy expiry can apply
	c := NewMemoryCache(20*time.Millisecond, time.Hour)
	defer c.Close()

	c.Set("key", testResponse())

	if _, ok := c.Get("key"); !ok {
		t.Fatal("expected hit before TTL expiry")
	}

	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("expected miss after TTL expiry, before any sweep")
	}
}

// TestMemoryCache_Sweep tests that the background sweep evicts expired entries
func TestMemoryCache_Sweep(t *testing.T) {
	c := NewMemoryCache(10*time.Millisecond, 20*time.Millisecond)
	defer c.Close()

	c.Set("key", testResponse())

	time.Sleep(50 * time.Millisecond)

	c.mu.RLock()
	_, stillThere := c.entries["key"]
	c.mu.RUnlock()

	if stillThere {
		t.Error("expected sweep to evict the expired entry")
	}
}

// TestMemoryCache_Overwrite tests that Set replaces an existing entry
func TestMemoryCache_Overwrite(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	defer c.Close()

	first := testResponse()
	second := testResponse()
	second.Meta.Total = 2

	c.Set("key", first)
	c.Set("key", second)

	got, ok := c.Get("key")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != second {
		t.Error("expected the latest Set to win")
	}
}

// TestMemoryCache_FlushAll tests the immediate full flush
func TestMemoryCache_FlushAll(t *testing.T) {
	c := NewMemoryCache(time.Hour, time.Hour)
	defer c.Close()

	c.Set("a", testResponse())
	c.Set("b", testResponse())

	if err := c.FlushAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss for 'a' after flush")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("expected miss for 'b' after flush")
	}
}

// TestMemoryCache_DefaultDurations tests that non-positive config falls back
func TestMemoryCache_DefaultDurations(t *testing.T) {
	c := NewMemoryCache(0, 0)
	defer c.Close()

	if c.ttl != DefaultTTL {
		t.Errorf("expected default TTL %s, got %s", DefaultTTL, c.ttl)
	}
}

// TestKey tests cache key canonicalization
func TestKey(t *testing.T) {
	lat := 40.7128
	lon := -74.0060

	tests := []struct {
		name     string
		query    *models.SearchQuery
		expected string
	}{
		{
			name:     "full query",
			query:    &models.SearchQuery{SearchText: "New York", Latitude: &lat, Longitude: &lon, Page: 2, Limit: 5},
			expected: "search:New York:40.7128:-74.006:2:5",
		},
		{
			name:     "text only",
			query:    &models.SearchQuery{SearchText: "usa", Page: 1, Limit: 10},
			expected: "search:usa:::1:10",
		},
		{
			name:     "nothing supplied",
			query:    &models.SearchQuery{Page: 1, Limit: 10},
			expected: "search::::1:10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.query); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestKey_AbsentAndEmptyTextCollide tests the deliberate collision between
// an empty search text and no search text at all
func TestKey_AbsentAndEmptyTextCollide(t *testing.T) {
	empty := &models.SearchQuery{SearchText: "", Page: 1, Limit: 10}
	whitespace := &models.SearchQuery{SearchText: "   ", Page: 1, Limit: 10}

	if Key(empty) != Key(whitespace) {
		t.Error("expected empty and whitespace-only search text to share a key")
	}
}

// TestKey_DistinguishesPagination tests that page/limit are part of the key
func TestKey_DistinguishesPagination(t *testing.T) {
	page1 := &models.SearchQuery{SearchText: "usa", Page: 1, Limit: 10}
	page2 := &models.SearchQuery{SearchText: "usa", Page: 2, Limit: 10}

	if Key(page1) == Key(page2) {
		t.Error("expected different pages to produce different keys")
	}
}

// TestKey_ZeroCoordinateIsNotAbsent tests that a coordinate of exactly 0
// keys differently from a missing coordinate
func TestKey_ZeroCoordinateIsNotAbsent(t *testing.T) {
	zero := 0.0
	withZero := &models.SearchQuery{Latitude: &zero, Longitude: &zero, Page: 1, Limit: 10}
	without := &models.SearchQuery{Page: 1, Limit: 10}

	if Key(withZero) == Key(without) {
		t.Error("expected (0,0) to key differently from absent coordinates")
	}
}
