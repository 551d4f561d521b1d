package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/evyataryagoni/geosearch/internal/models"
)

// Default lifecycle values: entries live for an hour and the background
// sweep looks for expired ones every ten minutes
const (
	DefaultTTL           = 3600 * time.Second
	DefaultSweepInterval = 600 * time.Second
)

// Cache is the interface for the query result cache
// Allows swapping the in-memory and Redis implementations and easy testing
//
// Stored values are shared by reference, not deep-copied, so callers must
// treat a returned SearchResponse as immutable
type Cache interface {
	// Get returns the cached response for a key, or (nil, false) on a miss
	// An expired-but-not-yet-swept entry reports a miss
	Get(key string) (*models.SearchResponse, bool)

	// Set stores a response under a key with the configured TTL
	Set(key string, response *models.SearchResponse)

	// FlushAll removes every entry immediately, independent of TTL
	FlushAll() error

	// Close stops background work and releases resources
	Close() error
}

// Key canonicalizes a search query into a deterministic cache key
//
// Absent fields serialize to the empty string, so a query with
// SearchText "" and one with no search text at all share an entry;
// both mean "no text filter"
func Key(query *models.SearchQuery) string {
	return fmt.Sprintf("search:%s:%s:%s:%d:%d",
		strings.TrimSpace(query.SearchText),
		formatCoord(query.Latitude),
		formatCoord(query.Longitude),
		query.Page,
		query.Limit,
	)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
