package store

import "github.com/evyataryagoni/geosearch/internal/models"

// Store defines the interface for location retrieval
// Allows multiple implementations (MySQL, CSV) and easy testing with mocks
type Store interface {
	// FindExact returns the record whose stored coordinates equal the given
	// pair exactly, or (nil, nil) when there is no such record
	FindExact(lat, lon float64) (*models.Location, error)

	// FindByText returns records where any of the five text fields contains
	// the given text (case-insensitive), paginated store-side, plus the
	// total match count before pagination
	FindByText(text string, page, limit int) ([]*models.Location, int64, error)

	// FindByGeohashPrefix returns every record whose geohash starts with
	// the given prefix; the caller scores, filters and paginates
	FindByGeohashPrefix(prefix string) ([]*models.Location, error)

	// Count returns the total number of records (diagnostics only)
	Count() (int64, error)

	// Close cleans up resources (database connections, etc.)
	Close() error
}
