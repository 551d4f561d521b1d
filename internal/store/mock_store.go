package store

import (
	"strings"

	"github.com/evyataryagoni/geosearch/internal/models"
)

// MockStore is a test double for the Store interface
// It allows tests to control behavior and verify interactions
type MockStore struct {
	// Data holds the mock records, searched in slice order
	Data []*models.Location

	// Track method calls for verification in tests
	FindExactCalls           [][2]float64
	FindByTextCalls          []string
	FindByGeohashPrefixCalls []string
	CountCalls               int
	CloseCalled              bool

	// Control behavior for error scenarios; each applies to its method
	FindExactError           error
	FindByTextError          error
	FindByGeohashPrefixError error
	CloseError               error
}

// NewMockStore creates a mock store with sample test data
func NewMockStore() *MockStore {
	lat := func(v float64) *float64 { return &v }

	return &MockStore{
		Data: []*models.Location{
			{
				ID:        1,
				Street:    "Broadway",
				City:      "New York",
				ZipCode:   "10007",
				County:    "Manhattan",
				Country:   "USA",
				Latitude:  lat(40.7128),
				Longitude: lat(-74.0060),
				Geohash:   "dr5regw3p",
			},
			{
				ID:        2,
				Street:    "Market Street",
				City:      "San Francisco",
				ZipCode:   "94103",
				County:    "San Francisco",
				Country:   "USA",
				Latitude:  lat(37.7749),
				Longitude: lat(-122.4194),
				Geohash:   "9q8yyk8yt",
			},
			{
				ID:        3,
				Street:    "Oxford Street",
				City:      "London",
				ZipCode:   "W1D 1BS",
				County:    "Greater London",
				Country:   "United Kingdom",
				Latitude:  lat(51.5074),
				Longitude: lat(-0.1278),
				Geohash:   "gcpvj0du6",
			},
		},
	}
}

// NewEmptyMockStore creates a mock store with no data
// Useful for testing empty result sets
func NewEmptyMockStore() *MockStore {
	return &MockStore{Data: []*models.Location{}}
}

// FindExact implements the Store interface
func (m *MockStore) FindExact(lat, lon float64) (*models.Location, error) {
	m.FindExactCalls = append(m.FindExactCalls, [2]float64{lat, lon})

	if m.FindExactError != nil {
		return nil, m.FindExactError
	}

	for _, record := range m.Data {
		if record.Latitude != nil && record.Longitude != nil &&
			*record.Latitude == lat && *record.Longitude == lon {
			return record, nil
		}
	}
	return nil, nil
}

// FindByText implements the Store interface
func (m *MockStore) FindByText(text string, page, limit int) ([]*models.Location, int64, error) {
	m.FindByTextCalls = append(m.FindByTextCalls, text)

	if m.FindByTextError != nil {
		return nil, 0, m.FindByTextError
	}

	needle := strings.ToLower(text)
	var matches []*models.Location
	for _, record := range m.Data {
		for _, field := range []string{record.City, record.Country, record.County, record.Street, record.ZipCode} {
			if field != "" && strings.Contains(strings.ToLower(field), needle) {
				matches = append(matches, record)
				break
			}
		}
	}

	total := int64(len(matches))

	start := (page - 1) * limit
	if start >= len(matches) {
		return []*models.Location{}, total, nil
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}

	return matches[start:end], total, nil
}

// FindByGeohashPrefix implements the Store interface
func (m *MockStore) FindByGeohashPrefix(prefix string) ([]*models.Location, error) {
	m.FindByGeohashPrefixCalls = append(m.FindByGeohashPrefixCalls, prefix)

	if m.FindByGeohashPrefixError != nil {
		return nil, m.FindByGeohashPrefixError
	}

	var matches []*models.Location
	for _, record := range m.Data {
		if record.Geohash != "" && strings.HasPrefix(record.Geohash, prefix) {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

// Count implements the Store interface
func (m *MockStore) Count() (int64, error) {
	m.CountCalls++
	return int64(len(m.Data)), nil
}

// Close implements the Store interface
func (m *MockStore) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
