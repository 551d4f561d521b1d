package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/evyataryagoni/geosearch/internal/geo"
	"github.com/evyataryagoni/geosearch/internal/models"
)

// CSVStore implements Store using a CSV file
// It loads every record into memory and answers queries by linear scan,
// which is the "find all, filter in memory" variant of the store contract.
// Retrieval order is file order, so tie-breaks are deterministic
type CSVStore struct {
	records []*models.Location
}

// csvColumns maps the expected header names to their positions
// CSV Format: street,city,zip_code,county,country,latitude,longitude,time_zone
type csvColumns struct {
	street, city, zipCode, county, country, latitude, longitude, timeZone int
}

// NewCSVStore creates a new CSV store by reading a geolocation CSV file
// The geohash for each record is derived from its coordinates at load time
func NewCSVStore(filePath string) (*CSVStore, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Rows may omit trailing fields

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	cols, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	store := &CSVStore{}
	for i, row := range rows[1:] {
		location := parseRow(row, cols)
		if location == nil {
			// Skip malformed rows rather than failing the whole load
			continue
		}
		location.ID = uint(i + 1)
		store.records = append(store.records, location)
	}

	return store, nil
}

// FindExact implements Store
func (s *CSVStore) FindExact(lat, lon float64) (*models.Location, error) {
	for _, record := range s.records {
		if record.Latitude != nil && record.Longitude != nil &&
			*record.Latitude == lat && *record.Longitude == lon {
			return record, nil
		}
	}
	return nil, nil
}

// FindByText implements Store
// Matches the MySQL store's semantics: case-insensitive substring match
// across the five text fields, pagination applied after counting
func (s *CSVStore) FindByText(text string, page, limit int) ([]*models.Location, int64, error) {
	needle := strings.ToLower(text)

	var matches []*models.Location
	for _, record := range s.records {
		if matchesText(record, needle) {
			matches = append(matches, record)
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

// FindByGeohashPrefix implements Store
func (s *CSVStore) FindByGeohashPrefix(prefix string) ([]*models.Location, error) {
	var matches []*models.Location
	for _, record := range s.records {
		if record.Geohash != "" && strings.HasPrefix(record.Geohash, prefix) {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

// Count implements Store
func (s *CSVStore) Count() (int64, error) {
	return int64(len(s.records)), nil
}

// Close implements Store; all data is in memory so there is nothing to release
func (s *CSVStore) Close() error {
	return nil
}

func matchesText(record *models.Location, needle string) bool {
	for _, field := range []string{record.City, record.Country, record.County, record.Street, record.ZipCode} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func parseHeader(header []string) (*csvColumns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	get := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		return -1
	}

	cols := &csvColumns{
		street:    get("street"),
		city:      get("city"),
		zipCode:   get("zip_code"),
		county:    get("county"),
		country:   get("country"),
		latitude:  get("latitude"),
		longitude: get("longitude"),
		timeZone:  get("time_zone"),
	}

	if cols.latitude == -1 || cols.longitude == -1 {
		return nil, fmt.Errorf("CSV file is missing latitude/longitude columns")
	}

	return cols, nil
}

func parseRow(row []string, cols *csvColumns) *models.Location {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	location := &models.Location{
		Street:   field(cols.street),
		City:     field(cols.city),
		ZipCode:  field(cols.zipCode),
		County:   field(cols.county),
		Country:  field(cols.country),
		TimeZone: field(cols.timeZone),
	}

	lat, latErr := strconv.ParseFloat(field(cols.latitude), 64)
	lon, lonErr := strconv.ParseFloat(field(cols.longitude), 64)
	if latErr == nil && lonErr == nil {
		location.Latitude = &lat
		location.Longitude = &lon
		location.Geohash = geo.EncodePoint(lat, lon, geo.StoredGeohashPrecision)
	}

	// A row with neither text nor coordinates carries no searchable data
	if location.Latitude == nil && location.Street == "" && location.City == "" &&
		location.ZipCode == "" && location.County == "" && location.Country == "" {
		return nil
	}

	return location
}
