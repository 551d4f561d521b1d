package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCSV = `street,city,zip_code,county,country,latitude,longitude,time_zone
Broadway,New York,10007,Manhattan,USA,40.7128,-74.0060,America/New_York
Market Street,San Francisco,94103,San Francisco,USA,37.7749,-122.4194,America/Los_Angeles
Oxford Street,London,W1D 1BS,Greater London,United Kingdom,51.5074,-0.1278,Europe/London
,,10115,,Germany,,,
`

// writeTestCSV writes CSV content into a temp file and returns its path
func writeTestCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "locations.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test CSV: %v", err)
	}
	return path
}

// TestCSVStore_Load tests loading and geohash derivation
func TestCSVStore_Load(t *testing.T) {
	store, err := NewCSVStore(writeTestCSV(t, testCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total, _ := store.Count()
	if total != 4 {
		t.Errorf("expected 4 records, got %d", total)
	}

	// Geohash is derived at load time for records with coordinates
	first := store.records[0]
	if !strings.HasPrefix(first.Geohash, "dr") {
		t.Errorf("expected New York geohash to start with 'dr', got %q", first.Geohash)
	}

	// The coordinate-less Germany row loads without a geohash
	last := store.records[3]
	if last.Geohash != "" || last.Latitude != nil {
		t.Errorf("expected no coordinates for the last row, got %+v", last)
	}
}

// TestCSVStore_LoadErrors tests missing and empty files
func TestCSVStore_LoadErrors(t *testing.T) {
	if _, err := NewCSVStore("/nonexistent/locations.csv"); err == nil {
		t.Error("expected error for missing file")
	}

	if _, err := NewCSVStore(writeTestCSV(t, "")); err == nil {
		t.Error("expected error for empty file")
	}

	if _, err := NewCSVStore(writeTestCSV(t, "street,city\nBroadway,New York\n")); err == nil {
		t.Error("expected error for missing coordinate columns")
	}
}

// TestCSVStore_FindExact tests coordinate equality lookup
func TestCSVStore_FindExact(t *testing.T) {
	store, err := NewCSVStore(writeTestCSV(t, testCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	location, err := store.FindExact(40.7128, -74.0060)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location == nil || location.City != "New York" {
		t.Errorf("expected New York, got %+v", location)
	}

	// Near miss is not a match
	location, err = store.FindExact(40.7128, -74.0061)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location != nil {
		t.Errorf("expected nil for non-matching coordinates, got %+v", location)
	}
}

// TestCSVStore_FindByText tests the in-memory substring match
func TestCSVStore_FindByText(t *testing.T) {
	store, err := NewCSVStore(writeTestCSV(t, testCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name          string
		text          string
		expectedTotal int64
		expectedFirst string
	}{
		{"country match", "usa", 2, "New York"},
		{"case-insensitive", "LONDON", 1, "London"},
		{"zip match", "10115", 1, ""},
		{"street substring", "street", 2, "San Francisco"},
		{"no match", "tokyo", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locations, total, err := store.FindByText(tt.text, 1, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total != tt.expectedTotal {
				t.Errorf("expected total %d, got %d", tt.expectedTotal, total)
			}
			if tt.expectedFirst != "" {
				if len(locations) == 0 || locations[0].City != tt.expectedFirst {
					t.Errorf("expected first result %q, got %+v", tt.expectedFirst, locations)
				}
			}
		})
	}
}

// TestCSVStore_FindByText_Pagination tests in-memory pagination
func TestCSVStore_FindByText_Pagination(t *testing.T) {
	store, err := NewCSVStore(writeTestCSV(t, testCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	locations, total, err := store.FindByText("usa", 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2 before pagination, got %d", total)
	}
	if len(locations) != 1 || locations[0].City != "New York" {
		t.Errorf("expected just New York on page 1, got %+v", locations)
	}

	locations, _, _ = store.FindByText("usa", 2, 1)
	if len(locations) != 1 || locations[0].City != "San Francisco" {
		t.Errorf("expected San Francisco on page 2, got %+v", locations)
	}

	// A page past the end is empty, total unchanged
	locations, total, _ = store.FindByText("usa", 5, 10)
	if len(locations) != 0 || total != 2 {
		t.Errorf("expected empty page with total 2, got %d results, total %d", len(locations), total)
	}
}

// TestCSVStore_FindByGeohashPrefix tests the prefix filter
func TestCSVStore_FindByGeohashPrefix(t *testing.T) {
	store, err := NewCSVStore(writeTestCSV(t, testCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	locations, err := store.FindByGeohashPrefix("dr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 1 || locations[0].City != "New York" {
		t.Errorf("expected just New York under 'dr', got %+v", locations)
	}

	locations, _ = store.FindByGeohashPrefix("zz")
	if len(locations) != 0 {
		t.Errorf("expected no matches for 'zz', got %d", len(locations))
	}
}
