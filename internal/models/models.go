package models

// Location represents a single geolocation record
// All text fields are optional in the source data, so empty string means "absent"
// Latitude/Longitude use pointers so a missing coordinate is distinguishable
// from a coordinate of exactly 0.0
type Location struct {
	ID        uint     `json:"id"`
	Street    string   `json:"street,omitempty"`
	City      string   `json:"city,omitempty"`
	ZipCode   string   `json:"zip_code,omitempty"`
	County    string   `json:"county,omitempty"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	TimeZone  string   `json:"time_zone,omitempty"`
	Geohash   string   `json:"geohash,omitempty"` // Derived from lat/lon at load time
}

// SearchQuery holds the normalized parameters of a search request
// Latitude and Longitude are independently nullable: "has coordinates"
// means both pointers are non-nil
type SearchQuery struct {
	SearchText string   `json:"search_text"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Page       int      `json:"page"`  // 1-based, defaults to 1
	Limit      int      `json:"limit"` // Page size, defaults to 10
}

// HasCoordinates reports whether both coordinates were supplied
func (q *SearchQuery) HasCoordinates() bool {
	return q.Latitude != nil && q.Longitude != nil
}

// ScoredResult is a location record plus its relevance score
// Score is in [0,1] for all paths except the text+coordinates blend,
// where very distant points can push it below zero
type ScoredResult struct {
	Location
	Score float64 `json:"score"`
}

// Meta describes pagination state for a result set
// Total is the match count before the page/limit slice
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// SearchResponse is the result of a search operation
// Success is false exactly when Error is set; failed searches carry no
// results and are never cached
type SearchResponse struct {
	Success bool           `json:"success"`
	Results []ScoredResult `json:"results,omitempty"`
	Meta    *Meta          `json:"meta,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ErrorResponse is the standard error response format for the HTTP layer
type ErrorResponse struct {
	Error string `json:"error"`
}
