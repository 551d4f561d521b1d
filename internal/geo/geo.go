package geo

import (
	"math"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"

	"github.com/evyataryagoni/geosearch/internal/models"
)

// Scoring constants
// These are policy values, not physical truths: MaxDistanceKm is the
// equatorial circumference used to normalize haversine distance into a
// [~0,1] score, and prefix scoring saturates at 4 shared characters
// even though stored hashes are longer
const (
	// EarthRadiusKm is the Earth radius used for great-circle distance
	EarthRadiusKm = 6371.0

	// MaxDistanceKm normalizes haversine distance in the combined score
	MaxDistanceKm = 40075.0

	// GeohashScoreDivisor divides the common-prefix length when scoring
	GeohashScoreDivisor = 4.0

	// GeohashScoreFloor is the minimum proximity score; records sharing no
	// prefix characters still score this much so coordinate-only search
	// never fully excludes a hit on its own
	GeohashScoreFloor = 0.1

	// QueryGeohashPrecision is the prefix length encoded from query
	// coordinates for coarse matching
	QueryGeohashPrecision = 2

	// StoredGeohashPrecision is the precision used when deriving a
	// record's geohash at load time
	StoredGeohashPrecision = 9
)

// Per-field weights for text scoring; they sum to 1.0 and zip code dominates
const (
	WeightZipCode = 0.40
	WeightCountry = 0.25
	WeightCity    = 0.15
	WeightCounty  = 0.15
	WeightStreet  = 0.05
)

// Blend weights for the text+coordinates combined score
const (
	CombinedTextWeight = 0.6
	CombinedGeoWeight  = 0.4
)

// HaversineDistanceKm computes the great-circle distance in kilometers
// between two points given in degrees
// No range validation is performed here; callers validate coordinates
func HaversineDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// GeohashProximityScore scores two geohashes by shared prefix length
//
// Returns 1.0 on exact equality; otherwise counts common prefix characters
// (stopping at the first mismatch, bounded by the shorter hash), divides by
// GeohashScoreDivisor, scales by 0.8 and floors at GeohashScoreFloor
func GeohashProximityScore(queryHash, recordHash string) float64 {
	if queryHash == recordHash {
		return 1.0
	}

	minLength := len(queryHash)
	if len(recordHash) < minLength {
		minLength = len(recordHash)
	}

	matching := 0
	for i := 0; i < minLength; i++ {
		if queryHash[i] != recordHash[i] {
			break
		}
		matching++
	}

	score := (float64(matching) / GeohashScoreDivisor) * 0.8
	return math.Max(GeohashScoreFloor, score)
}

// TextMatchScore scores a query string against a record's text fields
//
// Each field gets a match ratio: 1.0 on exact (case-insensitive) equality,
// len(query)/len(field) when the field contains the query as a substring,
// 0 otherwise. The final score is the maximum single weighted contribution
// across all fields, not a sum, rounded to 2 decimals. A perfect zip match
// (0.40) beats a perfect street match (0.05); partial matches on different
// fields do not accumulate. Missing fields contribute 0
func TextMatchScore(searchText string, location *models.Location) float64 {
	query := strings.ToLower(strings.TrimSpace(searchText))
	maxScore := 0.0

	fields := []struct {
		value  string
		weight float64
	}{
		{location.ZipCode, WeightZipCode},
		{location.Country, WeightCountry},
		{location.City, WeightCity},
		{location.County, WeightCounty},
		{location.Street, WeightStreet},
	}

	for _, f := range fields {
		ratio := matchRatio(query, strings.ToLower(f.value))
		if contribution := f.weight * ratio; contribution > maxScore {
			maxScore = contribution
		}
	}

	return Round2(maxScore)
}

// matchRatio rewards the query covering a larger fraction of the field:
// a short query matching a long field scores low, the full field scores 1.0
func matchRatio(query, fieldValue string) float64 {
	if query == fieldValue {
		return 1.0
	}
	if fieldValue != "" && strings.Contains(fieldValue, query) {
		return float64(len(query)) / float64(len(fieldValue))
	}
	return 0
}

// CombinedScore blends a text score with a distance-derived geo score
//
// The geo score is 1 - distance/MaxDistanceKm and is deliberately not
// clamped, so antipodal points can drag the result below zero
func CombinedScore(textScore, distanceKm float64) float64 {
	geoScore := 1 - (distanceKm / MaxDistanceKm)
	return Round2(CombinedTextWeight*textScore + CombinedGeoWeight*geoScore)
}

// EncodePoint encodes a lat/lon pair to a geohash of the given precision
func EncodePoint(lat, lon float64, precision int) string {
	return geohash.EncodeWithPrecision(lat, lon, precision)
}

// Round2 rounds to 2 decimal digits, the precision of every score the
// service emits
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
