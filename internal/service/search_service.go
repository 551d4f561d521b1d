package service

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/evyataryagoni/geosearch/internal/cache"
	"github.com/evyataryagoni/geosearch/internal/geo"
	"github.com/evyataryagoni/geosearch/internal/logger"
	"github.com/evyataryagoni/geosearch/internal/metrics"
	"github.com/evyataryagoni/geosearch/internal/models"
	"github.com/evyataryagoni/geosearch/internal/store"
)

// Validation error messages; the HTTP layer matches on these to pick a
// status code, so they are part of the service contract
const (
	ErrMsgInvalidLatitude  = "Invalid latitude. Must be between -90 and 90"
	ErrMsgInvalidLongitude = "Invalid longitude. Must be between -180 and 180"
	errMsgUnexpected       = "An error occurred during search"
)

// Defaults applied to absent pagination fields
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// SearchService handles the business logic of location search
// This is the service layer - it sits between handlers and the store
//
// Responsibilities:
//   - Validate coordinates
//   - Check and populate the query cache
//   - Pick a retrieval strategy from the populated query fields
//   - Score, sort and paginate candidates
//   - Convert every failure into a tagged response; Search never panics
//     and never returns a Go error
type SearchService struct {
	store     store.Store
	cache     cache.Cache
	validator *validator.Validate
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewSearchService creates a new search service
//
// Parameters:
//   - st: any implementation of the Store interface
//   - c: the query cache (memory or Redis)
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewSearchService(st store.Store, c cache.Cache, m *metrics.Metrics, log *logger.Logger) *SearchService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &SearchService{
		store:     st,
		cache:     c,
		validator: validator.New(),
		metrics:   m,
		logger:    log.WithComponent("SearchService"),
	}
}

// Search runs a location search for the given query
//
// Strategy selection, in priority order:
//  1. Validation failure: immediate error, no cache or store access
//  2. Cache hit: return the cached response verbatim
//  3. Both coordinates present and a record matches them exactly:
//     single result with score 1.00, even if search text is also present
//  4. Text + coordinates: text retrieval, blended text/distance score
//  5. Text only: text retrieval, text score
//  6. Coordinates only: geohash-prefix retrieval, proximity score,
//     results at or below the score floor are dropped
//  7. Neither: empty success
//
// Successful responses are cached; failures never are
func (s *SearchService) Search(query *models.SearchQuery) (response *models.SearchResponse) {
	// Boundary guard: no fault may escape Search
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("Unexpected failure during search")
			if s.metrics != nil {
				s.metrics.SearchErrors.WithLabelValues("unexpected").Inc()
			}
			response = failure(errMsgUnexpected)
		}
	}()

	normalize(query)

	// Step 1: Validate coordinates
	// Each coordinate is checked independently; a present-but-invalid value
	// fails the whole query before any cache or store interaction
	if query.Latitude != nil {
		if err := s.validator.Var(*query.Latitude, "gte=-90,lte=90"); err != nil {
			s.logger.Warn().Float64("latitude", *query.Latitude).Msg("Latitude out of range")
			if s.metrics != nil {
				s.metrics.SearchErrors.WithLabelValues("validation").Inc()
			}
			return failure(ErrMsgInvalidLatitude)
		}
	}
	if query.Longitude != nil {
		if err := s.validator.Var(*query.Longitude, "gte=-180,lte=180"); err != nil {
			s.logger.Warn().Float64("longitude", *query.Longitude).Msg("Longitude out of range")
			if s.metrics != nil {
				s.metrics.SearchErrors.WithLabelValues("validation").Inc()
			}
			return failure(ErrMsgInvalidLongitude)
		}
	}

	// Step 2: Cache check
	key := cache.Key(query)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug().Str("cache_key", key).Msg("Query cache hit")
		if s.metrics != nil {
			s.metrics.QueryCacheOps.WithLabelValues("hit").Inc()
		}
		return cached
	}
	if s.metrics != nil {
		s.metrics.QueryCacheOps.WithLabelValues("miss").Inc()
	}

	// Step 3: Exact-coordinate short-circuit
	// Takes priority over text search even when search text is present
	if query.HasCoordinates() {
		start := time.Now()
		match, err := s.store.FindExact(*query.Latitude, *query.Longitude)
		s.observeStoreQuery("find_exact", start, err)
		if err != nil {
			return s.storeFailure("exact", err)
		}
		if match != nil {
			response := &models.SearchResponse{
				Success: true,
				Results: []models.ScoredResult{{Location: *match, Score: 1.00}},
				Meta:    &models.Meta{Page: query.Page, Limit: query.Limit, Total: 1},
			}
			return s.finish("exact", key, response)
		}
	}

	// Step 4: Text search with coordinates
	if query.SearchText != "" && query.HasCoordinates() {
		s.logger.Debug().Str("search_text", query.SearchText).Msg("Searching with text and coordinates")
		start := time.Now()
		records, total, err := s.store.FindByText(query.SearchText, query.Page, query.Limit)
		s.observeStoreQuery("find_by_text", start, err)
		if err != nil {
			return s.storeFailure("text_geo", err)
		}

		results := make([]models.ScoredResult, 0, len(records))
		for _, record := range records {
			textScore := geo.TextMatchScore(query.SearchText, record)

			// Records without stored coordinates get no distance component
			score := geo.Round2(geo.CombinedTextWeight * textScore)
			if record.Latitude != nil && record.Longitude != nil {
				distance := geo.HaversineDistanceKm(
					*query.Latitude, *query.Longitude,
					*record.Latitude, *record.Longitude,
				)
				score = geo.CombinedScore(textScore, distance)
			}

			results = append(results, models.ScoredResult{Location: *record, Score: score})
		}
		sortByScore(results)

		response := &models.SearchResponse{
			Success: true,
			Results: results,
			Meta:    &models.Meta{Page: query.Page, Limit: query.Limit, Total: total},
		}
		return s.finish("text_geo", key, response)
	}

	// Step 5: Text search only
	if query.SearchText != "" {
		start := time.Now()
		records, total, err := s.store.FindByText(query.SearchText, query.Page, query.Limit)
		s.observeStoreQuery("find_by_text", start, err)
		if err != nil {
			return s.storeFailure("text", err)
		}

		results := make([]models.ScoredResult, 0, len(records))
		for _, record := range records {
			results = append(results, models.ScoredResult{
				Location: *record,
				Score:    geo.TextMatchScore(query.SearchText, record),
			})
		}
		sortByScore(results)

		response := &models.SearchResponse{
			Success: true,
			Results: results,
			Meta:    &models.Meta{Page: query.Page, Limit: query.Limit, Total: total},
		}
		return s.finish("text", key, response)
	}

	// Step 6: Coordinates only
	if query.HasCoordinates() {
		prefix := geo.EncodePoint(*query.Latitude, *query.Longitude, geo.QueryGeohashPrecision)
		s.logger.Debug().Str("geohash_prefix", prefix).Msg("Searching with coordinates only")

		start := time.Now()
		records, err := s.store.FindByGeohashPrefix(prefix)
		s.observeStoreQuery("find_by_geohash_prefix", start, err)
		if err != nil {
			return s.storeFailure("geo", err)
		}

		// This is the one path that actively excludes low-proximity hits:
		// anything at the score floor is dropped before pagination
		scored := make([]models.ScoredResult, 0, len(records))
		for _, record := range records {
			score := geo.Round2(geo.GeohashProximityScore(prefix, record.Geohash))
			if score <= geo.GeohashScoreFloor {
				continue
			}
			scored = append(scored, models.ScoredResult{Location: *record, Score: score})
		}
		sortByScore(scored)

		total := int64(len(scored))
		scored = paginate(scored, query.Page, query.Limit)

		response := &models.SearchResponse{
			Success: true,
			Results: scored,
			Meta:    &models.Meta{Page: query.Page, Limit: query.Limit, Total: total},
		}
		return s.finish("geo", key, response)
	}

	// Step 7: Neither text nor coordinates
	response = &models.SearchResponse{
		Success: true,
		Results: []models.ScoredResult{},
		Meta:    &models.Meta{Page: query.Page, Limit: query.Limit, Total: 0},
	}
	return s.finish("none", key, response)
}

// ClearCache flushes every cached response immediately
func (s *SearchService) ClearCache() error {
	if err := s.cache.FlushAll(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to flush query cache")
		return err
	}
	s.logger.Info().Msg("Query cache flushed")
	if s.metrics != nil {
		s.metrics.QueryCacheFlushes.Inc()
	}
	return nil
}

// Close cleans up the service's resources (store connection, cache)
func (s *SearchService) Close() error {
	if err := s.cache.Close(); err != nil {
		return err
	}
	return s.store.Close()
}

// finish records metrics, caches the successful response and returns it
func (s *SearchService) finish(strategy, key string, response *models.SearchResponse) *models.SearchResponse {
	if s.metrics != nil {
		s.metrics.SearchesTotal.WithLabelValues(strategy, "success").Inc()
	}
	s.cache.Set(key, response)
	return response
}

// observeStoreQuery records count and latency for a single store call
func (s *SearchService) observeStoreQuery(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.DatastoreQueriesTotal.WithLabelValues(operation, status).Inc()
	s.metrics.DatastoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// storeFailure converts a store error into a failure response
// Store failures are logged for operators, counted, and never cached
func (s *SearchService) storeFailure(strategy string, err error) *models.SearchResponse {
	s.logger.Error().Err(err).Str("strategy", strategy).Msg("Store error during search")
	if s.metrics != nil {
		s.metrics.SearchesTotal.WithLabelValues(strategy, "error").Inc()
		s.metrics.SearchErrors.WithLabelValues("store_error").Inc()
	}
	return failure(err.Error())
}

func failure(message string) *models.SearchResponse {
	return &models.SearchResponse{
		Success: false,
		Error:   message,
	}
}

// normalize trims the search text and applies pagination defaults
func normalize(query *models.SearchQuery) {
	query.SearchText = strings.TrimSpace(query.SearchText)
	if query.Page < 1 {
		query.Page = DefaultPage
	}
	if query.Limit < 1 {
		query.Limit = DefaultLimit
	}
}

// sortByScore sorts descending by score; ties keep retrieval order
func sortByScore(results []models.ScoredResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// paginate slices an in-memory result set to the requested page
func paginate(results []models.ScoredResult, page, limit int) []models.ScoredResult {
	start := (page - 1) * limit
	if start >= len(results) {
		return []models.ScoredResult{}
	}
	end := start + limit
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}
