package main

import (
	"fmt"
	"net/http"

	"github.com/evyataryagoni/geosearch/internal/cache"
	"github.com/evyataryagoni/geosearch/internal/config"
	"github.com/evyataryagoni/geosearch/internal/handler"
	"github.com/evyataryagoni/geosearch/internal/limiter"
	"github.com/evyataryagoni/geosearch/internal/logger"
	"github.com/evyataryagoni/geosearch/internal/metrics"
	"github.com/evyataryagoni/geosearch/internal/router"
	"github.com/evyataryagoni/geosearch/internal/service"
	"github.com/evyataryagoni/geosearch/internal/store"
)

// @title           GeoSearch API
// @version         1.0
// @description     A location search service ranking records by text similarity and geographic proximity, with query caching and rate limiting

// @host      localhost:3000
// @BasePath  /
func main() {
	// Load configuration
	appConfig := config.Load()

	// Initialize components
	appLogger := setupLogger(appConfig)
	dataStore := setupDataStore(appConfig, appLogger)
	queryCache := setupCache(appConfig, appLogger)

	rateLimiter := setupRateLimiter(appConfig, appLogger)
	defer rateLimiter.Close()

	metricsCollector := setupMetrics(appLogger)

	// Build application layers
	searchService := service.NewSearchService(dataStore, queryCache, metricsCollector, appLogger)
	defer searchService.Close()

	searchHandler := handler.NewSearchHandler(searchService)
	appRouter := router.SetupRouter(searchHandler, rateLimiter, metricsCollector, appLogger)

	// Start server
	startServer(appConfig, appRouter, appLogger)
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	appLogger.Info().Msg("Starting GeoSearch Server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("datastore_type", appConfig.DatastoreType).
		Str("cache_type", appConfig.CacheType).
		Dur("cache_ttl", appConfig.CacheTTL).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Msg("Configuration loaded")

	return appLogger
}

// setupDataStore initializes the location store based on configuration
// Supports MySQL and CSV backends
func setupDataStore(appConfig *config.Config, log *logger.Logger) store.Store {
	var dataStore store.Store
	var err error

	switch appConfig.DatastoreType {
	case "mysql":
		dataStore, err = store.NewMySQLStore(appConfig.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize MySQL store")
		}
		fmt.Println("✅ MySQL store initialized")

	case "csv":
		dataStore, err = store.NewCSVStore(appConfig.DatastorePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize CSV store")
		}
		fmt.Println("✅ CSV store initialized")

	default:
		log.Fatal().Str("type", appConfig.DatastoreType).Msg("Unknown datastore type")
	}

	// Startup diagnostic: how many records are searchable
	if total, err := dataStore.Count(); err != nil {
		log.Warn().Err(err).Msg("Failed to count location records")
	} else {
		log.Info().Int64("records", total).Msg("Location store ready")
	}

	return dataStore
}

// setupCache initializes the query cache based on configuration
func setupCache(appConfig *config.Config, log *logger.Logger) cache.Cache {
	queryCache, err := cache.New(cache.Config{
		Type:          appConfig.CacheType,
		TTL:           appConfig.CacheTTL,
		SweepInterval: appConfig.CacheSweepInterval,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize query cache")
	}

	fmt.Printf("✅ Query cache initialized (type: %s, ttl: %s)\n", appConfig.CacheType, appConfig.CacheTTL)

	return queryCache
}

// setupRateLimiter initializes the rate limiter
// Supports in-memory and Redis-based rate limiting
func setupRateLimiter(appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	// Effective rate in requests per second
	// Example: 100 requests per 60 seconds = 1.67 req/s
	effectiveRate := float64(appConfig.RateLimit) / float64(appConfig.RateLimitWindow)

	rateLimiter, err := limiter.NewLimiter(limiter.LimiterConfig{
		Type:              appConfig.RateLimitType,
		RequestsPerSecond: effectiveRate,
		RedisAddr:         appConfig.RedisAddr,
		RedisPassword:     appConfig.RedisPassword,
		RedisDB:           appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	fmt.Printf("✅ Rate limiter initialized (type: %s, limit: %d req per %d sec = %.2f req/s)\n",
		appConfig.RateLimitType, appConfig.RateLimit, appConfig.RateLimitWindow, effectiveRate)

	return rateLimiter
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New()
	log.Info().Msg("Metrics initialized")
	return metricsCollector
}

// startServer starts the HTTP server and blocks
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) {
	serverAddr := ":" + appConfig.Port

	log.Info().
		Str("port", appConfig.Port).
		Str("api_endpoint", "http://localhost:"+appConfig.Port+"/v1/search?q=<text>").
		Str("health_check", "http://localhost:"+appConfig.Port+"/health").
		Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
		Msg("Server is running")

	log.Fatal().Err(http.ListenAndServe(serverAddr, appRouter)).Msg("Server failed")
}
