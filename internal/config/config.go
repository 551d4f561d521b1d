package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Rate limiting
	RateLimitType   string // "memory" or "redis"
	RateLimit       int    // number of requests allowed per window
	RateLimitWindow int    // time window in seconds

	// Datastore configuration
	DatastoreType string // "mysql" or "csv"
	DatastorePath string // path to the geolocation CSV file

	// MySQL configuration
	MySQLDSN string // Data Source Name

	// Query cache configuration
	CacheType          string        // "memory" or "redis"
	CacheTTL           time.Duration // per-entry time-to-live
	CacheSweepInterval time.Duration // memory cache eviction period

	// Redis configuration (shared by cache and limiter)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	// Load .env file if it exists (for local development)
	// In production/Docker, environment variables are set directly
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port: getEnv("PORT", "3000"),

		// Rate limiting (default: memory, 100 requests per 60 seconds)
		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 100),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 60),

		// Datastore config
		DatastoreType: getEnv("DATASTORE_TYPE", "mysql"),
		DatastorePath: getEnv("DATASTORE_PATH", "./data/geolocation_data.csv"),

		// MySQL config
		MySQLDSN: getEnv("MYSQL_DSN", ""),

		// Query cache: one hour TTL, ten minute sweep
		CacheType:          getEnv("CACHE_TYPE", "memory"),
		CacheTTL:           getEnvAsSeconds("CACHE_TTL", 3600),
		CacheSweepInterval: getEnvAsSeconds("CACHE_SWEEP_INTERVAL", 600),

		// Redis config
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns the default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSeconds reads an environment variable holding a second count
// and returns it as a Duration
func getEnvAsSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSeconds)) * time.Second
}
