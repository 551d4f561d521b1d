package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evyataryagoni/geosearch/internal/handler"
	"github.com/evyataryagoni/geosearch/internal/limiter"
	"github.com/evyataryagoni/geosearch/internal/logger"
	"github.com/evyataryagoni/geosearch/internal/metrics"
	custommiddleware "github.com/evyataryagoni/geosearch/internal/middleware"
	v1 "github.com/evyataryagoni/geosearch/internal/router/v1"
)

// SetupRouter creates and configures the Chi router with all middleware and routes
//
// Parameters:
//   - searchHandler: the location search handler
//   - rateLimiter: the rate limiter (memory or Redis)
//   - m: metrics collector
//   - log: structured logger
//
// Returns:
//   - chi.Router: configured router ready to use
func SetupRouter(searchHandler *handler.SearchHandler, rateLimiter limiter.Limiter, m *metrics.Metrics, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	// Apply global middleware - these run on every request
	// Order matters! RequestID should be first, then logging, then rate limiting
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.RateLimitMiddleware(rateLimiter))
	r.Use(custommiddleware.MetricsMiddleware(m))

	// Mount v1 API routes under /v1 prefix
	r.Mount("/v1", v1.SetupRoutes(searchHandler))

	// Root-level routes (not versioned)
	// Health check endpoint - used by load balancers and monitoring
	r.Get("/health", healthCheckHandler)

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// healthCheckHandler is a simple health check endpoint
// Returns 200 OK if the service is running
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
