package v1

import (
	"github.com/go-chi/chi/v5"

	"github.com/evyataryagoni/geosearch/internal/handler"
)

// SetupRoutes configures all v1 API routes
// This function is called by the main router to setup /v1/* endpoints
func SetupRoutes(searchHandler *handler.SearchHandler) chi.Router {
	r := chi.NewRouter()

	// Location search endpoint
	// GET /v1/search?q=<text>&latitude=<lat>&longitude=<lon>&page=<n>&limit=<n>
	r.Get("/search", searchHandler.Search)

	// Cache flush endpoint
	// DELETE /v1/cache
	r.Delete("/cache", searchHandler.FlushCache)

	return r
}
