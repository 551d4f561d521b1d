package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/evyataryagoni/geosearch/internal/models"
	"github.com/evyataryagoni/geosearch/internal/service"
)

// SearchHandler handles HTTP requests for location search
// This is the handler layer - it deals with HTTP concerns only
//
// Responsibilities:
//   - Parse query parameters into a SearchQuery
//   - Call service methods
//   - Format JSON responses and pick status codes
//   - NO business logic (that's in the service layer)
type SearchHandler struct {
	service *service.SearchService
}

// NewSearchHandler creates a new search handler with the given service
func NewSearchHandler(service *service.SearchService) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// Search handles GET /v1/search?q=<text>&latitude=<lat>&longitude=<lon>&page=<n>&limit=<n>
// @Summary      Search location records
// @Description  Rank location records against free text, coordinates, or both
// @Tags         Location Search
// @Accept       json
// @Produce      json
// @Param        q          query     string  false  "Free-text query"            example(New York)
// @Param        latitude   query     number  false  "Latitude in [-90,90]"       example(40.7128)
// @Param        longitude  query     number  false  "Longitude in [-180,180]"    example(-74.0060)
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 10)"
// @Success      200  {object}  models.SearchResponse
// @Failure      400  {object}  models.SearchResponse  "Invalid coordinates or parameters"
// @Failure      429  {object}  models.ErrorResponse   "Rate limit exceeded"
// @Failure      500  {object}  models.SearchResponse  "Store failure"
// @Router       /v1/search [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	// Step 1: Parse query parameters
	query, err := parseQuery(r)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, &models.SearchResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	// Step 2: Call the service layer
	// The service never returns a Go error; failures are tagged responses
	response := h.service.Search(query)

	// Step 3: Map the response to a status code
	h.respondJSON(w, statusFor(response), response)
}

// FlushCache handles DELETE /v1/cache
// @Summary      Flush the query cache
// @Description  Remove every cached search response immediately
// @Tags         Location Search
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      500  {object}  models.ErrorResponse
// @Router       /v1/cache [delete]
func (h *SearchHandler) FlushCache(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCache(); err != nil {
		h.respondJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to flush cache"})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// parseQuery builds a SearchQuery from request parameters
// Presence matters: an absent coordinate stays nil, a malformed one is an
// error (the service handles range validation)
func parseQuery(r *http.Request) (*models.SearchQuery, error) {
	params := r.URL.Query()

	query := &models.SearchQuery{
		SearchText: params.Get("q"),
	}

	var err error
	if query.Latitude, err = parseFloatParam(params.Get("latitude"), "Invalid latitude format"); err != nil {
		return nil, err
	}
	if query.Longitude, err = parseFloatParam(params.Get("longitude"), "Invalid longitude format"); err != nil {
		return nil, err
	}
	if query.Page, err = parseIntParam(params.Get("page"), "Invalid page format"); err != nil {
		return nil, err
	}
	if query.Limit, err = parseIntParam(params.Get("limit"), "Invalid limit format"); err != nil {
		return nil, err
	}

	return query, nil
}

func parseFloatParam(raw, errMsg string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &paramError{errMsg}
	}
	return &value, nil
}

func parseIntParam(raw, errMsg string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{errMsg}
	}
	return value, nil
}

// paramError marks a malformed request parameter
type paramError struct {
	msg string
}

func (e *paramError) Error() string { return e.msg }

// statusFor maps a service response to an HTTP status code
// Validation errors are the caller's fault (400); anything else that
// failed is a server-side problem (500)
func statusFor(response *models.SearchResponse) int {
	if response.Success {
		return http.StatusOK
	}
	if response.Error == service.ErrMsgInvalidLatitude || response.Error == service.ErrMsgInvalidLongitude {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondJSON writes a JSON response with the given status code
func (h *SearchHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing left to do but report it
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
