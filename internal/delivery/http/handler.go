package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dealscout/backend/internal/domain"
	"github.com/dealscout/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const noResultsMessage = "We couldn't find any products matching your search. Please try different keywords."

// SearchUsecase is the pipeline the handlers delegate to
type SearchUsecase interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)
	Track(req *domain.TrackRequest) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search SearchUsecase
}

// NewHandler creates a new HTTP handler. A nil search usecase makes the
// search and track endpoints answer 503.
func NewHandler(search SearchUsecase) *Handler {
	return &Handler{search: search}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dealscout-backend",
		"version": "1.0.0",
	})
}

// Search classifies a query and answers with a comparison, a clarification
// form or a not-yet-available placeholder
func (h *Handler) Search(c *gin.Context) {
	if h.search == nil {
		notConfigured(c)
		return
	}

	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		errorResponse(c, http.StatusBadRequest, "invalid_request", "Query is required")
		return
	}

	resp, err := h.search.Search(c.Request.Context(), &req)
	switch {
	case errors.Is(err, domain.ErrAggregationEmpty):
		body := gin.H{"error": "no_results", "message": noResultsMessage}
		if resp != nil {
			body["sources"] = resp.Sources
		}
		c.JSON(http.StatusNotFound, body)
		return
	case errors.Is(err, domain.ErrInvalidRequest):
		errorResponse(c, http.StatusBadRequest, "invalid_request", "Query is required")
		return
	case err != nil:
		zap.L().Error("search failed", zap.String("query", req.Query), zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "internal_error", "Search failed")
		return
	}

	switch {
	case resp.Clarification != nil:
		c.JSON(http.StatusBadRequest, resp.Clarification)
	case resp.Comparison != nil:
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"vertical":       resp.Classification.Vertical,
			"classification": resp.Classification,
			"results":        resp.Comparison.Results,
			"totalResults":   resp.Comparison.TotalResults,
			"bestDeal":       resp.Comparison.BestDeal,
			"averagePrice":   resp.Comparison.AveragePrice,
			"sources":        resp.Sources,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  false,
			"vertical": resp.Classification.Vertical,
			"message":  resp.Placeholder,
			"results":  []domain.ListingResult{},
		})
	}
}

// Track records a click or other action on a listing
func (h *Handler) Track(c *gin.Context) {
	if h.search == nil {
		notConfigured(c)
		return
	}

	var req domain.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid_request", "productName and vendor are required")
		return
	}

	if err := h.search.Track(&req); err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			errorResponse(c, http.StatusBadRequest, "invalid_request", "productName and vendor are required")
			return
		}
		zap.L().Error("track failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "internal_error", "Tracking failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeepLink resolves a vendor search URL for a query
func (h *Handler) DeepLink(c *gin.Context) {
	vendor := strings.TrimSpace(c.Query("vendor"))
	query := strings.TrimSpace(c.Query("q"))
	if vendor == "" || query == "" {
		errorResponse(c, http.StatusBadRequest, "invalid_request", "vendor and q are required")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": usecase.VendorDeepLink(vendor, query)})
}

func errorResponse(c *gin.Context, status int, category, message string) {
	c.JSON(status, gin.H{"error": category, "message": message})
}

func notConfigured(c *gin.Context) {
	errorResponse(c, http.StatusServiceUnavailable, "internal_error", "search service not configured")
}
