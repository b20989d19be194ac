package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skiguide/backend/internal/domain"
	"github.com/skiguide/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	queries *usecase.QueryService
}

// NewHandler creates a new HTTP handler
func NewHandler(queries *usecase.QueryService) *Handler {
	return &Handler{queries: queries}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "skiguide-backend",
		"version": "1.0.0",
	})
}

// QueryRequest is the body of POST /api/v1/query. Products optionally names
// the skis the question is about, for callers that already resolved them
// (e.g. a product page asking about the ski being viewed).
type QueryRequest struct {
	Query    string   `json:"query" binding:"required"`
	Products []string `json:"products,omitempty"`
}

// AnswerQuery answers one catalog question. The response status is 200 for
// every processed query, including invalid ones: the outcome is carried in the
// result's classification and confidence, and the pipeline never errors.
func (h *Handler) AnswerQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": domain.ErrInvalidRequest.Error(),
		})
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": domain.ErrInvalidQuery.Error(),
		})
		return
	}

	var result *domain.QueryResult
	if len(req.Products) > 0 {
		result = h.queries.AnswerWithProducts(c.Request.Context(), req.Query, req.Products)
	} else {
		result = h.queries.Answer(c.Request.Context(), req.Query)
	}

	c.JSON(http.StatusOK, result)
}
