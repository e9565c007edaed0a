package handler

import (
	"errors"
	"net/http"

	"github.com/yourorg/moving-portal/internal/middleware"
	"github.com/yourorg/moving-portal/internal/model"
	"github.com/yourorg/moving-portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// ListQuotes handles retrieving the caller's quotes
// GET /api/v1/quotes
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	quotes, err := h.quoteService.List(c.Request.Context(), identity.ClientID)
	if err != nil {
		h.logger.Error("Failed to list quotes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list quotes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

// GetQuote handles retrieving one quote with its move
// GET /api/v1/quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	details, err := h.quoteService.Get(c.Request.Context(), identity.ClientID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		h.logger.Error("Failed to get quote", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get quote"})
		return
	}

	c.JSON(http.StatusOK, details)
}

// ApproveQuote handles approving a quote and advancing its move
// POST /api/v1/quotes/:id/approve
func (h *QuoteHandler) ApproveQuote(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	// The notes body is optional
	var request model.QuoteApproval
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	details, err := h.quoteService.Approve(c.Request.Context(), identity.ClientID, id, &request)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		h.logger.Error("Failed to approve quote", zap.Error(err), zap.String("quote_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve quote"})
		return
	}

	c.JSON(http.StatusOK, details)
}
