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

// MoveHandler handles move-related HTTP requests
type MoveHandler struct {
	moveService    *service.MoveService
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

// NewMoveHandler creates a new move handler
func NewMoveHandler(moveService *service.MoveService, invoiceService *service.InvoiceService, logger *zap.Logger) *MoveHandler {
	return &MoveHandler{
		moveService:    moveService,
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// ListMoves handles retrieving the caller's moves with progress
// GET /api/v1/moves
func (h *MoveHandler) ListMoves(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	moves, err := h.moveService.List(c.Request.Context(), identity.ClientID)
	if err != nil {
		h.logger.Error("Failed to list moves", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list moves"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"moves": moves})
}

// GetMove handles retrieving one move with its updates and progress
// GET /api/v1/moves/:id
func (h *MoveHandler) GetMove(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	details, err := h.moveService.Get(c.Request.Context(), identity.ClientID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Move not found"})
			return
		}
		h.logger.Error("Failed to get move", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get move"})
		return
	}

	c.JSON(http.StatusOK, details)
}

// RequestQuote handles creating a new move in the quote_sent state
// POST /api/v1/quote-requests
func (h *MoveHandler) RequestQuote(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	var request model.QuoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	move, err := h.moveService.RequestQuote(c.Request.Context(), identity.ClientID, identity.CompanyID, &request)
	if err != nil {
		h.logger.Error("Failed to create quote request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quote request"})
		return
	}

	c.JSON(http.StatusCreated, move)
}

// ListMoveInvoices handles retrieving invoices for one move
// GET /api/v1/moves/:id/invoices
func (h *MoveHandler) ListMoveInvoices(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListByMove(c.Request.Context(), identity.ClientID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Move not found"})
			return
		}
		h.logger.Error("Failed to list invoices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}
