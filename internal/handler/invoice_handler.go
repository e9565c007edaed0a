package handler

import (
	"net/http"

	"github.com/yourorg/moving-portal/internal/middleware"
	"github.com/yourorg/moving-portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// ListInvoices handles retrieving all invoices across the caller's moves
// GET /api/v1/invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	invoices, err := h.invoiceService.List(c.Request.Context(), identity.ClientID)
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}
