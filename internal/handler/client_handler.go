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

// ClientHandler handles client profile, activity and catalog requests
type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// GetProfile handles retrieving the caller's profile with its company
// GET /api/v1/me/profile
func (h *ClientHandler) GetProfile(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	profile, err := h.clientService.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		h.logger.Error("Failed to get profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles partial profile updates
// PATCH /api/v1/me/profile
func (h *ClientHandler) UpdateProfile(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	var request model.ClientUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.clientService.UpdateProfile(c.Request.Context(), identity.UserID, identity.ClientID, &request)
	if err != nil {
		h.logger.Error("Failed to update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListActivity handles retrieving the caller's activity log
// GET /api/v1/me/activity
func (h *ClientHandler) ListActivity(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	entries, err := h.clientService.ListActivity(c.Request.Context(), identity.ClientID)
	if err != nil {
		h.logger.Error("Failed to list activity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

// ListServices handles retrieving the company's service catalog
// GET /api/v1/services
func (h *ClientHandler) ListServices(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	services, err := h.clientService.ListServices(c.Request.Context(), identity.CompanyID)
	if err != nil {
		h.logger.Error("Failed to list services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}
