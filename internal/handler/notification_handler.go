package handler

import (
	"net/http"

	"github.com/yourorg/moving-portal/internal/middleware"
	"github.com/yourorg/moving-portal/internal/model"
	"github.com/yourorg/moving-portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListNotifications handles retrieving the caller's notifications, newest first
// GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	response, err := h.notificationService.List(c.Request.Context(), identity.ClientID)
	if err != nil {
		h.logger.Error("Failed to get notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetUnreadCount handles retrieving the unread notification count
// GET /api/v1/notifications/count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	count, err := h.notificationService.UnreadCount(c.Request.Context(), identity.ClientID)
	if err != nil {
		h.logger.Error("Failed to get unread notification count", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notification count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkAsRead handles marking one notification as read
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), identity.ClientID, id); err != nil {
		h.logger.Error("Failed to mark notification as read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllAsRead handles marking a batch of notifications as read
// POST /api/v1/notifications/mark-all-read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	var request model.MarkAllReadRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.notificationService.MarkAllRead(c.Request.Context(), identity.ClientID, request.IDs)
	if err != nil {
		h.logger.Error("Failed to mark notifications as read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": count})
}

// CreateNotification handles creating a notification for a client
// POST /api/v1/admin/notifications
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var request model.NotificationCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.notificationService.Create(c.Request.Context(), &request)
	if err != nil {
		h.logger.Error("Failed to create notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}

	c.JSON(http.StatusCreated, notification)
}
