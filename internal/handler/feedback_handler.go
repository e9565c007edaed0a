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

// FeedbackHandler handles feedback submission requests
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	logger          *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService *service.FeedbackService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// SubmitFeedback handles submitting feedback for a completed move
// POST /api/v1/moves/:id/feedback
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	var request model.FeedbackCreate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.feedbackService.Submit(c.Request.Context(), identity.ClientID, id, &request)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Move not found"})
		case errors.Is(err, service.ErrMoveNotCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Move is not completed yet"})
		case errors.Is(err, service.ErrFeedbackExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Feedback already submitted for this move"})
		default:
			h.logger.Error("Failed to submit feedback", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit feedback"})
		}
		return
	}

	c.JSON(http.StatusCreated, feedback)
}
