package handler

import (
	"errors"
	"net/http"

	"github.com/yourorg/moving-portal/internal/middleware"
	"github.com/yourorg/moving-portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentHandler handles document-related HTTP requests
type DocumentHandler struct {
	documentService *service.DocumentService
	logger          *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *service.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// ListDocuments handles retrieving documents, optionally filtered by move
// GET /api/v1/documents?move_id=...
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	moveID := c.Query("move_id")
	if moveID != "" {
		if _, err := uuid.Parse(moveID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid move id"})
			return
		}
	}

	documents, err := h.documentService.List(c.Request.Context(), identity.ClientID, moveID)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// UploadDocument handles uploading a document for a move
// POST /api/v1/documents  (multipart: move_id, file)
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	moveID := c.PostForm("move_id")
	if moveID != "" {
		if _, err := uuid.Parse(moveID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Move not found"})
			return
		}
	}

	document, err := h.documentService.Upload(c.Request.Context(), identity.ClientID, moveID, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMoveRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "move_id is required"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Move not found"})
		default:
			h.logger.Error("Failed to upload document", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document"})
		}
		return
	}

	c.JSON(http.StatusCreated, document)
}

// DeleteDocument handles deleting a document and its stored file
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	identity, _ := middleware.Identity(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), identity.ClientID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		h.logger.Error("Failed to delete document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
