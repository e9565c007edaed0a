package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/yourorg/moving-portal/internal/model"
	"github.com/yourorg/moving-portal/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// documentStore is the slice of the document repository the service needs.
type documentStore interface {
	ListByClient(ctx context.Context, clientID, moveID string) ([]model.Document, error)
	GetByID(ctx context.Context, clientID, id string) (*model.Document, error)
	Insert(ctx context.Context, clientID string, doc *model.Document) error
	Delete(ctx context.Context, id string) error
}

// moveLookup verifies move ownership before touching storage.
type moveLookup interface {
	GetByID(ctx context.Context, id string) (*model.Move, error)
}

// DocumentService handles document upload, listing and deletion
type DocumentService struct {
	documents documentStore
	moves     moveLookup
	blobs     storage.Storage
	activity  activityLog
	logger    *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(documents documentStore, moves moveLookup, blobs storage.Storage, activity activityLog, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		documents: documents,
		moves:     moves,
		blobs:     blobs,
		activity:  activity,
		logger:    logger,
	}
}

// List retrieves the client's document metadata, optionally filtered by move
func (s *DocumentService) List(ctx context.Context, clientID, moveID string) ([]model.Document, error) {
	return s.documents.ListByClient(ctx, clientID, moveID)
}

// Upload stores the blob and then its metadata row. The move id is validated
// before any storage or database call. If the metadata insert fails the blob
// is deleted again, so neither an orphan row nor an orphan blob survives.
func (s *DocumentService) Upload(ctx context.Context, clientID, moveID string, file *multipart.FileHeader) (*model.Document, error) {
	if moveID == "" {
		return nil, ErrMoveRequired
	}

	move, err := s.moves.GetByID(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if move == nil || move.ClientID != clientID {
		return nil, ErrNotFound
	}

	blob, err := s.blobs.Store(ctx, file, moveID)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:          uuid.NewString(),
		MoveID:      moveID,
		Filename:    file.Filename,
		FileURL:     blob.URL,
		StoragePath: blob.Path,
		FileSize:    blob.Size,
		ContentType: file.Header.Get("Content-Type"),
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.documents.Insert(ctx, clientID, doc); err != nil {
		if delErr := s.blobs.Delete(ctx, blob.Path); delErr != nil {
			s.logger.Error("failed to remove blob after metadata failure",
				zap.Error(delErr), zap.String("path", blob.Path))
		}
		return nil, err
	}

	if err := s.activity.AppendActivity(ctx, clientID, "document_uploaded", doc.Filename); err != nil {
		s.logger.Warn("failed to append activity", zap.Error(err), zap.String("client_id", clientID))
	}

	return doc, nil
}

// Delete removes the metadata row and the blob it points at
func (s *DocumentService) Delete(ctx context.Context, clientID, documentID string) error {
	doc, err := s.documents.GetByID(ctx, clientID, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}

	if err := s.documents.Delete(ctx, documentID); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, doc.StoragePath); err != nil {
		// The reference is gone; an unreferenced blob is logged, not fatal.
		s.logger.Error("failed to delete blob", zap.Error(err), zap.String("path", doc.StoragePath))
	}

	return nil
}
