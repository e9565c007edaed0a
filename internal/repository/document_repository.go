package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DocumentRepository handles database operations for document metadata
type DocumentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sqlx.DB, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// ListByClient retrieves document metadata for all of the client's moves,
// optionally filtered to one move, newest first.
func (r *DocumentRepository) ListByClient(ctx context.Context, clientID, moveID string) ([]model.Document, error) {
	query := `SELECT d.id, d.move_id, d.filename, d.file_url, d.storage_path,
	                 d.file_size, d.content_type, d.uploaded_at
	          FROM documents d
	          JOIN moves m ON m.id = d.move_id
	          WHERE m.client_id = $1
	            AND (NULLIF($2, '') IS NULL OR d.move_id = NULLIF($2, '')::uuid)
	          ORDER BY d.uploaded_at DESC`

	var documents []model.Document
	if err := r.db.SelectContext(ctx, &documents, query, clientID, moveID); err != nil {
		r.logger.Error("Failed to list documents", zap.Error(err), zap.String("client_id", clientID))
		return nil, err
	}

	return documents, nil
}

// GetByID retrieves one document owned by the client
func (r *DocumentRepository) GetByID(ctx context.Context, clientID, id string) (*model.Document, error) {
	query := `SELECT d.id, d.move_id, d.filename, d.file_url, d.storage_path,
	                 d.file_size, d.content_type, d.uploaded_at
	          FROM documents d
	          JOIN moves m ON m.id = d.move_id
	          WHERE d.id = $1 AND m.client_id = $2`

	var doc model.Document
	if err := r.db.GetContext(ctx, &doc, query, id, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get document", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &doc, nil
}

// Insert writes the metadata row for an uploaded blob together with its
// change-feed event.
func (r *DocumentRepository) Insert(ctx context.Context, clientID string, doc *model.Document) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin insert-document transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, move_id, filename, file_url, storage_path,
		                        file_size, content_type, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.ID, doc.MoveID, doc.Filename, doc.FileURL, doc.StoragePath,
		doc.FileSize, doc.ContentType, doc.UploadedAt)
	if err != nil {
		r.logger.Error("Failed to insert document", zap.Error(err))
		return err
	}

	event := map[string]interface{}{"document_id": doc.ID, "move_id": doc.MoveID, "filename": doc.Filename}
	if err := appendOutboxEvent(ctx, tx, model.EventDocumentUploaded, clientID, event); err != nil {
		r.logger.Error("Failed to append outbox event", zap.Error(err))
		return err
	}

	return tx.Commit()
}

// Delete removes the metadata row
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		r.logger.Error("Failed to delete document", zap.Error(err), zap.String("id", id))
		return err
	}
	return nil
}
