package repository

import (
	"context"
	"time"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// FeedbackRepository handles database operations for move feedback
type FeedbackRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *sqlx.DB, logger *zap.Logger) *FeedbackRepository {
	return &FeedbackRepository{
		db:     db,
		logger: logger,
	}
}

// Insert writes a feedback row for a move
func (r *FeedbackRepository) Insert(ctx context.Context, moveID string, create *model.FeedbackCreate) (*model.Feedback, error) {
	fb := &model.Feedback{
		ID:        uuid.NewString(),
		MoveID:    moveID,
		Stars:     create.Stars,
		CreatedAt: time.Now().UTC(),
	}
	if create.Comment != "" {
		fb.Comment = &create.Comment
	}

	query := `INSERT INTO feedback (id, move_id, stars, comment, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query, fb.ID, fb.MoveID, fb.Stars, fb.Comment, fb.CreatedAt); err != nil {
		r.logger.Error("Failed to insert feedback", zap.Error(err), zap.String("move_id", moveID))
		return nil, err
	}

	return fb, nil
}

// ExistsForMove reports whether feedback was already submitted for a move
func (r *FeedbackRepository) ExistsForMove(ctx context.Context, moveID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM feedback WHERE move_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, moveID); err != nil {
		r.logger.Error("Failed to check feedback existence", zap.Error(err), zap.String("move_id", moveID))
		return false, err
	}

	return exists, nil
}
