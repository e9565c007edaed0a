package service

import (
	"context"

	"github.com/yourorg/moving-portal/internal/model"

	"go.uber.org/zap"
)

// feedbackStore is the slice of the feedback repository the service needs.
type feedbackStore interface {
	Insert(ctx context.Context, moveID string, create *model.FeedbackCreate) (*model.Feedback, error)
	ExistsForMove(ctx context.Context, moveID string) (bool, error)
}

// FeedbackService handles feedback submission for completed moves
type FeedbackService struct {
	feedback feedbackStore
	moves    moveLookup
	activity activityLog
	logger   *zap.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedback feedbackStore, moves moveLookup, activity activityLog, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		moves:    moves,
		activity: activity,
		logger:   logger,
	}
}

// Submit records feedback for one of the client's moves. The move must have
// reached the completed status; nothing is written otherwise. Submission
// never alters the move status.
func (s *FeedbackService) Submit(ctx context.Context, clientID, moveID string, create *model.FeedbackCreate) (*model.Feedback, error) {
	move, err := s.moves.GetByID(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if move == nil || move.ClientID != clientID {
		return nil, ErrNotFound
	}

	if move.Status != model.StatusCompleted {
		return nil, ErrMoveNotCompleted
	}

	exists, err := s.feedback.ExistsForMove(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFeedbackExists
	}

	fb, err := s.feedback.Insert(ctx, moveID, create)
	if err != nil {
		return nil, err
	}

	if err := s.activity.AppendActivity(ctx, clientID, "feedback_submitted", move.Origin+" -> "+move.Destination); err != nil {
		s.logger.Warn("failed to append activity", zap.Error(err), zap.String("client_id", clientID))
	}

	return fb, nil
}
