package service

import (
	"context"
	"time"

	"github.com/yourorg/moving-portal/internal/kafka"
	"github.com/yourorg/moving-portal/internal/model"

	"go.uber.org/zap"
)

// moveStore is the slice of the move repository the service needs.
type moveStore interface {
	ListByClient(ctx context.Context, clientID string) ([]model.MoveDetails, error)
	GetByID(ctx context.Context, id string) (*model.Move, error)
	GetDetails(ctx context.Context, id string) (*model.MoveDetails, error)
	Create(ctx context.Context, clientID, companyID string, req *model.QuoteRequest, date time.Time) (*model.Move, error)
}

// activityLog appends rows to the client activity log.
type activityLog interface {
	AppendActivity(ctx context.Context, clientID, action, detail string) error
}

// MoveService handles move lifecycle reads and quote requests
type MoveService struct {
	moves     moveStore
	activity  activityLog
	publisher EventPublisher
	topic     string
	logger    *zap.Logger
}

// NewMoveService creates a new move service
func NewMoveService(moves moveStore, activity activityLog, publisher EventPublisher, topic string, logger *zap.Logger) *MoveService {
	return &MoveService{
		moves:     moves,
		activity:  activity,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

// List retrieves all of the client's moves with updates and progress
func (s *MoveService) List(ctx context.Context, clientID string) ([]model.MoveDetails, error) {
	return s.moves.ListByClient(ctx, clientID)
}

// Get retrieves one of the client's moves with updates and progress
func (s *MoveService) Get(ctx context.Context, clientID, moveID string) (*model.MoveDetails, error) {
	details, err := s.moves.GetDetails(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if details == nil || details.ClientID != clientID {
		return nil, ErrNotFound
	}
	return details, nil
}

// RequestQuote opens a new move in the quote_sent stage for the client
func (s *MoveService) RequestQuote(ctx context.Context, clientID, companyID string, req *model.QuoteRequest) (*model.Move, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	move, err := s.moves.Create(ctx, clientID, companyID, req, date)
	if err != nil {
		return nil, err
	}

	if err := s.activity.AppendActivity(ctx, clientID, "quote_requested", move.Origin+" -> "+move.Destination); err != nil {
		s.logger.Warn("failed to append activity", zap.Error(err), zap.String("client_id", clientID))
	}

	if s.publisher != nil {
		msg := kafka.Message{
			Key: move.ID,
			Value: map[string]interface{}{
				"event":     model.EventMoveStatusChanged,
				"move_id":   move.ID,
				"client_id": clientID,
				"status":    move.Status,
			},
		}
		if err := s.publisher.Publish(ctx, s.topic, msg); err != nil {
			s.logger.Warn("failed to publish move event", zap.Error(err))
		}
	}

	return move, nil
}
