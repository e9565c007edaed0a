package service

import (
	"context"

	"github.com/yourorg/moving-portal/internal/kafka"
	"github.com/yourorg/moving-portal/internal/model"

	"go.uber.org/zap"
)

// quoteStore is the slice of the quote repository the service needs.
type quoteStore interface {
	ListByClient(ctx context.Context, clientID string) ([]model.Quote, error)
	GetDetails(ctx context.Context, id string) (*model.QuoteDetails, error)
	Approve(ctx context.Context, clientID, quoteID string, notes *string) (bool, error)
}

// QuoteService handles quote reads and approval
type QuoteService struct {
	quotes    quoteStore
	activity  activityLog
	publisher EventPublisher
	topic     string
	logger    *zap.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(quotes quoteStore, activity activityLog, publisher EventPublisher, topic string, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		quotes:    quotes,
		activity:  activity,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

// List retrieves all quotes attached to the client's moves
func (s *QuoteService) List(ctx context.Context, clientID string) ([]model.Quote, error) {
	return s.quotes.ListByClient(ctx, clientID)
}

// Get retrieves one quote with its move, scoped to the client
func (s *QuoteService) Get(ctx context.Context, clientID, quoteID string) (*model.QuoteDetails, error) {
	details, err := s.quotes.GetDetails(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if details == nil || details.Move.ClientID != clientID {
		return nil, ErrNotFound
	}
	return details, nil
}

// Approve records the client's approval: the quote flips to approved and the
// move advances to the approved status in one transaction. Approving an
// already-approved quote succeeds without changing anything.
func (s *QuoteService) Approve(ctx context.Context, clientID, quoteID string, approval *model.QuoteApproval) (*model.QuoteDetails, error) {
	details, err := s.Get(ctx, clientID, quoteID)
	if err != nil {
		return nil, err
	}

	if details.Approved {
		return details, nil
	}

	var notes *string
	if approval.Notes != "" {
		notes = &approval.Notes
	}

	approved, err := s.quotes.Approve(ctx, clientID, quoteID, notes)
	if err != nil {
		return nil, err
	}
	if !approved {
		// Raced with another approval; the quote is approved either way.
		return s.Get(ctx, clientID, quoteID)
	}

	if err := s.activity.AppendActivity(ctx, clientID, "quote_approved", details.Move.Origin+" -> "+details.Move.Destination); err != nil {
		s.logger.Warn("failed to append activity", zap.Error(err), zap.String("client_id", clientID))
	}

	if s.publisher != nil {
		msg := kafka.Message{
			Key: details.Move.ID,
			Value: map[string]interface{}{
				"event":     model.EventQuoteApproved,
				"quote_id":  quoteID,
				"move_id":   details.Move.ID,
				"client_id": clientID,
				"status":    model.StatusApproved,
			},
		}
		if err := s.publisher.Publish(ctx, s.topic, msg); err != nil {
			s.logger.Warn("failed to publish quote event", zap.Error(err))
		}
	}

	return s.Get(ctx, clientID, quoteID)
}
