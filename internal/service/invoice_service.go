package service

import (
	"context"

	"github.com/yourorg/moving-portal/internal/model"

	"go.uber.org/zap"
)

// invoiceStore is the slice of the invoice repository the service needs.
type invoiceStore interface {
	ListByClient(ctx context.Context, clientID string) ([]model.Invoice, error)
	ListByMove(ctx context.Context, moveID string) ([]model.Invoice, error)
}

// InvoiceService handles invoice reads
type InvoiceService struct {
	invoices invoiceStore
	moves    moveLookup
	logger   *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoices invoiceStore, moves moveLookup, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		moves:    moves,
		logger:   logger,
	}
}

// List returns all invoices across the client's moves
func (s *InvoiceService) List(ctx context.Context, clientID string) ([]model.Invoice, error) {
	return s.invoices.ListByClient(ctx, clientID)
}

// ListByMove returns the invoices for one of the client's moves
func (s *InvoiceService) ListByMove(ctx context.Context, clientID, moveID string) ([]model.Invoice, error) {
	move, err := s.moves.GetByID(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if move == nil || move.ClientID != clientID {
		return nil, ErrNotFound
	}
	return s.invoices.ListByMove(ctx, moveID)
}
