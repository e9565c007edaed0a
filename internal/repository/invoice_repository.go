package repository

import (
	"context"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// InvoiceRepository handles database operations for invoices. Invoices are
// read-only from the portal side.
type InvoiceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sqlx.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// ListByClient retrieves all invoices attached to the client's moves
func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID string) ([]model.Invoice, error) {
	query := `SELECT i.id, i.move_id, i.amount, i.status, i.due_date, i.created_at
	          FROM invoices i
	          JOIN moves m ON m.id = i.move_id
	          WHERE m.client_id = $1
	          ORDER BY i.created_at DESC`

	var invoices []model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, clientID); err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err), zap.String("client_id", clientID))
		return nil, err
	}

	return invoices, nil
}

// ListByMove retrieves all invoices for one move
func (r *InvoiceRepository) ListByMove(ctx context.Context, moveID string) ([]model.Invoice, error) {
	query := `SELECT id, move_id, amount, status, due_date, created_at
	          FROM invoices
	          WHERE move_id = $1
	          ORDER BY created_at DESC`

	var invoices []model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, moveID); err != nil {
		r.logger.Error("Failed to list invoices for move", zap.Error(err), zap.String("move_id", moveID))
		return nil, err
	}

	return invoices, nil
}
