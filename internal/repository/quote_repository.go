package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// QuoteRepository handles database operations for quotes
type QuoteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sqlx.DB, logger *zap.Logger) *QuoteRepository {
	return &QuoteRepository{
		db:     db,
		logger: logger,
	}
}

// quoteRow mirrors the quotes table; line_items is JSONB.
type quoteRow struct {
	model.Quote
	LineItemsRaw []byte `db:"line_items"`
}

func (row *quoteRow) toQuote() (model.Quote, error) {
	q := row.Quote
	if len(row.LineItemsRaw) > 0 {
		if err := json.Unmarshal(row.LineItemsRaw, &q.LineItems); err != nil {
			return model.Quote{}, err
		}
	}
	return q, nil
}

const quoteColumns = `id, move_id, line_items, subtotal, tax, total, approved, client_notes, created_at`

// ListByClient retrieves all quotes attached to the client's moves, newest first
func (r *QuoteRepository) ListByClient(ctx context.Context, clientID string) ([]model.Quote, error) {
	query := `SELECT q.id, q.move_id, q.line_items, q.subtotal, q.tax, q.total,
	                 q.approved, q.client_notes, q.created_at
	          FROM quotes q
	          JOIN moves m ON m.id = q.move_id
	          WHERE m.client_id = $1
	          ORDER BY q.created_at DESC`

	var rows []quoteRow
	if err := r.db.SelectContext(ctx, &rows, query, clientID); err != nil {
		r.logger.Error("Failed to list quotes", zap.Error(err), zap.String("client_id", clientID))
		return nil, err
	}

	quotes := make([]model.Quote, 0, len(rows))
	for i := range rows {
		q, err := rows[i].toQuote()
		if err != nil {
			r.logger.Error("Failed to decode quote line items", zap.Error(err), zap.String("id", rows[i].ID))
			return nil, err
		}
		quotes = append(quotes, q)
	}

	return quotes, nil
}

// GetDetails retrieves one quote joined with its move
func (r *QuoteRepository) GetDetails(ctx context.Context, id string) (*model.QuoteDetails, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`

	var row quoteRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get quote", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	quote, err := row.toQuote()
	if err != nil {
		r.logger.Error("Failed to decode quote line items", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	var move model.Move
	err = r.db.GetContext(ctx, &move,
		`SELECT id, client_id, company_id, date, origin, destination, status,
		        crew_info, estimated_duration, created_at
		 FROM moves WHERE id = $1`, quote.MoveID)
	if err != nil {
		r.logger.Error("Failed to get quote's move", zap.Error(err), zap.String("move_id", quote.MoveID))
		return nil, err
	}

	return &model.QuoteDetails{Quote: quote, Move: move}, nil
}

// Approve flips the quote to approved and advances the move to the approved
// status in a single transaction, so no partially-approved state can persist.
// Approving a quote that is already approved affects zero rows and reports
// false without error.
func (r *QuoteRepository) Approve(ctx context.Context, clientID, quoteID string, notes *string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin approve transaction", zap.Error(err))
		return false, err
	}
	defer tx.Rollback()

	// Ownership is enforced through the move join.
	result, err := tx.ExecContext(ctx,
		`UPDATE quotes q SET approved = TRUE, client_notes = $3
		 FROM moves m
		 WHERE q.id = $1 AND q.move_id = m.id AND m.client_id = $2 AND q.approved = FALSE`,
		quoteID, clientID, notes)
	if err != nil {
		r.logger.Error("Failed to approve quote", zap.Error(err), zap.String("id", quoteID))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		// Already approved or not the client's quote; nothing to commit.
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE moves SET status = $2
		 WHERE id = (SELECT move_id FROM quotes WHERE id = $1)`,
		quoteID, model.StatusApproved)
	if err != nil {
		r.logger.Error("Failed to advance move status", zap.Error(err), zap.String("quote_id", quoteID))
		return false, err
	}

	event := map[string]interface{}{"quote_id": quoteID, "status": model.StatusApproved}
	if err := appendOutboxEvent(ctx, tx, model.EventQuoteApproved, clientID, event); err != nil {
		r.logger.Error("Failed to append outbox event", zap.Error(err))
		return false, err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit approve transaction", zap.Error(err))
		return false, err
	}

	return true, nil
}
