package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// MoveRepository handles database operations for moves
type MoveRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewMoveRepository creates a new move repository
func NewMoveRepository(db *sqlx.DB, logger *zap.Logger) *MoveRepository {
	return &MoveRepository{
		db:     db,
		logger: logger,
	}
}

// ListByClient retrieves all moves for a client ordered by date descending,
// each with its updates newest first.
func (r *MoveRepository) ListByClient(ctx context.Context, clientID string) ([]model.MoveDetails, error) {
	query := `SELECT id, client_id, company_id, date, origin, destination, status,
	                 crew_info, estimated_duration, created_at
	          FROM moves
	          WHERE client_id = $1
	          ORDER BY date DESC`

	var moves []model.Move
	if err := r.db.SelectContext(ctx, &moves, query, clientID); err != nil {
		r.logger.Error("Failed to list moves", zap.Error(err), zap.String("client_id", clientID))
		return nil, err
	}

	if len(moves) == 0 {
		return []model.MoveDetails{}, nil
	}

	moveIDs := make([]string, len(moves))
	for i, m := range moves {
		moveIDs[i] = m.ID
	}

	updates, err := r.listUpdates(ctx, moveIDs)
	if err != nil {
		return nil, err
	}

	byMove := make(map[string][]model.MoveUpdate, len(moves))
	for _, u := range updates {
		byMove[u.MoveID] = append(byMove[u.MoveID], u)
	}

	details := make([]model.MoveDetails, len(moves))
	for i, m := range moves {
		details[i] = model.MoveDetails{
			Move:     m,
			Updates:  byMove[m.ID],
			Progress: model.ProgressSteps(m.Status),
		}
	}

	return details, nil
}

// GetByID retrieves one move
func (r *MoveRepository) GetByID(ctx context.Context, id string) (*model.Move, error) {
	query := `SELECT id, client_id, company_id, date, origin, destination, status,
	                 crew_info, estimated_duration, created_at
	          FROM moves WHERE id = $1`

	var move model.Move
	if err := r.db.GetContext(ctx, &move, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get move", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &move, nil
}

// GetDetails retrieves one move with its updates and rendered progress
func (r *MoveRepository) GetDetails(ctx context.Context, id string) (*model.MoveDetails, error) {
	move, err := r.GetByID(ctx, id)
	if err != nil || move == nil {
		return nil, err
	}

	updates, err := r.listUpdates(ctx, []string{move.ID})
	if err != nil {
		return nil, err
	}

	return &model.MoveDetails{
		Move:     *move,
		Updates:  updates,
		Progress: model.ProgressSteps(move.Status),
	}, nil
}

// Create opens a new move in the quote_sent stage from a quote request
func (r *MoveRepository) Create(ctx context.Context, clientID, companyID string, req *model.QuoteRequest, date time.Time) (*model.Move, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin create-move transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	move := &model.Move{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		Date:        date,
		Origin:      req.Origin,
		Destination: req.Destination,
		Status:      model.StatusQuoteSent,
		CreatedAt:   time.Now().UTC(),
	}
	// company_id is a nullable column; clients may request quotes before a
	// company is assigned.
	move.CompanyID = nullableID(companyID)
	if req.EstimatedDuration != "" {
		move.EstimatedDuration = &req.EstimatedDuration
	}
	if req.SpecialRequests != "" {
		move.CrewInfo = &req.SpecialRequests
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO moves (id, client_id, company_id, date, origin, destination, status,
		                    crew_info, estimated_duration, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		move.ID, move.ClientID, move.CompanyID, move.Date, move.Origin, move.Destination,
		move.Status, move.CrewInfo, move.EstimatedDuration, move.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create move", zap.Error(err))
		return nil, err
	}

	event := map[string]interface{}{"move_id": move.ID, "status": move.Status}
	if err := appendOutboxEvent(ctx, tx, model.EventMoveStatusChanged, clientID, event); err != nil {
		r.logger.Error("Failed to append outbox event", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return move, nil
}

// nullableID maps an absent id to NULL so it never reaches a uuid column
// as an empty string.
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func (r *MoveRepository) listUpdates(ctx context.Context, moveIDs []string) ([]model.MoveUpdate, error) {
	query := `SELECT id, move_id, message, created_at
	          FROM move_updates
	          WHERE move_id = ANY($1)
	          ORDER BY created_at DESC`

	var updates []model.MoveUpdate
	if err := r.db.SelectContext(ctx, &updates, query, pq.Array(moveIDs)); err != nil {
		r.logger.Error("Failed to list move updates", zap.Error(err))
		return nil, err
	}

	return updates, nil
}
