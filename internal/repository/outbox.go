package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// execer covers both *sqlx.DB and *sqlx.Tx so outbox rows can be appended
// inside the transaction that produced the change.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// appendOutboxEvent writes a change event into outbox_events. The realtime
// poller tails this table and broadcasts to subscribed sessions.
func appendOutboxEvent(ctx context.Context, ex execer, eventType, clientID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx,
		`INSERT INTO outbox_events (id, event_type, client_id, payload, created_at)
		 VALUES ($1, $2, $3, $4, NOW())`,
		uuid.NewString(), eventType, clientID, body)
	return err
}

// OutboxOffset marks how far the realtime poller has read.
type OutboxOffset struct {
	LastEventTime time.Time `db:"last_event_time"`
	LastEventID   string    `db:"last_event_id"`
}

// OutboxEvent is one row of the change feed.
type OutboxEvent struct {
	ID        string    `db:"id"`
	EventType string    `db:"event_type"`
	ClientID  string    `db:"client_id"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
}

// Envelope converts the row into the wire envelope.
func (e OutboxEvent) Envelope() model.ChangeEvent {
	return model.ChangeEvent{
		Type:      e.EventType,
		ClientID:  e.ClientID,
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
}

// OutboxRepository reads the change feed for the realtime poller
type OutboxRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *sqlx.DB, logger *zap.Logger) *OutboxRepository {
	return &OutboxRepository{
		db:     db,
		logger: logger,
	}
}

// ListEventsAfter returns up to limit events created after the offset,
// oldest first.
func (r *OutboxRepository) ListEventsAfter(ctx context.Context, offset OutboxOffset, limit int) ([]OutboxEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, event_type, client_id, payload, created_at
	          FROM outbox_events
	          WHERE (created_at, id) > ($1, $2)
	          ORDER BY created_at ASC, id ASC
	          LIMIT $3`

	var events []OutboxEvent
	err := r.db.SelectContext(ctx, &events, query, offset.LastEventTime, offset.LastEventID, limit)
	if err != nil {
		r.logger.Error("Failed to list outbox events", zap.Error(err))
		return nil, err
	}

	return events, nil
}

// GetOffset loads the persisted poller offset
func (r *OutboxRepository) GetOffset(ctx context.Context) (OutboxOffset, error) {
	query := `SELECT last_event_time, last_event_id FROM outbox_offset WHERE singleton = TRUE`

	var offset OutboxOffset
	if err := r.db.GetContext(ctx, &offset, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OutboxOffset{}, nil
		}
		r.logger.Error("Failed to get outbox offset", zap.Error(err))
		return OutboxOffset{}, err
	}

	return offset, nil
}

// UpdateOffset persists the poller offset
func (r *OutboxRepository) UpdateOffset(ctx context.Context, offset OutboxOffset) error {
	query := `INSERT INTO outbox_offset (singleton, last_event_time, last_event_id)
	          VALUES (TRUE, $1, $2)
	          ON CONFLICT (singleton)
	          DO UPDATE SET last_event_time = $1, last_event_id = $2`

	if _, err := r.db.ExecContext(ctx, query, offset.LastEventTime, offset.LastEventID); err != nil {
		r.logger.Error("Failed to update outbox offset", zap.Error(err))
		return err
	}

	return nil
}

// CleanupBefore removes delivered events older than the cutoff
func (r *OutboxRepository) CleanupBefore(ctx context.Context, cutoff time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM outbox_events WHERE created_at < $1`, cutoff); err != nil {
		r.logger.Error("Failed to clean up outbox", zap.Error(err))
		return err
	}
	return nil
}
