package repository

import (
	"context"
	"time"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// ListByClient retrieves all notifications for a client, newest first
func (r *NotificationRepository) ListByClient(ctx context.Context, clientID string) ([]model.Notification, error) {
	query := `SELECT id, client_id, title, message, read, created_at
	          FROM notifications
	          WHERE client_id = $1
	          ORDER BY created_at DESC`

	var notifications []model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, clientID); err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err), zap.String("client_id", clientID))
		return nil, err
	}

	return notifications, nil
}

// CountUnread returns the number of unread notifications for a client
func (r *NotificationRepository) CountUnread(ctx context.Context, clientID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE client_id = $1 AND read = FALSE`

	var count int
	if err := r.db.GetContext(ctx, &count, query, clientID); err != nil {
		r.logger.Error("Failed to count unread notifications", zap.Error(err), zap.String("client_id", clientID))
		return 0, err
	}

	return count, nil
}

// MarkRead sets read = true on one of the client's notifications. Marking an
// already-read notification affects zero rows and reports false without error.
func (r *NotificationRepository) MarkRead(ctx context.Context, clientID, notificationID string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin mark-read transaction", zap.Error(err))
		return false, err
	}
	defer tx.Rollback()

	query := `UPDATE notifications SET read = TRUE
	          WHERE id = $1 AND client_id = $2 AND read = FALSE`

	result, err := tx.ExecContext(ctx, query, notificationID, clientID)
	if err != nil {
		r.logger.Error("Failed to mark notification as read", zap.Error(err), zap.String("id", notificationID))
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if affected > 0 {
		event := map[string]interface{}{"notification_id": notificationID}
		if err := appendOutboxEvent(ctx, tx, model.EventNotificationRead, clientID, event); err != nil {
			r.logger.Error("Failed to append outbox event", zap.Error(err))
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return affected > 0, nil
}

// MarkAllRead sets read = true for exactly the given ids in one batched
// statement, scoped to the client. Returns the number of rows updated.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, clientID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin mark-all-read transaction", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	query := `UPDATE notifications SET read = TRUE
	          WHERE client_id = $1 AND read = FALSE AND id = ANY($2)`

	result, err := tx.ExecContext(ctx, query, clientID, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to mark all notifications as read", zap.Error(err), zap.String("client_id", clientID))
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		event := map[string]interface{}{"notification_ids": ids}
		if err := appendOutboxEvent(ctx, tx, model.EventNotificationRead, clientID, event); err != nil {
			r.logger.Error("Failed to append outbox event", zap.Error(err))
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return int(affected), nil
}

// Create inserts a notification and its change-feed event in one transaction
func (r *NotificationRepository) Create(ctx context.Context, create *model.NotificationCreate) (*model.Notification, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin create-notification transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	notification := &model.Notification{
		ID:        uuid.NewString(),
		ClientID:  create.ClientID,
		Title:     create.Title,
		Message:   create.Message,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO notifications (id, client_id, title, message, read, created_at)
		 VALUES ($1, $2, $3, $4, FALSE, $5)`,
		notification.ID, notification.ClientID, notification.Title, notification.Message, notification.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return nil, err
	}

	if err := appendOutboxEvent(ctx, tx, model.EventNotificationCreated, notification.ClientID, notification); err != nil {
		r.logger.Error("Failed to append outbox event", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return notification, nil
}
