package service

import (
	"context"

	"github.com/yourorg/moving-portal/internal/kafka"
	"github.com/yourorg/moving-portal/internal/model"

	"go.uber.org/zap"
)

// notificationStore is the slice of the notification repository the service
// needs.
type notificationStore interface {
	ListByClient(ctx context.Context, clientID string) ([]model.Notification, error)
	CountUnread(ctx context.Context, clientID string) (int, error)
	MarkRead(ctx context.Context, clientID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, clientID string, ids []string) (int, error)
	Create(ctx context.Context, create *model.NotificationCreate) (*model.Notification, error)
}

// EventPublisher publishes domain events to Kafka. A nil publisher means the
// broker is not configured and the portal runs without it.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msg kafka.Message) error
}

// NotificationService handles notification operations
type NotificationService struct {
	notifications notificationStore
	publisher     EventPublisher
	topic         string
	logger        *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications notificationStore, publisher EventPublisher, topic string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		publisher:     publisher,
		topic:         topic,
		logger:        logger,
	}
}

// List retrieves a client's notifications, newest first, with the derived
// unread count.
func (s *NotificationService) List(ctx context.Context, clientID string) (*model.NotificationListResponse, error) {
	notifications, err := s.notifications.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		Total:         len(notifications),
		Unread:        unread,
	}, nil
}

// UnreadCount retrieves the number of unread notifications for a client
func (s *NotificationService) UnreadCount(ctx context.Context, clientID string) (int, error) {
	return s.notifications.CountUnread(ctx, clientID)
}

// MarkRead marks one notification as read. Marking an already-read or unknown
// notification is idempotent: nothing changes and no error is returned.
func (s *NotificationService) MarkRead(ctx context.Context, clientID, notificationID string) error {
	updated, err := s.notifications.MarkRead(ctx, clientID, notificationID)
	if err != nil {
		return err
	}
	if !updated {
		s.logger.Debug("mark-read was a no-op",
			zap.String("client_id", clientID),
			zap.String("notification_id", notificationID))
	}
	return nil
}

// MarkAllRead marks exactly the given ids as read in one batched update.
// An empty id set succeeds without touching the database.
func (s *NotificationService) MarkAllRead(ctx context.Context, clientID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.notifications.MarkAllRead(ctx, clientID, ids)
}

// Create inserts a notification for a client and publishes the domain event
func (s *NotificationService) Create(ctx context.Context, create *model.NotificationCreate) (*model.Notification, error) {
	notification, err := s.notifications.Create(ctx, create)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		msg := kafka.Message{Key: notification.ClientID, Value: notification}
		if err := s.publisher.Publish(ctx, s.topic, msg); err != nil {
			// The row and its outbox event are committed; the broker can
			// lag behind without failing the request.
			s.logger.Warn("failed to publish notification event", zap.Error(err))
		}
	}

	return notification, nil
}
