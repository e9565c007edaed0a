package service

import (
	"context"
	"testing"

	"github.com/yourorg/moving-portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNotificationStore struct {
	notifications []model.Notification
	markedRead    bool

	markReadCalls    int
	markAllReadCalls int
	markAllReadIDs   []string
}

func (f *fakeNotificationStore) ListByClient(ctx context.Context, clientID string) ([]model.Notification, error) {
	return f.notifications, nil
}

func (f *fakeNotificationStore) CountUnread(ctx context.Context, clientID string) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, clientID, notificationID string) (bool, error) {
	f.markReadCalls++
	return f.markedRead, nil
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, clientID string, ids []string) (int, error) {
	f.markAllReadCalls++
	f.markAllReadIDs = ids
	return len(ids), nil
}

func (f *fakeNotificationStore) Create(ctx context.Context, create *model.NotificationCreate) (*model.Notification, error) {
	n := &model.Notification{
		ID:       "n-new",
		ClientID: create.ClientID,
		Title:    create.Title,
		Message:  create.Message,
	}
	f.notifications = append(f.notifications, *n)
	return n, nil
}

func TestNotificationListDerivesUnread(t *testing.T) {
	store := &fakeNotificationStore{notifications: []model.Notification{
		{ID: "n1", Read: false},
		{ID: "n2", Read: true},
		{ID: "n3", Read: false},
	}}
	svc := NewNotificationService(store, nil, "", zap.NewNop())

	response, err := svc.List(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, 3, response.Total)
	assert.Equal(t, 2, response.Unread)
}

func TestMarkReadIdempotent(t *testing.T) {
	store := &fakeNotificationStore{markedRead: false}
	svc := NewNotificationService(store, nil, "", zap.NewNop())

	// Zero rows affected is still success.
	err := svc.MarkRead(context.Background(), "c1", "already-read")
	require.NoError(t, err)
	assert.Equal(t, 1, store.markReadCalls)
}

func TestMarkAllReadEmptySkipsStore(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, nil, "", zap.NewNop())

	count, err := svc.MarkAllRead(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, store.markAllReadCalls)
}

func TestMarkAllReadForwardsIDs(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, nil, "", zap.NewNop())

	ids := []string{"n1", "n2", "n3"}
	count, err := svc.MarkAllRead(context.Background(), "c1", ids)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, store.markAllReadCalls)
	assert.Equal(t, ids, store.markAllReadIDs)
}

func TestCreatePublishesEvent(t *testing.T) {
	store := &fakeNotificationStore{}
	publisher := &fakePublisher{}
	svc := NewNotificationService(store, publisher, "portal-notifications", zap.NewNop())

	notification, err := svc.Create(context.Background(), &model.NotificationCreate{
		ClientID: "c1",
		Title:    "Quote ready",
		Message:  "Your quote is ready for review",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", notification.ClientID)
	assert.Len(t, publisher.messages, 1)
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	store := &fakeNotificationStore{}
	publisher := &fakePublisher{err: assert.AnError}
	svc := NewNotificationService(store, publisher, "portal-notifications", zap.NewNop())

	notification, err := svc.Create(context.Background(), &model.NotificationCreate{
		ClientID: "c1",
		Title:    "Quote ready",
		Message:  "Your quote is ready for review",
	})
	require.NoError(t, err)
	assert.NotNil(t, notification)
}
