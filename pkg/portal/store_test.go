package portal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	mu sync.Mutex

	notifications []Notification
	listErr       error
	markErr       error

	listCalls  int
	markCalls  int
	batchCalls int
	batchIDs   [][]string

	// When set, ListNotifications blocks until the channel is closed and
	// returns the rows captured at call time.
	listGate chan struct{}
}

func (f *fakeBackend) ListNotifications(ctx context.Context) ([]Notification, error) {
	f.mu.Lock()
	f.listCalls++
	rows := make([]Notification, len(f.notifications))
	copy(rows, f.notifications)
	err := f.listErr
	gate := f.listGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return rows, err
}

func (f *fakeBackend) MarkRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	return f.markErr
}

func (f *fakeBackend) MarkReadBatch(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	f.batchIDs = append(f.batchIDs, ids)
	return f.markErr
}

func (f *fakeBackend) Subscribe(ctx context.Context, onEvent func(Event)) error {
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeBackend) set(rows []Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = rows
}

func notif(id string, read bool) Notification {
	return Notification{
		ID:        id,
		ClientID:  "client-1",
		Title:     "title " + id,
		Message:   "message " + id,
		Read:      read,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestStore(backend Backend) *Store {
	return NewStore(backend, zap.NewNop())
}

func TestLoadPopulatesMirror(t *testing.T) {
	backend := &fakeBackend{}
	backend.set([]Notification{notif("a", false), notif("b", true)})
	store := newTestStore(backend)

	require.NoError(t, store.Load(context.Background()))

	assert.Len(t, store.Notifications(), 2)
	assert.Equal(t, 1, store.UnreadCount())
}

func TestLoadFailureResetsMirror(t *testing.T) {
	backend := &fakeBackend{}
	backend.set([]Notification{notif("a", false)})
	store := newTestStore(backend)
	require.NoError(t, store.Load(context.Background()))
	require.Equal(t, 1, store.UnreadCount())

	backend.mu.Lock()
	backend.listErr = errors.New("server unavailable")
	backend.mu.Unlock()

	err := store.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, store.Notifications())
	assert.Equal(t, 0, store.UnreadCount())
}

func TestUnreadCountTracksMirror(t *testing.T) {
	backend := &fakeBackend{}
	backend.set([]Notification{notif("a", false), notif("b", false), notif("c", true)})
	store := newTestStore(backend)
	require.NoError(t, store.Load(context.Background()))

	count := func() int {
		unread := 0
		for _, n := range store.Notifications() {
			if !n.Read {
				unread++
			}
		}
		return unread
	}

	assert.Equal(t, count(), store.UnreadCount())

	require.NoError(t, store.MarkRead(context.Background(), "a"))
	assert.Equal(t, count(), store.UnreadCount())

	require.NoError(t, store.MarkAllRead(context.Background()))
	assert.Equal(t, count(), store.UnreadCount())
	assert.Equal(t, 0, store.UnreadCount())
}

func TestMarkReadUnknownIDIsNoOp(t *testing.T) {
	backend := &fakeBackend{}
	backend.set([]Notification{notif("a", false)})
	store := newTestStore(backend)
	require.NoError(t, store.Load(context.Background()))

	require.NoError(t, store.MarkRead(context.Background(), "missing"))

	assert.Equal(t, 0, backend.markCalls)
	assert.Equal(t, 1, store.UnreadCount())
}

func TestMarkReadRollsBackOnFailure(t *testing.T) {
	backend := &fakeBackend{markErr: errors.New("write failed")}
	backend.set([]Notification{notif("a", false)})
	store := newTestStore(backend)
	require.NoError(t, store.Load(context.Background()))

	err := store.MarkRead(context.Background(), "a")
	require.Error(t, err)
	assert.Equal(t, 1, store.UnreadCount())
}

func TestMarkAllReadSkipsNetworkWhenNothingUnread(t *testing.T) {
	backend := &fakeBackend{}
	backend.set([]Notification{notif("a", true), notif("b", true)})
	store := newTestStore(backend)
	require.NoError(t, store.Load(context.Background()))

	require.NoError(t, store.MarkAllRead(context.Background()))

	assert.Equal(t, 0, backend.batchCalls)
}

func TestMarkAllReadBatchesExactlyUnreadIDs(t *testing.T) {
	backend := &fakeBackend{}
	backend.set([]Notification{
		notif("a", false),
		notif("b", false),
		notif("c", false),
		notif("d", true),
	})
	store := newTestStore(backend)
	require.NoError(t, store.Load(context.Background()))
	require.Equal(t, 3, store.UnreadCount())

	require.NoError(t, store.MarkAllRead(context.Background()))

	require.Equal(t, 1, backend.batchCalls)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, backend.batchIDs[0])
	assert.Equal(t, 0, store.UnreadCount())
	for _, n := range store.Notifications() {
		assert.True(t, n.Read)
	}
}

func TestMarkAllReadRollsBackOnFailure(t *testing.T) {
	backend := &fakeBackend{markErr: errors.New("write failed")}
	backend.set([]Notification{notif("a", false), notif("b", true)})
	store := newTestStore(backend)
	require.NoError(t, store.Load(context.Background()))

	err := store.MarkAllRead(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, store.UnreadCount())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	backend := &fakeBackend{}
	store := newTestStore(backend)

	// First load is slow and carries stale rows.
	gate := make(chan struct{})
	backend.mu.Lock()
	backend.listGate = gate
	backend.notifications = []Notification{notif("stale", false)}
	backend.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- store.Load(context.Background()) }()

	// Wait until the slow load has captured its rows.
	require.Eventually(t, func() bool {
		backend.mu.Lock()
		defer backend.mu.Unlock()
		return backend.listCalls == 1
	}, time.Second, time.Millisecond)

	// Second load finishes first with fresh rows.
	backend.mu.Lock()
	backend.listGate = nil
	backend.notifications = []Notification{notif("fresh-1", false), notif("fresh-2", false)}
	backend.mu.Unlock()
	require.NoError(t, store.Load(context.Background()))

	close(gate)
	require.NoError(t, <-done)

	// The slow load must not have overwritten the newer state.
	rows := store.Notifications()
	require.Len(t, rows, 2)
	assert.Equal(t, "fresh-1", rows[0].ID)
	assert.Equal(t, 2, store.UnreadCount())
}

func TestSubscriptionCancelStopsStream(t *testing.T) {
	backend := &fakeBackend{}
	store := newTestStore(backend)

	sub := store.Subscribe(context.Background())

	cancelled := make(chan struct{})
	go func() {
		sub.Cancel()
		close(cancelled)
	}()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("Cancel did not return")
	}
}

type eventBackend struct {
	fakeBackend
	events chan Event
}

func (b *eventBackend) Subscribe(ctx context.Context, onEvent func(Event)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-b.events:
			onEvent(ev)
		}
	}
}

func TestEventTriggersReload(t *testing.T) {
	backend := &eventBackend{events: make(chan Event)}
	backend.set([]Notification{notif("a", false)})
	store := newTestStore(backend)

	sub := store.Subscribe(context.Background())
	defer sub.Cancel()

	backend.events <- Event{Type: "notification.created", ClientID: "client-1"}

	require.Eventually(t, func() bool {
		return len(store.Notifications()) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, store.UnreadCount())
}
