package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSession(id, clientID string) *Session {
	return &Session{
		ID:           id,
		Send:         make(chan []byte, 4),
		Subscription: Subscription{ClientID: clientID},
	}
}

func TestBroadcastFiltersByClientID(t *testing.T) {
	hub := NewHub(zap.NewNop())

	mine := newSession("s1", "client-a")
	other := newSession("s2", "client-b")
	idle := newSession("s3", "")
	hub.Register(mine)
	hub.Register(other)
	hub.Register(idle)

	hub.Broadcast([]byte("hello"), "client-a")

	require.Len(t, mine.Send, 1)
	assert.Equal(t, "hello", string(<-mine.Send))
	assert.Empty(t, other.Send)
	assert.Empty(t, idle.Send)
}

func TestBroadcastDropsForSlowSession(t *testing.T) {
	hub := NewHub(zap.NewNop())

	slow := &Session{
		ID:           "slow",
		Send:         make(chan []byte, 1),
		Subscription: Subscription{ClientID: "client-a"},
	}
	hub.Register(slow)

	// The second send must not block even though the buffer is full.
	hub.Broadcast([]byte("one"), "client-a")
	hub.Broadcast([]byte("two"), "client-a")

	assert.Len(t, slow.Send, 1)
	assert.Equal(t, "one", string(<-slow.Send))
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(zap.NewNop())

	s := newSession("s1", "client-a")
	hub.Register(s)
	require.Equal(t, 1, hub.SessionCount())

	hub.Unregister(s)
	assert.Equal(t, 0, hub.SessionCount())

	_, open := <-s.Send
	assert.False(t, open)

	// A second unregister is a no-op.
	hub.Unregister(s)
}

func TestUpdateSubscription(t *testing.T) {
	hub := NewHub(zap.NewNop())

	s := newSession("s1", "")
	hub.Register(s)

	hub.UpdateSubscription(s, Subscription{ClientID: "client-a"})
	hub.Broadcast([]byte("msg"), "client-a")
	require.Len(t, s.Send, 1)
	<-s.Send

	hub.UpdateSubscription(s, Subscription{})
	hub.Broadcast([]byte("msg"), "client-a")
	assert.Empty(t, s.Send)
}

func TestParseSubscribe(t *testing.T) {
	tests := []struct {
		name string
		data string
		ok   bool
	}{
		{"subscribe", `{"action":"subscribe","client_id":"c1"}`, true},
		{"unsubscribe", `{"action":"unsubscribe"}`, true},
		{"unknown action", `{"action":"ping"}`, false},
		{"malformed", `{`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := ParseSubscribe([]byte(tt.data))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.NotEmpty(t, msg.Action)
			}
		})
	}
}
