package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Subscription is the predicate a session listens with. Events are filtered
// by client id equality.
type Subscription struct {
	ClientID string
}

// Session is one connected realtime consumer with a buffered send channel.
type Session struct {
	ID           string
	Send         chan []byte
	Subscription Subscription
}

// Hub fans change events out to subscribed sessions.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
}

// SubscribeMessage is the control frame a session sends to change its
// subscription.
type SubscribeMessage struct {
	Action   string `json:"action"`
	ClientID string `json:"client_id"`
}

// NewHub creates a new hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Register adds a session to the hub
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = s
}

// Unregister removes a session and closes its send channel
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s.ID]; !ok {
		return
	}
	delete(h.sessions, s.ID)
	close(s.Send)
}

// UpdateSubscription changes what a session listens to
func (h *Hub) UpdateSubscription(s *Session, sub Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s.Subscription = sub
}

// Broadcast delivers a payload to every session subscribed to the client.
// Sessions with a full send buffer drop the message; consumers reload on the
// next event, so a dropped frame costs one reload at most.
func (h *Hub) Broadcast(payload []byte, clientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		if s.Subscription.ClientID == "" || s.Subscription.ClientID != clientID {
			continue
		}
		select {
		case s.Send <- payload:
		default:
			h.logger.Warn("dropping realtime message for slow session", zap.String("session_id", s.ID))
		}
	}
}

// SessionCount returns the number of connected sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// ParseSubscribe decodes a control frame; the second return is false for
// anything that is not a subscribe/unsubscribe action.
func ParseSubscribe(data []byte) (SubscribeMessage, bool) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SubscribeMessage{}, false
	}
	if msg.Action != "subscribe" && msg.Action != "unsubscribe" {
		return SubscribeMessage{}, false
	}
	return msg, true
}
