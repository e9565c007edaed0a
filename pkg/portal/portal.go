// Package portal is the Go client for the moving portal API. It keeps a
// local mirror of the caller's notification rows, derives the unread count
// from it, and resynchronizes the mirror when the server pushes a change
// event.
package portal

import (
	"context"
	"encoding/json"
	"time"
)

// Notification is one notification row as served by the portal.
type Notification struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a change event pushed over the realtime channel. Delivery is
// at-least-once; consumers reload rather than patch.
type Event struct {
	Type      string          `json:"type"`
	ClientID  string          `json:"client_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Backend is the transport the store talks through. The HTTP implementation
// is the production one; tests substitute fakes.
type Backend interface {
	// ListNotifications returns the caller's notifications, newest first.
	ListNotifications(ctx context.Context) ([]Notification, error)

	// MarkRead sets read=true for one notification on the server.
	MarkRead(ctx context.Context, id string) error

	// MarkReadBatch sets read=true for the given notifications in one call.
	MarkReadBatch(ctx context.Context, ids []string) error

	// Subscribe streams change events to onEvent until the context is
	// cancelled or the connection drops, and then returns.
	Subscribe(ctx context.Context, onEvent func(Event)) error
}
