package model

import (
	"encoding/json"
	"time"
)

// Notification belongs to exactly one client. Only the read flag is mutable;
// title and message are append-only and never edited by the client.
type Notification struct {
	ID        string    `json:"id" db:"id"`
	ClientID  string    `json:"client_id" db:"client_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NotificationCreate represents data for creating a notification.
type NotificationCreate struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
	Title    string `json:"title" binding:"required,max=200"`
	Message  string `json:"message" binding:"required,max=2000"`
}

// NotificationListResponse is a client's notifications with the derived
// unread count.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Unread        int            `json:"unread"`
}

// MarkAllReadRequest carries the unread id set a consumer derived from its
// local mirror. The batch update touches exactly these rows.
type MarkAllReadRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

// Change-event types emitted on the realtime feed and Kafka.
const (
	EventNotificationCreated = "notification.created"
	EventNotificationRead    = "notification.read"
	EventMoveStatusChanged   = "move.status_changed"
	EventQuoteApproved       = "quote.approved"
	EventDocumentUploaded    = "document.uploaded"
)

// ChangeEvent is the envelope delivered on the realtime feed. Delivery is
// at-least-once; consumers reload their mirror rather than patching it.
type ChangeEvent struct {
	Type      string          `json:"type"`
	ClientID  string          `json:"client_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
