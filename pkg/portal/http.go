package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// HTTPBackend talks to the portal over its REST API and the raw-websocket
// realtime endpoint.
type HTTPBackend struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPBackend creates a backend for the portal at baseURL authenticating
// with the given access token.
func NewHTTPBackend(baseURL, token string, logger *zap.Logger) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type listResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Unread        int            `json:"unread"`
}

// ListNotifications fetches the caller's notifications, newest first
func (b *HTTPBackend) ListNotifications(ctx context.Context) ([]Notification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/api/v1/notifications", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching notifications", resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return body.Notifications, nil
}

// MarkRead sets read=true for one notification
func (b *HTTPBackend) MarkRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("%s/api/v1/notifications/%s/read", b.baseURL, url.PathEscape(id))
	return b.doJSON(ctx, http.MethodPut, path, nil)
}

// MarkReadBatch sets read=true for a batch of notifications in one call
func (b *HTTPBackend) MarkReadBatch(ctx context.Context, ids []string) error {
	payload := map[string][]string{"ids": ids}
	return b.doJSON(ctx, http.MethodPost, b.baseURL+"/api/v1/notifications/mark-all-read", payload)
}

func (b *HTTPBackend) doJSON(ctx context.Context, method, path string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return nil
}

// Subscribe connects to the realtime endpoint and streams change events to
// onEvent until the context is cancelled or the connection drops. The server
// scopes the subscription to the token's client id.
func (b *HTTPBackend) Subscribe(ctx context.Context, onEvent func(Event)) error {
	wsURL, err := b.websocketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect realtime endpoint: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"action": "subscribe"}); err != nil {
		return fmt.Errorf("failed to send subscribe frame: %w", err)
	}

	// Close the connection when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("realtime read failed: %w", err)
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			b.logger.Debug("ignoring malformed realtime frame", zap.Error(err))
			continue
		}
		onEvent(event)
	}
}

// websocketURL derives the raw-websocket endpoint from the base URL.
func (b *HTTPBackend) websocketURL() (string, error) {
	u, err := url.Parse(b.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/realtime/websocket"
	u.RawQuery = url.Values{"token": {b.token}}.Encode()
	return u.String(), nil
}
