package handler

import (
	"net/http"

	"github.com/yourorg/moving-portal/internal/model"
	"github.com/yourorg/moving-portal/internal/realtime"
	"github.com/yourorg/moving-portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"
	"go.uber.org/zap"
)

// RealtimeHandler bridges SockJS sessions to the event hub. Clients
// authenticate with a JWT passed as a query parameter because SockJS
// transports cannot set headers, then subscribe to their own client id.
type RealtimeHandler struct {
	hub         *realtime.Hub
	authService *service.AuthService
	logger      *zap.Logger
	sockjs      http.Handler
}

// NewRealtimeHandler creates a new realtime handler
func NewRealtimeHandler(hub *realtime.Hub, authService *service.AuthService, logger *zap.Logger) *RealtimeHandler {
	h := &RealtimeHandler{
		hub:         hub,
		authService: authService,
		logger:      logger,
	}
	h.sockjs = sockjs.NewHandler("/api/v1/realtime", sockjs.DefaultOptions, h.handleSession)
	return h
}

// Handle serves the SockJS endpoint
// ANY /api/v1/realtime/*path
func (h *RealtimeHandler) Handle(c *gin.Context) {
	h.sockjs.ServeHTTP(c.Writer, c.Request)
}

func (h *RealtimeHandler) handleSession(session sockjs.Session) {
	token := session.Request().URL.Query().Get("token")
	if token == "" {
		_ = session.Close(4001, "missing token")
		return
	}

	identity, err := h.authService.ValidateToken(token)
	if err != nil {
		_ = session.Close(4002, "invalid token")
		return
	}
	if identity.Role != model.RoleClient || identity.ClientID == "" {
		_ = session.Close(4003, "client profile required")
		return
	}

	s := &realtime.Session{ID: uuid.NewString(), Send: make(chan []byte, 16)}
	h.hub.Register(s)
	defer h.hub.Unregister(s)

	h.logger.Debug("realtime session connected",
		zap.String("session_id", s.ID),
		zap.String("client_id", identity.ClientID))

	go func() {
		for msg := range s.Send {
			_ = session.Send(string(msg))
		}
	}()

	for {
		msg, err := session.Recv()
		if err != nil {
			return
		}
		parsed, ok := realtime.ParseSubscribe([]byte(msg))
		if !ok {
			continue
		}
		if parsed.Action == "unsubscribe" {
			h.hub.UpdateSubscription(s, realtime.Subscription{})
			continue
		}
		// Sessions may only listen to their own events
		if parsed.ClientID != "" && parsed.ClientID != identity.ClientID {
			_ = session.Close(4003, "access denied")
			return
		}
		h.hub.UpdateSubscription(s, realtime.Subscription{ClientID: identity.ClientID})
	}
}
