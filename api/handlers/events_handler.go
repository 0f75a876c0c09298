package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yourusername/yt-audio-go/internal/infrastructure"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the API only listens locally
	},
}

// EventsHandler streams event bus traffic to WebSocket clients
type EventsHandler struct {
	bus    *infrastructure.EventBus
	logger *zap.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(bus *infrastructure.EventBus, log *zap.Logger) *EventsHandler {
	return &EventsHandler{
		bus:    bus,
		logger: log,
	}
}

// HandleWebSocket handles GET /api/v1/events. Each event is sent as a JSON
// text frame {"event": name, "payload": ...}.
func (h *EventsHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	h.logger.Info("WebSocket client connected", zap.String("remote_addr", c.Request.RemoteAddr))
	defer h.logger.Info("WebSocket client disconnected", zap.String("remote_addr", c.Request.RemoteAddr))

	// Read messages from client (for close and pong handling)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("Failed to send event", zap.Error(err))
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return

		case <-c.Request.Context().Done():
			return
		}
	}
}
