package handler

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	hub "github.com/GTDGit/storefront/internal/sse"
)

// SSEHandler streams toasts and auth events to the storefront UI.
type SSEHandler struct {
	hub       *hub.Hub
	heartbeat time.Duration
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(h *hub.Hub) *SSEHandler {
	return &SSEHandler{hub: h, heartbeat: 30 * time.Second}
}

// Stream handles GET /v1/events. A reconnecting EventSource sends
// Last-Event-ID and first receives the events it missed.
func (h *SSEHandler) Stream(c *gin.Context) {
	clientID := fmt.Sprintf("ui-%d", time.Now().UnixNano())
	lastSeen, _ := strconv.ParseUint(c.GetHeader("Last-Event-ID"), 10, 64)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	sub, backlog := h.hub.Subscribe(clientID, lastSeen)
	defer h.hub.Unsubscribe(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"replayed":  len(backlog),
		"timestamp": time.Now().Format(time.RFC3339),
	})
	for _, msg := range backlog {
		writeMessage(c, msg)
	}
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Uint64("last_event_id", lastSeen).Msg("UI event stream started")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-sub.Messages:
			if !ok {
				return false
			}
			writeMessage(c, msg)
			return true
		case <-time.After(h.heartbeat):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func writeMessage(c *gin.Context, msg hub.Message) {
	c.Render(-1, sse.Event{
		Id:    strconv.FormatUint(msg.ID, 10),
		Event: "storefront",
		Data:  string(msg.Data),
	})
}
