package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventToast        EventType = "toast"
	EventAuthRequired EventType = "auth.required"
)

const (
	subscriberBuffer = 64
	// replaySize is how many past messages a reconnecting UI can catch up on.
	replaySize = 32
)

// Event is the payload broadcast to connected UI clients.
type Event struct {
	Event     EventType `json:"event"`
	Level     string    `json:"level,omitempty"`
	Message   string    `json:"message,omitempty"`
	Redirect  string    `json:"redirect,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is an encoded Event with its stream position. IDs start at 1 and
// grow for the lifetime of the Hub.
type Message struct {
	ID   uint64
	Data []byte
}

// Subscriber is one connected event stream.
type Subscriber struct {
	ID       string
	Messages chan Message
}

// Hub fans events out to subscribers and keeps the last few for replay.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	lastID      uint64
	recent      []Message
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
	}
}

// Subscribe registers a stream. Messages newer than lastSeen that are still
// in the replay window are returned for the caller to send first; pass 0 on
// a fresh connection.
func (h *Hub) Subscribe(id string, lastSeen uint64) (*Subscriber, []Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &Subscriber{ID: id, Messages: make(chan Message, subscriberBuffer)}
	h.subscribers[id] = s

	var backlog []Message
	if lastSeen > 0 {
		for _, m := range h.recent {
			if m.ID > lastSeen {
				backlog = append(backlog, m)
			}
		}
	}
	log.Info().
		Str("client_id", id).
		Int("total_clients", len(h.subscribers)).
		Int("replayed", len(backlog)).
		Msg("SSE client connected")
	return s, backlog
}

// Unsubscribe removes a stream and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.subscribers[id]
	if !ok {
		return
	}
	close(s.Messages)
	delete(h.subscribers, id)
	log.Info().Str("client_id", id).Int("total_clients", len(h.subscribers)).Msg("SSE client disconnected")
}

// Publish assigns the next ID to event, records it for replay and sends it
// to every subscriber. A subscriber with a full buffer misses the message.
func (h *Hub) Publish(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	msg := Message{ID: h.lastID, Data: data}
	h.recent = append(h.recent, msg)
	if len(h.recent) > replaySize {
		h.recent = h.recent[len(h.recent)-replaySize:]
	}

	for _, s := range h.subscribers {
		select {
		case s.Messages <- msg:
		default:
			log.Warn().Str("client_id", s.ID).Uint64("event_id", msg.ID).Msg("SSE client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of connected streams.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
