package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"ShopBot/bot/chat"
)

const eventTurn = "turn"

// Event is a message pushed to watching clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active WebSocket clients and broadcasts dialog
// turns to them. It implements chat.TurnListener.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan chat.TurnEvent
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan chat.TurnEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case turn := <-h.broadcast:
			data, err := json.Marshal(&Event{Type: eventTurn, Data: turn})
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.watches(turn.ConversationID) {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// OnTurn queues a turn for broadcast. Turns are dropped while the queue
// is full so the engine never waits on slow clients.
func (h *Hub) OnTurn(event chat.TurnEvent) {
	select {
	case h.broadcast <- event:
	default:
		if h.log != nil {
			h.log.Warn("ws broadcast queue full, turn dropped",
				slog.String("conversation_id", event.ConversationID),
			)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// clientEvent represents an incoming WebSocket message from a client.
type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage applies a client's watch request. An empty
// conversation id watches every conversation.
func (h *Hub) HandleClientMessage(client *Client, raw []byte) {
	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		if h.log != nil {
			h.log.Warn("failed to parse client ws message", slog.String("error", err.Error()))
		}
		return
	}

	switch event.Type {
	case "watch":
		var data struct {
			ConversationID string `json:"conversation_id"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			if h.log != nil {
				h.log.Warn("failed to parse watch data", slog.String("error", err.Error()))
			}
			return
		}
		client.watch(data.ConversationID)
		if h.log != nil {
			h.log.Debug("ws client watching",
				slog.String("username", client.username),
				slog.String("conversation_id", data.ConversationID),
			)
		}
	}
}
