package handler

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types sent over WebSocket.
const (
	EventScenarioSolved = "scenario_solved"
)

// WSEvent is the envelope for all WebSocket messages.
type WSEvent struct {
	Type       string `json:"type"`
	ScenarioID string `json:"scenario_id"`
	Data       any    `json:"data"`
}

// ClientMessage is the envelope for messages sent from the client.
type ClientMessage struct {
	Action     string `json:"action"` // "subscribe" or "unsubscribe"
	ScenarioID string `json:"scenario_id"`
}

// scenarioFeed is the channel name for the firehose of all solved scenarios.
const scenarioFeed = "*"

// WSConn wraps a WebSocket connection with its user and subscriptions.
type WSConn struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub manages WebSocket connections and scenario-channel subscriptions.
type Hub struct {
	mu          sync.RWMutex
	connections map[*WSConn]bool
	scenarios   map[string]map[*WSConn]bool // scenarioID -> set of connections
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*WSConn]bool),
		scenarios:   make(map[string]map[*WSConn]bool),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

// Unregister removes a connection from the hub and all its subscriptions.
func (h *Hub) Unregister(c *WSConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, c)
	for scenarioID, conns := range h.scenarios {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.scenarios, scenarioID)
		}
	}
	close(c.send)
}

// Subscribe adds a connection to a scenario channel. Subscribing to "*"
// receives every solved scenario.
func (h *Hub) Subscribe(c *WSConn, scenarioID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.scenarios[scenarioID] == nil {
		h.scenarios[scenarioID] = make(map[*WSConn]bool)
	}
	h.scenarios[scenarioID][c] = true
}

// Unsubscribe removes a connection from a scenario channel.
func (h *Hub) Unsubscribe(c *WSConn, scenarioID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.scenarios[scenarioID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.scenarios, scenarioID)
		}
	}
}

// BroadcastToScenario sends an event to connections subscribed to a
// scenario, plus everyone on the firehose channel.
func (h *Hub) BroadcastToScenario(scenarioID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("scenarioId", scenarioID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := make(map[*WSConn]bool, len(h.scenarios[scenarioID])+len(h.scenarios[scenarioFeed]))
	for c := range h.scenarios[scenarioID] {
		targets[c] = true
	}
	for c := range h.scenarios[scenarioFeed] {
		targets[c] = true
	}

	for c := range targets {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("userId", c.userID).Str("scenarioId", scenarioID).Msg("Dropping WebSocket message, buffer full")
		}
	}
}

// BroadcastToUser sends an event to a specific user across all their connections.
func (h *Hub) BroadcastToUser(userID string, event WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("Failed to marshal WebSocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.connections {
		if c.userID == userID {
			select {
			case c.send <- data:
			default:
			}
		}
	}
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// ScenarioSubscriberCount returns the number of connections subscribed to a scenario.
func (h *Hub) ScenarioSubscriberCount(scenarioID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.scenarios[scenarioID])
}
