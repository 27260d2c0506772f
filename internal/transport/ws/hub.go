package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/transport"
)

// Hub tracks live websocket connections and per-room broadcast
// groups, and implements the Emitter capability the lobby core
// consumes. Unknown connection or room ids are no-ops.
type Hub struct {
	mu     sync.RWMutex
	conns  map[model.ConnectionID]*Client
	groups map[model.RoomID]map[model.ConnectionID]*Client
	logger *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[model.ConnectionID]*Client),
		groups: make(map[model.RoomID]map[model.ConnectionID]*Client),
		logger: logger.With(slog.String("component", "ws")),
	}
}

// Ensure Hub implements the transport capability
var _ transport.Emitter = (*Hub)(nil)

// Envelope is the wire framing for events in both directions
type Envelope struct {
	Event   model.EventType `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.conns[c.id] = c
	total := len(h.conns)
	h.mu.Unlock()
	h.logger.Info("connection registered",
		slog.String("connection_id", string(c.id)),
		slog.Int("total_connections", total))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.conns[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c.id)
	for roomID, group := range h.groups {
		delete(group, c.id)
		if len(group) == 0 {
			delete(h.groups, roomID)
		}
	}
	close(c.send)
	total := len(h.conns)
	h.mu.Unlock()
	h.logger.Info("connection unregistered",
		slog.String("connection_id", string(c.id)),
		slog.Int("total_connections", total))
}

// JoinRoom adds a connection to a room's broadcast group
func (h *Hub) JoinRoom(connID model.ConnectionID, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	group, ok := h.groups[roomID]
	if !ok {
		group = make(map[model.ConnectionID]*Client)
		h.groups[roomID] = group
	}
	group[connID] = c
}

// LeaveRoom removes a connection from a room's broadcast group
func (h *Hub) LeaveRoom(connID model.ConnectionID, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[roomID]
	if !ok {
		return
	}
	delete(group, connID)
	if len(group) == 0 {
		delete(h.groups, roomID)
	}
}

// ToRoom delivers an event to every connection in the room's group
func (h *Hub) ToRoom(roomID model.RoomID, event model.EventType, payload any) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("marshaling event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.groups[roomID] {
		h.push(c, data)
	}
}

// ToConnection delivers an event to a single connection
func (h *Hub) ToConnection(connID model.ConnectionID, event model.EventType, payload any) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("marshaling event",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.conns[connID]; ok {
		h.push(c, data)
	}
}

// push hands a frame to a client's write pump without blocking the
// caller; a client that can't keep up loses the frame
func (h *Hub) push(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.logger.Warn("frame dropped, client buffer full",
			slog.String("connection_id", string(c.id)))
	}
}

// GroupSize returns the number of connections in a room's group
func (h *Hub) GroupSize(roomID model.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[roomID])
}

func marshalEnvelope(event model.EventType, payload any) ([]byte, error) {
	env := struct {
		Event   model.EventType `json:"event"`
		Payload any             `json:"payload,omitempty"`
	}{Event: event, Payload: payload}
	return json.Marshal(env)
}
