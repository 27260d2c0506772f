package testutil

import (
	"sync"

	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/transport"
)

// EmittedEvent is one event captured by the RecordingEmitter
type EmittedEvent struct {
	Event   model.EventType
	Payload any
}

// RecordingEmitter is a transport.Emitter that records group
// membership and every emitted event, for asserting on handler
// behavior in tests
type RecordingEmitter struct {
	mu sync.Mutex

	groups     map[model.RoomID]map[model.ConnectionID]bool
	roomEvents map[model.RoomID][]EmittedEvent
	connEvents map[model.ConnectionID][]EmittedEvent
}

// Ensure RecordingEmitter implements the transport capability
var _ transport.Emitter = (*RecordingEmitter)(nil)

// NewRecordingEmitter creates a new RecordingEmitter
func NewRecordingEmitter() *RecordingEmitter {
	return &RecordingEmitter{
		groups:     make(map[model.RoomID]map[model.ConnectionID]bool),
		roomEvents: make(map[model.RoomID][]EmittedEvent),
		connEvents: make(map[model.ConnectionID][]EmittedEvent),
	}
}

// JoinRoom records a group join
func (e *RecordingEmitter) JoinRoom(connID model.ConnectionID, roomID model.RoomID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	group, ok := e.groups[roomID]
	if !ok {
		group = make(map[model.ConnectionID]bool)
		e.groups[roomID] = group
	}
	group[connID] = true
}

// LeaveRoom records a group leave
func (e *RecordingEmitter) LeaveRoom(connID model.ConnectionID, roomID model.RoomID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.groups[roomID], connID)
}

// ToRoom records a room broadcast
func (e *RecordingEmitter) ToRoom(roomID model.RoomID, event model.EventType, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.roomEvents[roomID] = append(e.roomEvents[roomID], EmittedEvent{Event: event, Payload: payload})
}

// ToConnection records a single-connection emit
func (e *RecordingEmitter) ToConnection(connID model.ConnectionID, event model.EventType, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connEvents[connID] = append(e.connEvents[connID], EmittedEvent{Event: event, Payload: payload})
}

// InGroup reports whether the connection is in the room's group
func (e *RecordingEmitter) InGroup(roomID model.RoomID, connID model.ConnectionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.groups[roomID][connID]
}

// RoomEvents returns the events broadcast to a room's group
func (e *RecordingEmitter) RoomEvents(roomID model.RoomID) []EmittedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]EmittedEvent(nil), e.roomEvents[roomID]...)
}

// ConnEvents returns the events emitted to a single connection
func (e *RecordingEmitter) ConnEvents(connID model.ConnectionID) []EmittedEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]EmittedEvent(nil), e.connEvents[connID]...)
}

// LastConnEvent returns the most recent event emitted to the
// connection, or nil if none
func (e *RecordingEmitter) LastConnEvent(connID model.ConnectionID) *EmittedEvent {
	events := e.ConnEvents(connID)
	if len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

// Reset clears all recorded state
func (e *RecordingEmitter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.groups = make(map[model.RoomID]map[model.ConnectionID]bool)
	e.roomEvents = make(map[model.RoomID][]EmittedEvent)
	e.connEvents = make(map[model.ConnectionID][]EmittedEvent)
}
