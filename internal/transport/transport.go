package transport

import (
	"github.com/imposteur-game/lobby-server/internal/model"
)

// Emitter is the transport capability the lobby core consumes: group
// membership for per-room broadcast, plus delivery of named events to
// one connection or to every connection in a room's group.
//
// Implementations must tolerate unknown connection and room ids;
// emitting to a connection that has gone away is a no-op, never an
// error. The core relies on this when acknowledging a leave to a
// connection that is mid-disconnect.
type Emitter interface {
	// JoinRoom adds a connection to a room's broadcast group
	JoinRoom(connID model.ConnectionID, roomID model.RoomID)

	// LeaveRoom removes a connection from a room's broadcast group
	LeaveRoom(connID model.ConnectionID, roomID model.RoomID)

	// ToRoom delivers an event to every connection in the room's group
	ToRoom(roomID model.RoomID, event model.EventType, payload any)

	// ToConnection delivers an event to a single connection
	ToConnection(connID model.ConnectionID, event model.EventType, payload any)
}
