package model

// EventType names an event on the wire, in either direction
type EventType string

// Client-originated requests
const (
	EventCreateRoom EventType = "createRoom"
	EventJoinRoom   EventType = "joinRoom"
	EventLeaveRoom  EventType = "leaveRoom"
	EventStartGame  EventType = "startGame"
)

// Server-originated events
const (
	EventSession           EventType = "session"
	EventSessionExpired    EventType = "session_expired"
	EventUpdateRoom        EventType = "updateRoom"
	EventCreateRoomSuccess EventType = "createRoomSuccess"
	EventJoinRoomFailed    EventType = "joinRoomFailed"
	EventStartGameFailed   EventType = "startGameFailed"
)

// SessionPayload is delivered to a connection once its handshake
// completes, so the client can present the session id on reconnect
type SessionPayload struct {
	SessionID    SessionID    `json:"sessionId"`
	ConnectionID ConnectionID `json:"connectionId"`
}
