package model

import "time"

// SessionID uniquely identifies a session across reconnects.
// It is minted once per fresh identity and presented again by the
// client on later connection attempts.
type SessionID string

// ConnectionID identifies a single live transport connection.
// A session's connection id changes every time the client reconnects.
type ConnectionID string

// Session is the reconnection-durable identity behind a connection.
// RoomID/RoomCode are a denormalized cache of the session's room
// membership, used only to support reconnection replay.
type Session struct {
	ID           SessionID    `json:"id"`
	ConnectionID ConnectionID `json:"connectionId"`
	DisplayName  string       `json:"displayName"`
	RoomID       RoomID       `json:"roomId,omitempty"`
	RoomCode     RoomCode     `json:"roomCode,omitempty"`
	Connected    bool         `json:"connected"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
