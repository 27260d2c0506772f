package model

import "time"

// RoomID is the internal unique identifier for a room
type RoomID string

// RoomCode is the short human-typeable code used to join a room.
// Codes are unique among live rooms only and are recycled once a
// room is deleted.
type RoomCode string

// RoomState represents the lifecycle state of a room
type RoomState string

const (
	RoomStateLobby      RoomState = "lobby"       // Waiting for players
	RoomStateInProgress RoomState = "in_progress" // Game started, terminal
)

// Role is a player's randomly assigned game role
type Role string

// The fixed role set. Roles are drawn uniformly at random with
// replacement, so they may repeat across members of a room.
var Roles = []Role{"Imposteur", "Droide", "Mage"}

const (
	// MaxPlayersPerRoom is the member cap enforced at join time
	MaxPlayersPerRoom = 5
	// MinPlayersToStart is the minimum member count to start a game
	MinPlayersToStart = 2
)

// Player is one connection's membership in a room
type Player struct {
	ConnectionID ConnectionID `json:"connectionId"`
	DisplayName  string       `json:"displayName"`
	Role         Role         `json:"role,omitempty"` // empty until the room starts
}

// Room is a bounded group of players sharing a lobby/game lifecycle.
// Players are kept in insertion order; that order is both the display
// order and the owner-reassignment order.
type Room struct {
	ID        RoomID       `json:"id"`
	Code      RoomCode     `json:"code"`
	Owner     ConnectionID `json:"owner"`
	State     RoomState    `json:"state"`
	Players   []Player     `json:"players"`
	CreatedAt time.Time    `json:"createdAt"`
	StartedAt *time.Time   `json:"startedAt,omitempty"`
}

// GetPlayer returns the player with the given connection id, or nil
// if the connection is not a member
func (r *Room) GetPlayer(connID ConnectionID) *Player {
	for i := range r.Players {
		if r.Players[i].ConnectionID == connID {
			return &r.Players[i]
		}
	}
	return nil
}

// HasPlayer reports whether the connection is a member of the room
func (r *Room) HasPlayer(connID ConnectionID) bool {
	return r.GetPlayer(connID) != nil
}
