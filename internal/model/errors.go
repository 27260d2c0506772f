package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNameRequired    = errors.New("display name required")

	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrAlreadyInRoom  = errors.New("player already in a room")
	ErrNotOwner       = errors.New("player is not the room owner")
	ErrAlreadyStarted = errors.New("game is already in progress")
	ErrTooFewPlayers  = errors.New("not enough players to start")
)
