package redis

import (
	"github.com/imposteur-game/lobby-server/internal/model"
)

// Key prefixes for Redis storage
const (
	sessionKeyPrefix = "lobby:session:"
	roomKeyPrefix    = "lobby:room:"
	memberIndexKey   = "lobby:room_members"
)

func sessionKey(id model.SessionID) string {
	return sessionKeyPrefix + string(id)
}

func roomKey(code model.RoomCode) string {
	return roomKeyPrefix + string(code)
}
