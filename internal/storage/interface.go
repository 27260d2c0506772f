package storage

import (
	"context"

	"github.com/imposteur-game/lobby-server/internal/model"
)

// Storage defines the interface for session and room persistence.
//
// Sessions are retained with a TTL rather than forever; an expired
// session behaves exactly like one that never existed. Rooms are
// keyed by their public code, which is unique among live rooms only.
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error)
	GetRoomByMember(ctx context.Context, connID model.ConnectionID) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomCodeExists(ctx context.Context, code model.RoomCode) (bool, error)
}
