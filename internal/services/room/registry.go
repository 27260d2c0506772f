package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/imposteur-game/lobby-server/internal/dependencies/clock"
	"github.com/imposteur-game/lobby-server/internal/dependencies/random"
	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes
	RoomCodeAlphabet = "0123456789abcdef"
)

// Registry owns room creation, lookup, and membership mutation
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
}

// NewRegistry creates a new room registry
func NewRegistry(storage storage.Storage, clk clock.Clock, rnd random.Random) *Registry {
	return &Registry{
		storage: storage,
		clock:   clk,
		random:  rnd,
	}
}

// GenerateUniqueCode draws codes until one is free among live rooms.
// The code space (16^6) is large relative to the expected number of
// concurrent rooms, but collisions are still rechecked every draw.
func (r *Registry) GenerateUniqueCode(ctx context.Context) (model.RoomCode, error) {
	for {
		code := model.RoomCode(r.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := r.storage.RoomCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

// Create allocates a new room in the lobby state, owned by the given
// connection, with no members yet
func (r *Registry) Create(ctx context.Context, owner model.ConnectionID) (*model.Room, error) {
	code, err := r.GenerateUniqueCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating room code: %w", err)
	}

	room := &model.Room{
		ID:        model.RoomID(uuid.NewString()),
		Code:      code,
		Owner:     owner,
		State:     model.RoomStateLobby,
		Players:   []model.Player{},
		CreatedAt: r.clock.Now(),
	}

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// AddMember adds a connection to the room, or updates its display
// name in place if it is already a member (idempotent rejoin). The
// member cap applies only to genuinely new members.
func (r *Registry) AddMember(ctx context.Context, room *model.Room, connID model.ConnectionID, displayName string) error {
	if existing := room.GetPlayer(connID); existing != nil {
		existing.DisplayName = displayName
		return r.storage.SaveRoom(ctx, room)
	}

	if len(room.Players) >= model.MaxPlayersPerRoom {
		return model.ErrRoomFull
	}

	room.Players = append(room.Players, model.Player{
		ConnectionID: connID,
		DisplayName:  displayName,
	})

	return r.storage.SaveRoom(ctx, room)
}

// RemoveMember removes a connection from the room. If the removed
// member was the owner, ownership passes to the first remaining
// member in insertion order. If the room becomes empty it is deleted
// from the registry as part of this call; the returned bool reports
// that deletion.
func (r *Registry) RemoveMember(ctx context.Context, room *model.Room, connID model.ConnectionID) (bool, error) {
	for i, p := range room.Players {
		if p.ConnectionID == connID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}

	if len(room.Players) == 0 {
		if err := r.storage.DeleteRoom(ctx, room.Code); err != nil {
			return false, err
		}
		return true, nil
	}

	if room.Owner == connID {
		room.Owner = room.Players[0].ConnectionID
	}

	return false, r.storage.SaveRoom(ctx, room)
}

// Start transitions the room from lobby to in-progress, assigning
// every member a role drawn uniformly at random with replacement, so
// the same role can land on several members.
func (r *Registry) Start(ctx context.Context, room *model.Room) error {
	if room.State != model.RoomStateLobby {
		return model.ErrAlreadyStarted
	}
	if len(room.Players) < model.MinPlayersToStart {
		return model.ErrTooFewPlayers
	}

	for i := range room.Players {
		room.Players[i].Role = model.Roles[r.random.Intn(len(model.Roles))]
	}

	room.State = model.RoomStateInProgress
	now := r.clock.Now()
	room.StartedAt = &now

	return r.storage.SaveRoom(ctx, room)
}
