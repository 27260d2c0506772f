package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/imposteur-game/lobby-server/internal/dependencies/clock"
	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/storage"
	"github.com/imposteur-game/lobby-server/internal/transport"
)

// Controller implements the room protocol handlers. Each handler
// validates preconditions, mutates the registry and/or session store
// under the room's lock, and broadcasts a projected view.
//
// Precondition failures are reported to the requesting connection
// only and leave room state unmodified; nothing here is fatal beyond
// a single request.
type Controller struct {
	storage  storage.Storage
	registry *Registry
	emitter  transport.Emitter
	clock    clock.Clock
	locks    *roomLocks
	logger   *slog.Logger
}

// NewController creates a new room controller
func NewController(storage storage.Storage, registry *Registry, emitter transport.Emitter, clk clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage:  storage,
		registry: registry,
		emitter:  emitter,
		clock:    clk,
		locks:    newRoomLocks(),
		logger:   logger.With(slog.String("component", "room")),
	}
}

// Connect runs the post-handshake reconnection replay. If the
// session's cached room reference points at a room that still exists,
// the connection is re-added as a member under its prior display name
// and receives the current projected state alone. A dead reference
// degrades silently; the connection simply joins no room.
func (c *Controller) Connect(ctx context.Context, session *model.Session) error {
	if session.RoomCode == "" {
		return nil
	}

	unlock := c.locks.lock(string(session.RoomCode))
	defer unlock()

	room, err := c.storage.GetRoomByCode(ctx, session.RoomCode)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	// Codes are recycled; make sure this is still the same room
	if room.ID != session.RoomID {
		return nil
	}

	if !room.HasPlayer(session.ConnectionID) {
		if err := c.registry.AddMember(ctx, room, session.ConnectionID, session.DisplayName); err != nil {
			if errors.Is(err, model.ErrRoomFull) {
				c.logger.Info("reconnection replay dropped, room filled up",
					slog.String("room_code", string(room.Code)),
					slog.String("session_id", string(session.ID)))
				return nil
			}
			return err
		}
	}

	c.emitter.JoinRoom(session.ConnectionID, room.ID)
	c.emitter.ToConnection(session.ConnectionID, model.EventUpdateRoom, model.ProjectRoom(room))

	c.logger.Info("player rejoined room",
		slog.String("room_code", string(room.Code)),
		slog.String("connection_id", string(session.ConnectionID)))
	return nil
}

// Create handles a createRoom request: a new room with the requester
// as owner and sole member
func (c *Controller) Create(ctx context.Context, session *model.Session, displayName string) error {
	if _, err := c.storage.GetRoomByMember(ctx, session.ConnectionID); err == nil {
		c.emitter.ToConnection(session.ConnectionID, model.EventJoinRoomFailed, "player already in a room")
		return nil
	} else if !errors.Is(err, model.ErrRoomNotFound) {
		return err
	}

	room, err := c.registry.Create(ctx, session.ConnectionID)
	if err != nil {
		return fmt.Errorf("creating room: %w", err)
	}

	unlock := c.locks.lock(string(room.Code))
	defer unlock()

	if err := c.joinRoom(ctx, session, room, displayName); err != nil {
		return err
	}

	c.emitter.ToConnection(session.ConnectionID, model.EventCreateRoomSuccess, model.ProjectRoom(room))

	c.logger.Info("room created",
		slog.String("room_code", string(room.Code)),
		slog.String("owner", string(session.ConnectionID)))
	return nil
}

// Join handles a joinRoom request. Rejections are independent checks
// reported in order: already-in-room, invalid code, room full.
func (c *Controller) Join(ctx context.Context, session *model.Session, displayName string, code model.RoomCode) error {
	if _, err := c.storage.GetRoomByMember(ctx, session.ConnectionID); err == nil {
		c.emitter.ToConnection(session.ConnectionID, model.EventJoinRoomFailed, "player already in a room")
		return nil
	} else if !errors.Is(err, model.ErrRoomNotFound) {
		return err
	}

	unlock := c.locks.lock(string(code))
	defer unlock()

	room, err := c.storage.GetRoomByCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			c.emitter.ToConnection(session.ConnectionID, model.EventJoinRoomFailed, "room code invalid")
			return nil
		}
		return err
	}

	if err := c.joinRoom(ctx, session, room, displayName); err != nil {
		if errors.Is(err, model.ErrRoomFull) {
			c.emitter.ToConnection(session.ConnectionID, model.EventJoinRoomFailed, "room is full")
			return nil
		}
		return err
	}

	c.logger.Info("player joined room",
		slog.String("room_code", string(room.Code)),
		slog.String("connection_id", string(session.ConnectionID)))
	return nil
}

// joinRoom is the shared join sequence: add as member, join the
// transport group, cache the room reference on the session, persist
// it, and broadcast the updated projection to the whole room.
// Callers must hold the room's lock.
func (c *Controller) joinRoom(ctx context.Context, session *model.Session, room *model.Room, displayName string) error {
	if err := c.registry.AddMember(ctx, room, session.ConnectionID, displayName); err != nil {
		return err
	}

	c.emitter.JoinRoom(session.ConnectionID, room.ID)

	session.DisplayName = displayName
	session.RoomID = room.ID
	session.RoomCode = room.Code
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	c.emitter.ToRoom(room.ID, model.EventUpdateRoom, model.ProjectRoom(room))
	return nil
}

// Leave handles a leaveRoom request. Leaving while not in a room is
// acknowledged as a no-op so client state machines stay simple.
func (c *Controller) Leave(ctx context.Context, session *model.Session) error {
	removed, err := c.removeFromRoom(ctx, session, true)
	if err != nil {
		return err
	}

	c.emitter.ToConnection(session.ConnectionID, model.EventLeaveRoom, nil)

	if removed {
		c.logger.Info("player left room",
			slog.String("connection_id", string(session.ConnectionID)))
	}
	return nil
}

// Start handles a startGame request. Non-owner requests are ignored
// silently; too few players is reported to the requester with the
// live count; on success the in-progress projection goes to the room.
func (c *Controller) Start(ctx context.Context, session *model.Session) error {
	found, err := c.storage.GetRoomByMember(ctx, session.ConnectionID)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	unlock := c.locks.lock(string(found.Code))
	defer unlock()

	room, err := c.storage.GetRoomByCode(ctx, found.Code)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	if room.Owner != session.ConnectionID {
		return nil
	}

	if err := c.registry.Start(ctx, room); err != nil {
		switch {
		case errors.Is(err, model.ErrTooFewPlayers):
			msg := fmt.Sprintf("Impossible de créer la partie: seulement %d joueur(s).", len(room.Players))
			c.emitter.ToConnection(session.ConnectionID, model.EventStartGameFailed, msg)
			return nil
		case errors.Is(err, model.ErrAlreadyStarted):
			c.logger.Info("start ignored, game already in progress",
				slog.String("room_code", string(room.Code)))
			return nil
		default:
			return err
		}
	}

	c.emitter.ToRoom(room.ID, model.EventStartGame, model.ProjectRoom(room))

	c.logger.Info("game started",
		slog.String("room_code", string(room.Code)),
		slog.Int("players", len(room.Players)))
	return nil
}

// Disconnect handles a transport-initiated disconnect: the session is
// marked disconnected and the connection vacates its room exactly as
// an explicit leave would. There is no grace period at the membership
// level. The session's cached room reference is deliberately left in
// place so a later fresh connection can resume into the room, if the
// room survived this departure.
func (c *Controller) Disconnect(ctx context.Context, session *model.Session) error {
	session.Connected = false
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	removed, err := c.removeFromRoom(ctx, session, false)
	if err != nil {
		return err
	}

	if removed {
		c.logger.Info("player disconnected from room",
			slog.String("connection_id", string(session.ConnectionID)))
	}
	return nil
}

// removeFromRoom takes the connection out of whatever room it is in,
// reassigning ownership or deleting the room as needed, and
// broadcasts the updated projection to any remaining members. When
// clearSessionRef is set the session's cached room reference is
// cleared and persisted; disconnect keeps the reference as the
// reconnection window. Returns whether a membership was removed.
func (c *Controller) removeFromRoom(ctx context.Context, session *model.Session, clearSessionRef bool) (bool, error) {
	found, err := c.storage.GetRoomByMember(ctx, session.ConnectionID)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return false, nil
		}
		return false, err
	}

	unlock := c.locks.lock(string(found.Code))
	defer unlock()

	room, err := c.storage.GetRoomByCode(ctx, found.Code)
	if err != nil || !room.HasPlayer(session.ConnectionID) {
		// Raced with another removal; nothing left to do
		if err != nil && !errors.Is(err, model.ErrRoomNotFound) {
			return false, err
		}
		return false, nil
	}

	c.emitter.LeaveRoom(session.ConnectionID, room.ID)

	deleted, err := c.registry.RemoveMember(ctx, room, session.ConnectionID)
	if err != nil {
		return false, err
	}

	if clearSessionRef {
		session.RoomID = ""
		session.RoomCode = ""
		session.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveSession(ctx, session); err != nil {
			return false, fmt.Errorf("saving session: %w", err)
		}
	}

	if !deleted {
		c.emitter.ToRoom(room.ID, model.EventUpdateRoom, model.ProjectRoom(room))
	}

	return true, nil
}
