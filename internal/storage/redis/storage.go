package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Rooms are stored as JSON values keyed by code, with a hash indexing
// member connection ids to room codes so that member lookups don't
// scan the keyspace. Index entries can go stale when a member is
// removed from a room that lives on; GetRoomByMember verifies
// membership against the room itself and prunes stale entries lazily.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	// Pipeline the room write with its member index entries
	pipe := s.client.Pipeline()
	pipe.Set(ctx, roomKey(room.Code), data, s.cfg.RoomTTL)
	for _, p := range room.Players {
		pipe.HSet(ctx, memberIndexKey, string(p.ConnectionID), string(room.Code))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) GetRoomByMember(ctx context.Context, connID model.ConnectionID) (*model.Room, error) {
	code, err := s.client.HGet(ctx, memberIndexKey, string(connID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	room, err := s.GetRoomByCode(ctx, model.RoomCode(code))
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			// Room expired or deleted out from under the index
			_ = s.client.HDel(ctx, memberIndexKey, string(connID)).Err()
		}
		return nil, err
	}

	if !room.HasPlayer(connID) {
		// Stale index entry left by a removal; prune it
		_ = s.client.HDel(ctx, memberIndexKey, string(connID)).Err()
		return nil, model.ErrRoomNotFound
	}

	return room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	room, err := s.GetRoomByCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, roomKey(code))
	for _, p := range room.Players {
		pipe.HDel(ctx, memberIndexKey, string(p.ConnectionID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RoomCodeExists(ctx context.Context, code model.RoomCode) (bool, error) {
	n, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
