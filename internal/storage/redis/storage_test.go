package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/imposteur-game/lobby-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour
	cfg.RoomTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		ID:           "sess-1",
		ConnectionID: "conn-1",
		DisplayName:  "Alice",
		RoomCode:     "abc123",
		Connected:    true,
	}

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "sess-1")
	s.Require().NoError(err)
	s.Equal(session.DisplayName, retrieved.DisplayName)
	s.Equal(session.RoomCode, retrieved.RoomCode)
	s.True(retrieved.Connected)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nope")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExpiresAfterTTL() {
	session := &model.Session{ID: "sess-1", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetSession(s.ctx, "sess-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Room tests

func (s *StorageSuite) makeRoom(code model.RoomCode, members ...model.ConnectionID) *model.Room {
	players := make([]model.Player, len(members))
	for i, m := range members {
		players[i] = model.Player{ConnectionID: m, DisplayName: string(m)}
	}
	owner := model.ConnectionID("")
	if len(members) > 0 {
		owner = members[0]
	}
	return &model.Room{
		ID:      model.RoomID("room-" + string(code)),
		Code:    code,
		Owner:   owner,
		State:   model.RoomStateLobby,
		Players: players,
	}
}

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := s.makeRoom("abc123", "conn-1", "conn-2")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	retrieved, err := s.storage.GetRoomByCode(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
	s.Len(retrieved.Players, 2)
	s.Equal(model.ConnectionID("conn-1"), retrieved.Owner)
}

func (s *StorageSuite) TestGetRoomByMember() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.makeRoom("abc123", "conn-1", "conn-2")))

	room, err := s.storage.GetRoomByMember(s.ctx, "conn-2")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("abc123"), room.Code)
}

func (s *StorageSuite) TestGetRoomByMemberNotFound() {
	_, err := s.storage.GetRoomByMember(s.ctx, "conn-9")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestGetRoomByMemberPrunesStaleIndex() {
	room := s.makeRoom("abc123", "conn-1", "conn-2")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	// Remove conn-2 and re-save; the index entry is now stale
	room.Players = room.Players[:1]
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	_, err := s.storage.GetRoomByMember(s.ctx, "conn-2")
	s.ErrorIs(err, model.ErrRoomNotFound)

	// Second lookup hits the pruned index directly
	_, err = s.storage.GetRoomByMember(s.ctx, "conn-2")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoomCleansIndex() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.makeRoom("abc123", "conn-1")))
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "abc123"))

	_, err := s.storage.GetRoomByCode(s.ctx, "abc123")
	s.ErrorIs(err, model.ErrRoomNotFound)

	_, err = s.storage.GetRoomByMember(s.ctx, "conn-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteMissingRoomIsNoop() {
	s.NoError(s.storage.DeleteRoom(s.ctx, "zzzzzz"))
}

func (s *StorageSuite) TestRoomCodeExists() {
	exists, err := s.storage.RoomCodeExists(s.ctx, "abc123")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.makeRoom("abc123")))

	exists, err = s.storage.RoomCodeExists(s.ctx, "abc123")
	s.Require().NoError(err)
	s.True(exists)
}
