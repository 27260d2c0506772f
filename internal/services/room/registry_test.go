package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/imposteur-game/lobby-server/internal/dependencies/mocks"
	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/storage/memory"
)

type RegistrySuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.storage = memory.New(s.clock, memory.Config{})
	s.registry = NewRegistry(s.storage, s.clock, s.random)
	s.ctx = context.Background()
}

// Code generation tests

func (s *RegistrySuite) TestGenerateUniqueCode() {
	s.random.QueueString("abc123")

	code, err := s.registry.GenerateUniqueCode(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RoomCode("abc123"), code)
}

func (s *RegistrySuite) TestGenerateUniqueCodeRetriesOnCollision() {
	s.random.QueueString("abc123")
	room, err := s.registry.Create(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("abc123"), room.Code)

	// First draw collides with the live room, second is free
	s.random.QueueString("abc123", "def456")

	code, err := s.registry.GenerateUniqueCode(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RoomCode("def456"), code)
}

func (s *RegistrySuite) TestCodesAreRecyclable() {
	s.random.QueueString("abc123")
	room, err := s.registry.Create(s.ctx, "conn-1")
	s.Require().NoError(err)

	s.Require().NoError(s.registry.AddMember(s.ctx, room, "conn-1", "alice"))
	deleted, err := s.registry.RemoveMember(s.ctx, room, "conn-1")
	s.Require().NoError(err)
	s.Require().True(deleted)

	s.random.QueueString("abc123")
	code, err := s.registry.GenerateUniqueCode(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RoomCode("abc123"), code)
}

// Create tests

func (s *RegistrySuite) TestCreate() {
	s.random.QueueString("abc123")

	room, err := s.registry.Create(s.ctx, "conn-1")
	s.Require().NoError(err)

	s.NotEmpty(room.ID)
	s.Equal(model.RoomCode("abc123"), room.Code)
	s.Equal(model.ConnectionID("conn-1"), room.Owner)
	s.Equal(model.RoomStateLobby, room.State)
	s.Empty(room.Players)
	s.Equal(s.clock.Now(), room.CreatedAt)
	s.Nil(room.StartedAt)

	saved, err := s.storage.GetRoomByCode(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(room.ID, saved.ID)
}

// AddMember tests

func (s *RegistrySuite) createRoom(members ...string) *model.Room {
	s.random.QueueString("abc123")
	owner := model.ConnectionID("conn-1")
	if len(members) > 0 {
		owner = model.ConnectionID(members[0])
	}
	room, err := s.registry.Create(s.ctx, owner)
	s.Require().NoError(err)
	for _, m := range members {
		s.Require().NoError(s.registry.AddMember(s.ctx, room, model.ConnectionID(m), m))
	}
	return room
}

func (s *RegistrySuite) TestAddMemberAppendsInOrder() {
	room := s.createRoom("conn-1", "conn-2", "conn-3")

	s.Require().Len(room.Players, 3)
	s.Equal(model.ConnectionID("conn-1"), room.Players[0].ConnectionID)
	s.Equal(model.ConnectionID("conn-2"), room.Players[1].ConnectionID)
	s.Equal(model.ConnectionID("conn-3"), room.Players[2].ConnectionID)
	s.Empty(room.Players[0].Role)
}

func (s *RegistrySuite) TestAddMemberRejoinUpdatesNameInPlace() {
	room := s.createRoom("conn-1", "conn-2")

	err := s.registry.AddMember(s.ctx, room, "conn-1", "new-name")
	s.Require().NoError(err)

	s.Len(room.Players, 2)
	s.Equal("new-name", room.Players[0].DisplayName)
	s.Equal(model.ConnectionID("conn-1"), room.Players[0].ConnectionID)
}

func (s *RegistrySuite) TestAddMemberEnforcesCap() {
	room := s.createRoom("conn-1", "conn-2", "conn-3", "conn-4", "conn-5")

	err := s.registry.AddMember(s.ctx, room, "conn-6", "late")
	s.ErrorIs(err, model.ErrRoomFull)
	s.Len(room.Players, model.MaxPlayersPerRoom)
}

func (s *RegistrySuite) TestAddMemberRejoinBypassesCap() {
	room := s.createRoom("conn-1", "conn-2", "conn-3", "conn-4", "conn-5")

	err := s.registry.AddMember(s.ctx, room, "conn-5", "renamed")
	s.NoError(err)
	s.Equal("renamed", room.Players[4].DisplayName)
}

// RemoveMember tests

func (s *RegistrySuite) TestRemoveMember() {
	room := s.createRoom("conn-1", "conn-2", "conn-3")

	deleted, err := s.registry.RemoveMember(s.ctx, room, "conn-2")
	s.Require().NoError(err)
	s.False(deleted)

	s.Len(room.Players, 2)
	s.False(room.HasPlayer("conn-2"))
}

func (s *RegistrySuite) TestRemoveOwnerReassignsToFirstRemaining() {
	room := s.createRoom("conn-1", "conn-2", "conn-3")

	deleted, err := s.registry.RemoveMember(s.ctx, room, "conn-1")
	s.Require().NoError(err)
	s.False(deleted)

	s.Equal(model.ConnectionID("conn-2"), room.Owner)
}

func (s *RegistrySuite) TestRemoveLastMemberDeletesRoom() {
	room := s.createRoom("conn-1")

	deleted, err := s.registry.RemoveMember(s.ctx, room, "conn-1")
	s.Require().NoError(err)
	s.True(deleted)

	_, err = s.storage.GetRoomByCode(s.ctx, room.Code)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RegistrySuite) TestOwnerInvariantAcrossJoinsAndLeaves() {
	room := s.createRoom("conn-1", "conn-2", "conn-3", "conn-4")

	for _, leaver := range []model.ConnectionID{"conn-1", "conn-3", "conn-2"} {
		deleted, err := s.registry.RemoveMember(s.ctx, room, leaver)
		s.Require().NoError(err)
		s.Require().False(deleted)
		s.True(room.HasPlayer(room.Owner), "owner must be a member while the room is non-empty")
	}
}

// Start tests

func (s *RegistrySuite) TestStartAssignsRoles() {
	room := s.createRoom("conn-1", "conn-2")
	s.random.QueueIntn(0, 2)

	err := s.registry.Start(s.ctx, room)
	s.Require().NoError(err)

	s.Equal(model.RoomStateInProgress, room.State)
	s.Require().NotNil(room.StartedAt)
	s.Equal(s.clock.Now(), *room.StartedAt)
	s.Equal(model.Roles[0], room.Players[0].Role)
	s.Equal(model.Roles[2], room.Players[1].Role)
}

func (s *RegistrySuite) TestStartRolesMayRepeat() {
	room := s.createRoom("conn-1", "conn-2", "conn-3")
	s.random.QueueIntn(1, 1, 1)

	s.Require().NoError(s.registry.Start(s.ctx, room))

	for _, p := range room.Players {
		s.Equal(model.Roles[1], p.Role)
	}
}

func (s *RegistrySuite) TestStartRequiresTwoPlayers() {
	room := s.createRoom("conn-1")

	err := s.registry.Start(s.ctx, room)
	s.ErrorIs(err, model.ErrTooFewPlayers)
	s.Equal(model.RoomStateLobby, room.State)
	s.Empty(room.Players[0].Role)
}

func (s *RegistrySuite) TestStartTwiceFails() {
	room := s.createRoom("conn-1", "conn-2")

	s.Require().NoError(s.registry.Start(s.ctx, room))

	err := s.registry.Start(s.ctx, room)
	s.ErrorIs(err, model.ErrAlreadyStarted)
}
