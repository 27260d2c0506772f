package memory

import (
	"context"
	"sync"
	"time"

	"github.com/imposteur-game/lobby-server/internal/dependencies/clock"
	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/storage"
)

// DefaultSessionTTL bounds session retention when no TTL is configured
const DefaultSessionTTL = 24 * time.Hour

// Config holds behavior settings for the in-memory storage
type Config struct {
	// SessionTTL is how long a session survives after its last save.
	// Zero means DefaultSessionTTL.
	SessionTTL time.Duration
}

// Storage is an in-memory implementation of the storage interface.
// Sessions are evicted lazily on access once past their TTL; callers
// that want proactive reclamation can run SweepExpiredSessions on a
// timer.
//
// Records are copied on save and on get, matching the isolation the
// redis backend gets from its JSON round trip. Callers mutate their
// own copy under whatever lock serializes their find-then-mutate
// sequence and persist it with another save; the stored record itself
// is never written through a returned pointer.
type Storage struct {
	mu sync.RWMutex

	clock      clock.Clock
	sessionTTL time.Duration

	sessions map[model.SessionID]sessionEntry
	rooms    map[model.RoomCode]*model.Room
}

type sessionEntry struct {
	session   *model.Session
	expiresAt time.Time
}

// New creates a new in-memory storage instance
func New(clk clock.Clock, cfg Config) *Storage {
	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	return &Storage{
		clock:      clk,
		sessionTTL: ttl,
		sessions:   make(map[model.SessionID]sessionEntry),
		rooms:      make(map[model.RoomCode]*model.Room),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func copySession(session *model.Session) *model.Session {
	dup := *session
	return &dup
}

func copyRoom(room *model.Room) *model.Room {
	dup := *room
	if room.Players != nil {
		dup.Players = append([]model.Player{}, room.Players...)
	}
	if room.StartedAt != nil {
		startedAt := *room.StartedAt
		dup.StartedAt = &startedAt
	}
	return &dup
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = sessionEntry{
		session:   copySession(session),
		expiresAt: s.clock.Now().Add(s.sessionTTL),
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	if s.clock.Now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, model.ErrSessionNotFound
	}
	return copySession(entry.session), nil
}

// SweepExpiredSessions removes all expired sessions and returns the
// number removed
func (s *Storage) SweepExpiredSessions(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	removed := 0
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = copyRoom(room)
	return nil
}

func (s *Storage) GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return copyRoom(room), nil
}

// GetRoomByMember scans live rooms for one containing the connection.
// Linear, which is fine at the expected number of concurrent rooms.
func (s *Storage) GetRoomByMember(ctx context.Context, connID model.ConnectionID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, room := range s.rooms {
		if room.HasPlayer(connID) {
			return copyRoom(room), nil
		}
	}
	return nil, model.ErrRoomNotFound
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *Storage) RoomCodeExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}
