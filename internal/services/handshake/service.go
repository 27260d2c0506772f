package handshake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/imposteur-game/lobby-server/internal/dependencies/clock"
	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/storage"
)

// Service runs the handshake/resume protocol once per new transport
// connection, before any room command is accepted
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new handshake service
func New(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		logger:  logger.With(slog.String("component", "handshake")),
	}
}

// Result is the outcome of a completed (or rejected) handshake
type Result struct {
	Session *model.Session
	// Resumed is true when a presented session id was found and the
	// prior identity was reattached
	Resumed bool
	// Expired is true when a presented session id was not found. It
	// can be set alongside a successful fresh-identity result, or
	// alongside an error when no display name was supplied; either
	// way the client should be told its old session is gone.
	Expired bool
}

// Establish resolves or mints a session identity for a new connection.
//
// A known session id resumes the prior identity, room reference
// included, without requiring a display name. An unknown session id
// degrades to the fresh-identity path rather than rejecting the
// connection. The fresh path requires a non-empty display name;
// without one the handshake fails and the connection must not
// proceed. On success the session record is persisted as connected.
func (s *Service) Establish(ctx context.Context, connID model.ConnectionID, sessionID model.SessionID, displayName string) (*Result, error) {
	result := &Result{}

	if sessionID != "" {
		session, err := s.storage.GetSession(ctx, sessionID)
		switch {
		case err == nil:
			session.ConnectionID = connID
			session.Connected = true
			session.UpdatedAt = s.clock.Now()
			if err := s.storage.SaveSession(ctx, session); err != nil {
				return nil, fmt.Errorf("saving resumed session: %w", err)
			}
			result.Session = session
			result.Resumed = true
			s.logger.Info("session resumed",
				slog.String("session_id", string(session.ID)),
				slog.String("connection_id", string(connID)))
			return result, nil
		case errors.Is(err, model.ErrSessionNotFound):
			result.Expired = true
			s.logger.Info("session expired",
				slog.String("session_id", string(sessionID)))
		default:
			return nil, fmt.Errorf("looking up session: %w", err)
		}
	}

	if displayName == "" {
		return result, model.ErrNameRequired
	}

	session := &model.Session{
		ID:           model.SessionID(uuid.NewString()),
		ConnectionID: connID,
		DisplayName:  displayName,
		Connected:    true,
		UpdatedAt:    s.clock.Now(),
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving new session: %w", err)
	}

	result.Session = session
	s.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.String("connection_id", string(connID)))
	return result, nil
}
