package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/services/handshake"
	"github.com/imposteur-game/lobby-server/internal/services/room"
)

// Handler upgrades HTTP requests to websocket connections, runs the
// handshake, and pumps room requests into the controller.
//
// The client identifies itself with query parameters on the upgrade
// request: session_id (a previously issued session id) and/or
// username (required for a fresh identity).
type Handler struct {
	hub        *Hub
	handshake  *handshake.Service
	controller *room.Controller
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// NewHandler creates a new websocket handler
func NewHandler(hub *Hub, hs *handshake.Service, controller *room.Controller, logger *slog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		handshake:  hs,
		controller: controller,
		logger:     logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The lobby protocol carries no credentials beyond the
			// session id, so cross-origin upgrades are allowed
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := model.SessionID(r.URL.Query().Get("session_id"))
	username := r.URL.Query().Get("username")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	connID := model.ConnectionID(uuid.NewString())
	client := newClient(connID, conn, h.logger)
	h.hub.register(client)
	go client.writePump()

	// The connection outlives the upgrade request
	ctx := context.Background()

	result, err := h.handshake.Establish(ctx, connID, sessionID, username)
	if result != nil && result.Expired {
		h.hub.ToConnection(connID, model.EventSessionExpired, nil)
	}
	if err != nil {
		h.logger.Info("handshake rejected",
			slog.String("connection_id", string(connID)),
			slog.String("error", err.Error()))
		h.hub.unregister(client)
		return
	}

	client.session = result.Session

	h.hub.ToConnection(connID, model.EventSession, model.SessionPayload{
		SessionID:    result.Session.ID,
		ConnectionID: connID,
	})

	if err := h.controller.Connect(ctx, result.Session); err != nil {
		h.logger.Error("reconnection replay failed",
			slog.String("connection_id", string(connID)),
			slog.String("error", err.Error()))
	}

	client.readPump(func(env Envelope) {
		h.dispatch(ctx, client, env)
	})

	h.hub.unregister(client)
	if err := h.controller.Disconnect(ctx, client.session); err != nil {
		h.logger.Error("disconnect handling failed",
			slog.String("connection_id", string(connID)),
			slog.String("error", err.Error()))
	}
}

type createRoomRequest struct {
	DisplayName string `json:"displayName"`
}

type joinRoomRequest struct {
	DisplayName string         `json:"displayName"`
	RoomCode    model.RoomCode `json:"roomCode"`
}

// dispatch routes one decoded client request to its handler. Handler
// errors are internal failures; protocol-level rejections have
// already been emitted to the requester by the controller.
func (h *Handler) dispatch(ctx context.Context, client *Client, env Envelope) {
	var err error

	switch env.Event {
	case model.EventCreateRoom:
		var req createRoomRequest
		if err = json.Unmarshal(env.Payload, &req); err == nil {
			err = h.controller.Create(ctx, client.session, req.DisplayName)
		}
	case model.EventJoinRoom:
		var req joinRoomRequest
		if err = json.Unmarshal(env.Payload, &req); err == nil {
			err = h.controller.Join(ctx, client.session, req.DisplayName, req.RoomCode)
		}
	case model.EventLeaveRoom:
		err = h.controller.Leave(ctx, client.session)
	case model.EventStartGame:
		err = h.controller.Start(ctx, client.session)
	default:
		h.logger.Warn("unknown event",
			slog.String("connection_id", string(client.id)),
			slog.String("event", string(env.Event)))
		return
	}

	if err != nil {
		h.logger.Error("request failed",
			slog.String("connection_id", string(client.id)),
			slog.String("event", string(env.Event)),
			slog.String("error", err.Error()))
	}
}
