package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/imposteur-game/lobby-server/internal/model"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size
	maxMessageSize = 4096

	// Buffer size for outgoing frames
	sendBufferSize = 256
)

// Client is one live websocket connection
type Client struct {
	id      model.ConnectionID
	conn    *websocket.Conn
	send    chan []byte
	session *model.Session
	logger  *slog.Logger
}

func newClient(id model.ConnectionID, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: logger.With(slog.String("connection_id", string(id))),
	}
}

// writePump drains the send channel onto the connection and keeps the
// peer alive with pings. It exits when the send channel is closed by
// the hub or the connection errors.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Warn("write failed", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads frames off the connection and hands decoded
// envelopes to the dispatch function. It returns when the peer
// disconnects or misbehaves.
func (c *Client) readPump(dispatch func(Envelope)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) || closeErr.Code != websocket.CloseNormalClosure {
				c.logger.Info("connection closed", slog.String("error", err.Error()))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("bad frame", slog.String("error", err.Error()))
			continue
		}

		dispatch(env)
	}
}
