package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/imposteur-game/lobby-server/internal/model"
	"github.com/imposteur-game/lobby-server/internal/transport/ws"
)

const defaultWait = 5 * time.Second

// Client is a websocket client for the lobby protocol
type Client struct {
	serverURL string
	sessionID string
	username  string
}

// NewClient creates a new lobby client
func NewClient(serverURL, sessionID, username string) *Client {
	return &Client{
		serverURL: serverURL,
		sessionID: sessionID,
		username:  username,
	}
}

// Conn is one established lobby connection, past its handshake
type Conn struct {
	ws        *websocket.Conn
	SessionID model.SessionID
	ConnID    model.ConnectionID
}

// Connect dials the server and runs the handshake, returning once
// the session event has been received
func (c *Client) Connect() (*Conn, error) {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	u.Path = "/ws"

	q := u.Query()
	if c.sessionID != "" {
		q.Set("session_id", c.sessionID)
	}
	if c.username != "" {
		q.Set("username", c.username)
	}
	u.RawQuery = q.Encode()

	wsConn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", u.String(), err)
	}

	conn := &Conn{ws: wsConn}

	// The server speaks first: optionally session_expired, then
	// session with our identity
	for {
		env, err := conn.Next(defaultWait)
		if err != nil {
			_ = wsConn.Close()
			return nil, fmt.Errorf("handshake failed: %w", err)
		}
		if env.Event == model.EventSessionExpired {
			fmt.Println("session expired, continuing with a fresh identity")
			continue
		}
		if env.Event != model.EventSession {
			// Reconnection replay can deliver room state before we
			// notice; keep waiting for the session event
			continue
		}

		var payload model.SessionPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			_ = wsConn.Close()
			return nil, fmt.Errorf("bad session payload: %w", err)
		}
		conn.SessionID = payload.SessionID
		conn.ConnID = payload.ConnectionID
		return conn, nil
	}
}

// Send emits a request event to the server
func (c *Conn) Send(event model.EventType, payload any) error {
	env := struct {
		Event   model.EventType `json:"event"`
		Payload any             `json:"payload,omitempty"`
	}{Event: event, Payload: payload}

	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Next reads the next event from the server, waiting at most the
// given duration. A zero duration waits forever.
func (c *Conn) Next(wait time.Duration) (*ws.Envelope, error) {
	if wait > 0 {
		_ = c.ws.SetReadDeadline(time.Now().Add(wait))
	} else {
		_ = c.ws.SetReadDeadline(time.Time{})
	}

	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}

	var env ws.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("bad frame: %w", err)
	}
	return &env, nil
}

// WaitFor reads events until one of the wanted types arrives
func (c *Conn) WaitFor(wait time.Duration, events ...model.EventType) (*ws.Envelope, error) {
	deadline := time.Now().Add(wait)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("timed out waiting for %v", events)
		}
		env, err := c.Next(remaining)
		if err != nil {
			return nil, err
		}
		for _, want := range events {
			if env.Event == want {
				return env, nil
			}
		}
	}
}

// Close closes the connection
func (c *Conn) Close() error {
	return c.ws.Close()
}

// printEnvelope writes an event to stdout as a JSON line
func printEnvelope(env *ws.Envelope) {
	out := map[string]any{"event": env.Event}
	if len(env.Payload) > 0 {
		out["payload"] = json.RawMessage(env.Payload)
	}
	data, _ := json.Marshal(out)
	fmt.Println(string(data))
}
