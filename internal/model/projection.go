package model

// PlayerView is the client-visible rendering of a room member
type PlayerView struct {
	ConnectionID ConnectionID `json:"connectionId"`
	DisplayName  string       `json:"displayName"`
	Role         Role         `json:"role,omitempty"`
}

// RoomView is the client-visible rendering of a room
type RoomView struct {
	ID      RoomID       `json:"id"`
	Code    RoomCode     `json:"code"`
	Owner   ConnectionID `json:"owner"`
	State   RoomState    `json:"state"`
	Players []PlayerView `json:"players"`
}

// ProjectRoom renders a room for clients. Roles are visible only once
// the room is in progress; in the lobby the role field is always
// omitted regardless of internal value.
//
// The same view is broadcast to every member uniformly, so once in
// progress every member sees every other member's role. Any
// per-recipient redaction variant belongs here, not in the handlers.
func ProjectRoom(room *Room) RoomView {
	players := make([]PlayerView, len(room.Players))
	for i, p := range room.Players {
		pv := PlayerView{
			ConnectionID: p.ConnectionID,
			DisplayName:  p.DisplayName,
		}
		if room.State == RoomStateInProgress {
			pv.Role = p.Role
		}
		players[i] = pv
	}

	return RoomView{
		ID:      room.ID,
		Code:    room.Code,
		Owner:   room.Owner,
		State:   room.State,
		Players: players,
	}
}
