package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Icerzack/guessroom/internal/models"
)

var (
	ErrMalformedFrame    = errors.New("malformed frame")
	ErrProtocolViolation = errors.New("unknown message type")
)

// Client to server kinds.
const (
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeLeaveRoom  = "leave_room"
	TypeStartGame  = "start_game"
	TypeChat       = "chat"
	TypeDraw       = "draw"
)

// Server to client kinds. TypeChat and TypeDraw travel both ways.
const (
	TypeRoomCreated  = "room_created"
	TypeRoomJoined   = "room_joined"
	TypeRoomClosed   = "room_closed"
	TypePlayerList   = "player_list"
	TypeGameStarted  = "game_started"
	TypeDrawTurn     = "draw_turn"
	TypeWordToDraw   = "word_to_draw"
	TypeRoundStarted = "round_started"
	TypeGameWon      = "game_won"
)

// SystemUser is the sender of server announcements.
const SystemUser = "System"

// Envelope is the wire unit exchanged with the server.
type Envelope struct {
	Type    string `json:"type"`
	User    string `json:"user,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
	Content string `json:"content,omitempty"`
}

func (e Envelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("error marshaling %s envelope: %w", e.Type, err)
	}
	return data, nil
}

func NewCreateRoom(user string) Envelope {
	return Envelope{Type: TypeCreateRoom, User: user}
}

func NewJoinRoom(user, roomID string) Envelope {
	return Envelope{Type: TypeJoinRoom, User: user, RoomID: roomID}
}

func NewLeaveRoom(user, roomID string) Envelope {
	return Envelope{Type: TypeLeaveRoom, User: user, RoomID: roomID}
}

func NewStartGame(user, roomID string) Envelope {
	return Envelope{Type: TypeStartGame, User: user, RoomID: roomID}
}

func NewChat(user, roomID, text string) Envelope {
	return Envelope{Type: TypeChat, User: user, RoomID: roomID, Content: text}
}

// NewDraw wraps a segment into a draw envelope. The segment travels as a
// JSON string inside content.
func NewDraw(user, roomID string, seg models.Segment) (Envelope, error) {
	content, err := EncodeSegment(seg)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: TypeDraw, User: user, RoomID: roomID, Content: content}, nil
}

// Supersedable reports whether a queued envelope is replaced by the resume
// request sent after a reconnect.
func (e Envelope) Supersedable() bool {
	switch e.Type {
	case TypeCreateRoom, TypeJoinRoom, TypeLeaveRoom:
		return true
	}
	return false
}
