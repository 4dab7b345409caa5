package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Icerzack/guessroom/internal/protocol"
	"github.com/Icerzack/guessroom/internal/room"
	"github.com/Icerzack/guessroom/internal/round"
)

var ErrInvalidInput = errors.New("invalid input")

// State is everything this client knows about its session. It is a value:
// operations and Apply return the next state instead of mutating.
type State struct {
	// Nickname is the identity, fixed once the server admits us to a room.
	Nickname string `json:"nickname"`

	// Requested is the nickname sent with the last create or join request.
	Requested string `json:"-"`

	Room  room.Room   `json:"room"`
	Round round.State `json:"round"`
}

func (s State) InRoom() bool {
	return s.Room.Joined()
}

func (s State) CanDraw() bool {
	return s.Round.CanDraw(s.Nickname)
}

// CreateRoom validates a room creation request. Admission happens only when
// the server answers with room_created.
func (s State) CreateRoom(nickname string) (State, protocol.Envelope, error) {
	nickname, err := s.checkNickname(nickname)
	if err != nil {
		return s, protocol.Envelope{}, err
	}
	s.Requested = nickname
	return s, protocol.NewCreateRoom(nickname), nil
}

// JoinRoom validates a join request for roomID.
func (s State) JoinRoom(nickname, roomID string) (State, protocol.Envelope, error) {
	nickname, err := s.checkNickname(nickname)
	if err != nil {
		return s, protocol.Envelope{}, err
	}
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return s, protocol.Envelope{}, fmt.Errorf("%w: empty room id", ErrInvalidInput)
	}
	s.Requested = nickname
	return s, protocol.NewJoinRoom(nickname, roomID), nil
}

// LeaveRoom drops the membership locally and returns the request telling
// the server about it.
func (s State) LeaveRoom() (State, protocol.Envelope, error) {
	if !s.InRoom() {
		return s, protocol.Envelope{}, fmt.Errorf("%w: not in a room", ErrInvalidInput)
	}
	env := protocol.NewLeaveRoom(s.Nickname, s.Room.ID)
	return State{}, env, nil
}

func (s State) StartGame() (protocol.Envelope, error) {
	if !s.InRoom() {
		return protocol.Envelope{}, fmt.Errorf("%w: not in a room", ErrInvalidInput)
	}
	return protocol.NewStartGame(s.Nickname, s.Room.ID), nil
}

func (s State) checkNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return "", fmt.Errorf("%w: empty nickname", ErrInvalidInput)
	}
	if s.InRoom() {
		return "", fmt.Errorf("%w: already in room %s", ErrInvalidInput, s.Room.ID)
	}
	return nickname, nil
}
